package domain

import (
	"strings"
	"testing"
)

func TestParseEmailAddressValid(t *testing.T) {
	for _, in := range []string{
		"big@cat.com",
		"ursula_le_guin@gmail.com",
		"first.last+tag@sub.example.co.uk",
	} {
		if _, err := ParseEmailAddress(in); err != nil {
			t.Errorf("ParseEmailAddress(%q): unexpected error %v", in, err)
		}
	}
}

func TestParseEmailAddressInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"ursulaledomain.com",
		"@domain.com",
		"ursula@",
		"ursula@domain",
		"ursula@.com",
		"two@@domain.com",
		"spaces in@domain.com",
	} {
		if _, err := ParseEmailAddress(in); err == nil {
			t.Errorf("ParseEmailAddress(%q): expected error, got none", in)
		}
	}
}

func TestParseSubscriberNameValid(t *testing.T) {
	if _, err := ParseSubscriberName("Stanley and third ate a bird"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestA256GraphemeNameIsValid(t *testing.T) {
	name := strings.Repeat("ё", 256)
	if _, err := ParseSubscriberName(name); err != nil {
		t.Fatalf("256-grapheme name rejected: %v", err)
	}
}

func TestNameLongerThan256GraphemesIsRejected(t *testing.T) {
	name := strings.Repeat("ё", 257)
	if _, err := ParseSubscriberName(name); err == nil {
		t.Fatal("257-grapheme name accepted")
	}
}

func TestEmptyAndWhitespaceNamesAreRejected(t *testing.T) {
	for _, in := range []string{"", "    ", "\t\n"} {
		if _, err := ParseSubscriberName(in); err == nil {
			t.Errorf("ParseSubscriberName(%q): expected error, got none", in)
		}
	}
}

func TestNameWithForbiddenCharactersIsRejected(t *testing.T) {
	for _, c := range []string{"/", "(", ")", `"`, "<", ">", `\`, "{", "}"} {
		if _, err := ParseSubscriberName("stan" + c); err == nil {
			t.Errorf("name containing %q accepted", c)
		}
	}
}

func TestNewSubscriberStartsPending(t *testing.T) {
	email, _ := ParseEmailAddress("big@cat.com")
	name, _ := ParseSubscriberName("stan")
	sub := NewSubscriber(email, name)

	if sub.Status != SubscriberPending {
		t.Fatalf("expected pending_confirmation, got %s", sub.Status)
	}
	if sub.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("expected a non-zero subscriber id")
	}
}

func TestNewIssueValidation(t *testing.T) {
	if _, err := NewIssue("Title", "<p>html</p>", "text"); err != nil {
		t.Fatalf("valid issue rejected: %v", err)
	}

	cases := []struct {
		name              string
		title, html, text string
	}{
		{"missing title", "", "<p>h</p>", "t"},
		{"missing html", "Title", "", "t"},
		{"missing text", "Title", "<p>h</p>", ""},
	}
	for _, tc := range cases {
		if _, err := NewIssue(tc.title, tc.html, tc.text); err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
		}
	}
}
