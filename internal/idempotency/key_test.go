package idempotency

import (
	"strings"
	"testing"
)

func TestParseKey(t *testing.T) {
	if _, err := ParseKey("4b3c9f02-1dd2-44d5-a3f7-27d9970cb9e4"); err != nil {
		t.Fatalf("uuid key rejected: %v", err)
	}
	if _, err := ParseKey("x"); err != nil {
		t.Fatalf("single-char key rejected: %v", err)
	}
	if _, err := ParseKey(strings.Repeat("a", 49)); err != nil {
		t.Fatalf("49-char key rejected: %v", err)
	}
}

func TestParseKeyRejectsEmpty(t *testing.T) {
	if _, err := ParseKey(""); err == nil {
		t.Fatal("empty key accepted")
	}
}

func TestParseKeyRejectsTooLong(t *testing.T) {
	if _, err := ParseKey(strings.Repeat("a", 50)); err == nil {
		t.Fatal("50-char key accepted")
	}
}
