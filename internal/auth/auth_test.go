package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

type memStore struct {
	id       uuid.UUID
	username string
	hash     string
}

func (s *memStore) CredentialsByUsername(_ context.Context, username string) (uuid.UUID, string, error) {
	if username != s.username {
		return uuid.Nil, "", ErrUnknownOperator
	}
	return s.id, s.hash, nil
}

func newTestValidator(t *testing.T, username, password string) (*Validator, uuid.UUID) {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	id := uuid.New()
	return NewValidator(&memStore{id: id, username: username, hash: hash}), id
}

func TestValidateBasicAcceptsCorrectCredentials(t *testing.T) {
	v, wantID := newTestValidator(t, "editor", "s3cret")

	r := httptest.NewRequest("POST", "/newsletters", nil)
	r.SetBasicAuth("editor", "s3cret")

	id, err := v.ValidateBasic(r)
	if err != nil {
		t.Fatalf("ValidateBasic: %v", err)
	}
	if id != wantID {
		t.Fatalf("wrong operator id: %s", id)
	}
}

func TestValidateBasicRejectsWrongPassword(t *testing.T) {
	v, _ := newTestValidator(t, "editor", "s3cret")

	r := httptest.NewRequest("POST", "/newsletters", nil)
	r.SetBasicAuth("editor", "wrong")

	if _, err := v.ValidateBasic(r); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateBasicRejectsUnknownUser(t *testing.T) {
	v, _ := newTestValidator(t, "editor", "s3cret")

	r := httptest.NewRequest("POST", "/newsletters", nil)
	r.SetBasicAuth("ghost", "s3cret")

	if _, err := v.ValidateBasic(r); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateBasicRejectsMissingHeader(t *testing.T) {
	v, _ := newTestValidator(t, "editor", "s3cret")

	r := httptest.NewRequest("POST", "/newsletters", nil)

	if _, err := v.ValidateBasic(r); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestOperatorContextRoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := WithOperator(context.Background(), id)

	got, ok := OperatorFromContext(ctx)
	if !ok || got != id {
		t.Fatalf("got %v ok=%v", got, ok)
	}

	if _, ok := OperatorFromContext(context.Background()); ok {
		t.Fatal("empty context must not carry an operator")
	}
}
