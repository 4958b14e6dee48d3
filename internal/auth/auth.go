// Package auth validates HTTP Basic credentials for publishing operators
// against bcrypt password hashes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers missing, malformed and wrong credentials
// alike. Callers answer it with a 401 challenge and never say which part
// was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnknownOperator indicates no operator row for the username.
var ErrUnknownOperator = errors.New("unknown operator")

// OperatorStore looks up publishing operators.
type OperatorStore interface {
	// CredentialsByUsername returns the operator id and bcrypt password
	// hash, or ErrUnknownOperator.
	CredentialsByUsername(ctx context.Context, username string) (uuid.UUID, string, error)
}

// dummyHash is a bcrypt hash of a random string no password will match.
// Comparing against it for unknown usernames keeps the response time of
// "no such user" in line with "wrong password".
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMye1J6dZzyXkPYrxAYWpmMZGhqMApLQv0K"

// Validator checks Basic credentials.
type Validator struct {
	store OperatorStore
}

// NewValidator creates a credential validator.
func NewValidator(store OperatorStore) *Validator {
	return &Validator{store: store}
}

// ValidateBasic extracts and verifies the request's Basic credentials and
// returns the authenticated operator's id.
func (v *Validator) ValidateBasic(r *http.Request) (uuid.UUID, error) {
	username, password, ok := r.BasicAuth()
	if !ok {
		return uuid.Nil, ErrInvalidCredentials
	}

	id, hash, err := v.store.CredentialsByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, ErrUnknownOperator) {
			// Burn a comparison anyway.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return uuid.Nil, ErrInvalidCredentials
		}
		return uuid.Nil, fmt.Errorf("loading operator: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return uuid.Nil, ErrInvalidCredentials
	}
	return id, nil
}

// HashPassword returns a bcrypt hash for storing a new operator password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

type contextKey struct{}

// WithOperator stores the authenticated operator id on the context.
func WithOperator(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// OperatorFromContext returns the authenticated operator id, if any.
func OperatorFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return id, ok
}
