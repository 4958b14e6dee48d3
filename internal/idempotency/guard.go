package idempotency

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// ErrInFlight is returned by Begin when another execution currently holds
// the key. Callers surface it as a transient conflict; the client retries
// with the same key.
var ErrInFlight = errors.New("idempotency key is already being processed")

// Response is the HTTP-level outcome saved against a completed key and
// replayed verbatim on retries.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Claim represents sole ownership of a key while a publish executes. It is
// opaque to callers: obtain one from Begin, resolve it with Complete or
// Abort. Implementations live in this package.
type Claim interface {
	claimKey() string
}

// Guard serializes executions per (operator, key).
//
// Begin returns exactly one of:
//   - a non-nil Claim: the caller is the sole executor and must eventually
//     call Complete (on success) or Abort (on failure);
//   - a non-nil Response: a previous execution completed, the caller must
//     replay it without side effects;
//   - ErrInFlight: another execution holds the key right now.
type Guard interface {
	Begin(ctx context.Context, operatorID uuid.UUID, key Key) (Claim, *Response, error)

	// Complete saves the response against the claim. After Complete
	// returns, every Begin for the same key replays resp.
	Complete(ctx context.Context, c Claim, resp Response) error

	// Abort releases the claim without saving a response, freeing the key
	// for a retry.
	Abort(ctx context.Context, c Claim) error
}
