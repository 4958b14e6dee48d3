package subscription

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignite/newsletter/internal/domain"
)

// Repository defines the data access contract for subscribers and their
// confirmation tokens.
type Repository interface {
	// CreateWithToken stores a subscriber and its confirmation token in a
	// single transaction. Returns ErrDuplicateEmail when the address is
	// already present; in that case neither row is written.
	CreateWithToken(ctx context.Context, sub *domain.Subscriber, token string) error

	// GetByEmail returns the subscriber for an address, or ErrNotFound.
	GetByEmail(ctx context.Context, email domain.EmailAddress) (*domain.Subscriber, error)

	// InsertToken stores an additional confirmation token for an existing
	// subscriber. Older tokens stay valid.
	InsertToken(ctx context.Context, subscriberID uuid.UUID, token string) error

	// SubscriberIDForToken resolves a confirmation token, or ErrTokenNotFound.
	SubscriberIDForToken(ctx context.Context, token string) (uuid.UUID, error)

	// Confirm marks the subscriber as confirmed. Confirming an already
	// confirmed subscriber is a no-op.
	Confirm(ctx context.Context, subscriberID uuid.UUID) error
}
