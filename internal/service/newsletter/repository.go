package newsletter

import "context"

// Recipient is a confirmed subscriber as the fan-out sees it.
type Recipient struct {
	Email string
	Name  string
}

// Repository defines the audience lookup contract.
type Repository interface {
	// ConfirmedRecipients returns every confirmed subscriber. Pending
	// subscribers are never part of the audience.
	ConfirmedRecipients(ctx context.Context) ([]Recipient, error)
}
