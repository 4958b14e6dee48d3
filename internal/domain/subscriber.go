package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriberStatus enumerates the states a subscriber can be in.
// Transitions are monotone: pending_confirmation advances to confirmed and
// never back.
type SubscriberStatus string

const (
	SubscriberPending   SubscriberStatus = "pending_confirmation"
	SubscriberConfirmed SubscriberStatus = "confirmed"
)

// Subscriber represents a single newsletter recipient.
type Subscriber struct {
	ID           uuid.UUID
	Email        EmailAddress
	Name         SubscriberName
	Status       SubscriberStatus
	SubscribedAt time.Time
}

// NewSubscriber creates a pending subscriber with a fresh surrogate id.
func NewSubscriber(email EmailAddress, name SubscriberName) *Subscriber {
	return &Subscriber{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		Status:       SubscriberPending,
		SubscribedAt: time.Now().UTC(),
	}
}
