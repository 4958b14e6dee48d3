package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/email"
	"github.com/ignite/newsletter/internal/pkg/logger"
)

// Service orchestrates the double opt-in flow.
type Service struct {
	repo     Repository
	sender   email.Sender
	composer *email.ConfirmationComposer
}

// NewService creates a subscription service.
func NewService(repo Repository, sender email.Sender, composer *email.ConfirmationComposer) *Service {
	return &Service{repo: repo, sender: sender, composer: composer}
}

// Subscribe registers a pending subscriber and sends the confirmation email.
// The subscriber and token are stored atomically before any email goes out;
// delivery is best effort and never fails the signup. Subscribing an address
// that is already known issues a fresh token and resends the email, so the
// endpoint is safe to retry.
func (s *Service) Subscribe(ctx context.Context, addr domain.EmailAddress, name domain.SubscriberName) error {
	token, err := generateToken()
	if err != nil {
		return err
	}

	sub := domain.NewSubscriber(addr, name)
	err = s.repo.CreateWithToken(ctx, sub, token)
	if errors.Is(err, ErrDuplicateEmail) {
		existing, getErr := s.repo.GetByEmail(ctx, addr)
		if getErr != nil {
			return fmt.Errorf("loading existing subscriber: %w", getErr)
		}
		if insErr := s.repo.InsertToken(ctx, existing.ID, token); insErr != nil {
			return fmt.Errorf("storing new token: %w", insErr)
		}
		sub = existing
	} else if err != nil {
		return fmt.Errorf("storing subscriber: %w", err)
	}

	msg := s.composer.Compose(addr.String(), name.String(), token)
	if sendErr := s.sender.Send(ctx, msg); sendErr != nil {
		logger.Warn("confirmation email failed",
			"subscriber_id", sub.ID.String(),
			"email", addr.String(),
			"error", sendErr.Error())
	}
	return nil
}

// Confirm redeems a confirmation token and promotes the subscriber to
// confirmed. Redeeming the same token twice succeeds both times.
func (s *Service) Confirm(ctx context.Context, token string) error {
	id, err := s.repo.SubscriberIDForToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("resolving token: %w", err)
	}
	if err := s.repo.Confirm(ctx, id); err != nil {
		return fmt.Errorf("confirming subscriber: %w", err)
	}
	return nil
}
