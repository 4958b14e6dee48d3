// Package postgres implements the service repositories on PostgreSQL
// using database/sql with lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/service/newsletter"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// uniqueViolation is the PostgreSQL error code for unique constraint hits.
const uniqueViolation = "23505"

// SubscriberRepository implements subscription.Repository and
// newsletter.Repository.
type SubscriberRepository struct {
	db *sql.DB
}

// NewSubscriberRepository creates a subscriber repository.
func NewSubscriberRepository(db *sql.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// CreateWithToken inserts the subscriber and its confirmation token in one
// transaction.
func (r *SubscriberRepository) CreateWithToken(ctx context.Context, sub *domain.Subscriber, token string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO subscriptions (id, email, name, status, subscribed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		sub.ID, sub.Email.String(), sub.Name.String(), string(sub.Status), sub.SubscribedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return subscription.ErrDuplicateEmail
		}
		return fmt.Errorf("inserting subscriber: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO subscription_tokens (subscription_token, subscription_id)
		VALUES ($1, $2)`,
		token, sub.ID,
	)
	if err != nil {
		return fmt.Errorf("inserting token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetByEmail loads a subscriber by address.
func (r *SubscriberRepository) GetByEmail(ctx context.Context, addr domain.EmailAddress) (*domain.Subscriber, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, status, subscribed_at
		FROM subscriptions
		WHERE email = $1`,
		addr.String(),
	)
	return scanSubscriber(row)
}

// InsertToken stores an additional confirmation token for an existing
// subscriber.
func (r *SubscriberRepository) InsertToken(ctx context.Context, subscriberID uuid.UUID, token string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscription_tokens (subscription_token, subscription_id)
		VALUES ($1, $2)`,
		token, subscriberID,
	)
	if err != nil {
		return fmt.Errorf("inserting token: %w", err)
	}
	return nil
}

// SubscriberIDForToken resolves a confirmation token.
func (r *SubscriberRepository) SubscriberIDForToken(ctx context.Context, token string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx, `
		SELECT subscription_id
		FROM subscription_tokens
		WHERE subscription_token = $1`,
		token,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return uuid.Nil, subscription.ErrTokenNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("querying token: %w", err)
	}
	return id, nil
}

// Confirm promotes a subscriber to confirmed. Already confirmed rows are
// left as they are.
func (r *SubscriberRepository) Confirm(ctx context.Context, subscriberID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = $1
		WHERE id = $2`,
		string(domain.SubscriberConfirmed), subscriberID,
	)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	return nil
}

// ConfirmedRecipients returns the confirmed audience for a fan-out.
func (r *SubscriberRepository) ConfirmedRecipients(ctx context.Context) ([]newsletter.Recipient, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT email, name
		FROM subscriptions
		WHERE status = $1`,
		string(domain.SubscriberConfirmed),
	)
	if err != nil {
		return nil, fmt.Errorf("querying confirmed subscribers: %w", err)
	}
	defer rows.Close()

	var recipients []newsletter.Recipient
	for rows.Next() {
		var rec newsletter.Recipient
		if err := rows.Scan(&rec.Email, &rec.Name); err != nil {
			return nil, fmt.Errorf("scanning recipient: %w", err)
		}
		recipients = append(recipients, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recipients: %w", err)
	}
	return recipients, nil
}

func scanSubscriber(row *sql.Row) (*domain.Subscriber, error) {
	var (
		sub    domain.Subscriber
		email  string
		name   string
		status string
	)
	err := row.Scan(&sub.ID, &email, &name, &status, &sub.SubscribedAt)
	if err == sql.ErrNoRows {
		return nil, subscription.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning subscriber: %w", err)
	}

	sub.Email, err = domain.ParseEmailAddress(email)
	if err != nil {
		return nil, fmt.Errorf("stored email %q invalid: %w", email, err)
	}
	sub.Name, err = domain.ParseSubscriberName(name)
	if err != nil {
		return nil, fmt.Errorf("stored name invalid: %w", err)
	}
	sub.Status = domain.SubscriberStatus(status)
	return &sub, nil
}
