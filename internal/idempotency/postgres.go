package idempotency

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// PostgresGuard implements Guard against the idempotency table.
//
// A claim is an open transaction holding the freshly inserted placeholder
// row. A concurrent Begin for the same key blocks on the uniqueness
// constraint until the first transaction resolves: commit makes it observe
// the saved response, rollback lets it claim the key itself. That gives
// at-most-one concurrent execution per key across all server processes.
type PostgresGuard struct {
	db *sql.DB
}

// NewPostgresGuard creates a Postgres-backed idempotency guard.
func NewPostgresGuard(db *sql.DB) *PostgresGuard {
	return &PostgresGuard{db: db}
}

type pgClaim struct {
	tx         *sql.Tx
	operatorID uuid.UUID
	key        Key
}

func (c *pgClaim) claimKey() string { return c.key.String() }

func (g *PostgresGuard) Begin(ctx context.Context, operatorID uuid.UUID, key Key) (Claim, *Response, error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin idempotency tx: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO idempotency (operator_id, idempotency_key, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (operator_id, idempotency_key) DO NOTHING
	`, operatorID, key.String())
	if err != nil {
		tx.Rollback()
		return nil, nil, fmt.Errorf("claim idempotency key: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return nil, nil, fmt.Errorf("claim idempotency key: %w", err)
	}
	if n == 1 {
		return &pgClaim{tx: tx, operatorID: operatorID, key: key}, nil, nil
	}

	// Key already taken: the transaction is not needed any further.
	tx.Rollback()

	saved, err := g.savedResponse(ctx, operatorID, key)
	if err == sql.ErrNoRows {
		// Placeholder committed without a response. Unreachable through
		// this guard (placeholder and response commit together), but an
		// operator clearing a wedged key could produce it.
		return nil, nil, ErrInFlight
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load saved response: %w", err)
	}
	return nil, saved, nil
}

func (g *PostgresGuard) savedResponse(ctx context.Context, operatorID uuid.UUID, key Key) (*Response, error) {
	var (
		status  int
		headers []byte
		body    []byte
	)
	err := g.db.QueryRowContext(ctx, `
		SELECT response_status, response_headers, response_body
		FROM idempotency
		WHERE operator_id = $1 AND idempotency_key = $2
		  AND response_status IS NOT NULL
	`, operatorID, key.String()).Scan(&status, &headers, &body)
	if err != nil {
		return nil, err
	}

	hdr := http.Header{}
	if len(headers) > 0 {
		if err := json.Unmarshal(headers, &hdr); err != nil {
			return nil, fmt.Errorf("decode saved headers: %w", err)
		}
	}
	return &Response{StatusCode: status, Header: hdr, Body: body}, nil
}

func (g *PostgresGuard) Complete(ctx context.Context, c Claim, resp Response) error {
	pc, ok := c.(*pgClaim)
	if !ok {
		return fmt.Errorf("claim was not issued by this guard")
	}

	headers, err := json.Marshal(resp.Header)
	if err != nil {
		pc.tx.Rollback()
		return fmt.Errorf("encode response headers: %w", err)
	}

	_, err = pc.tx.ExecContext(ctx, `
		UPDATE idempotency
		SET response_status = $3, response_headers = $4, response_body = $5
		WHERE operator_id = $1 AND idempotency_key = $2
	`, pc.operatorID, pc.key.String(), resp.StatusCode, headers, resp.Body)
	if err != nil {
		pc.tx.Rollback()
		return fmt.Errorf("save response: %w", err)
	}

	if err := pc.tx.Commit(); err != nil {
		return fmt.Errorf("commit idempotency record: %w", err)
	}
	return nil
}

func (g *PostgresGuard) Abort(ctx context.Context, c Claim) error {
	pc, ok := c.(*pgClaim)
	if !ok {
		return fmt.Errorf("claim was not issued by this guard")
	}
	return pc.tx.Rollback()
}
