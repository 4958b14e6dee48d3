package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/newsletter/internal/auth"
)

// ErrDuplicateUsername indicates the operator username is already taken.
var ErrDuplicateUsername = errors.New("username already exists")

// OperatorRepository implements auth.OperatorStore.
type OperatorRepository struct {
	db *sql.DB
}

// NewOperatorRepository creates an operator repository.
func NewOperatorRepository(db *sql.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

// CredentialsByUsername loads an operator's id and password hash.
func (r *OperatorRepository) CredentialsByUsername(ctx context.Context, username string) (uuid.UUID, string, error) {
	var (
		id   uuid.UUID
		hash string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, password_hash
		FROM operators
		WHERE username = $1`,
		username,
	).Scan(&id, &hash)
	if err == sql.ErrNoRows {
		return uuid.Nil, "", auth.ErrUnknownOperator
	}
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("querying operator: %w", err)
	}
	return id, hash, nil
}

// CreateOperator stores a new publishing operator.
func (r *OperatorRepository) CreateOperator(ctx context.Context, username, passwordHash string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO operators (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`,
		id, username, passwordHash, time.Now().UTC(),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return uuid.Nil, ErrDuplicateUsername
		}
		return uuid.Nil, fmt.Errorf("inserting operator: %w", err)
	}
	return id, nil
}
