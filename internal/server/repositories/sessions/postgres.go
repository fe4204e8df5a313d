// Package sessions provides the PostgreSQL-backed repository for the per-user
// session-token set. Each mutation is a single-row statement, so concurrent
// logins and logouts for one user never lose updates.
package sessions

import (
	"context"
	"fmt"

	"taskkeeper/internal/dbx"
)

// PostgresRepository implements session-set storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, userID string, token string) error {
	query := `INSERT INTO session_tokens (user_id, token) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userID string, token string) error {
	query := `DELETE FROM session_tokens WHERE user_id = $1 AND token = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveAll(ctx context.Context, userID string) error {
	query := `DELETE FROM session_tokens WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
