package passwords

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mpolonsky/userauth/internal/dbx"
	"github.com/mpolonsky/userauth/internal/reject"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts the single hash row for userID.
func (r *PostgresRepository) Save(ctx context.Context, userID, hash string) error {
	query :=
		`INSERT INTO user_passwords (user_id, hash)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET hash = EXCLUDED.hash, updated_at = now()
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, hash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetHash(ctx context.Context, userID string) (string, error) {
	query :=
		`SELECT hash FROM user_passwords
		 WHERE user_id = $1
		 `

	var hash string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", reject.NewNotFound("password not found")
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return hash, nil
}
