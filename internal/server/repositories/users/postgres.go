package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mpolonsky/userauth/internal/dbx"
	"github.com/mpolonsky/userauth/internal/reject"
	"github.com/mpolonsky/userauth/internal/server/models"
)

// SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX, so the same code
// runs against *sql.DB or *sql.Tx.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.User, error) {
	query :=
		`SELECT id, display_id, name, created_at FROM users
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.DisplayID, &user.Name, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return users, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, display_id, name, created_at FROM users
		 WHERE id = $1
		 `

	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByDisplayID(ctx context.Context, displayID string) (*models.User, error) {
	query :=
		`SELECT id, display_id, name, created_at FROM users
		 WHERE display_id = $1
		 `

	return r.getOne(ctx, query, displayID)
}

func (r *PostgresRepository) Create(ctx context.Context, displayID, name string) (*models.User, error) {
	query :=
		`INSERT INTO users (id, display_id, name)
		 VALUES ($1, $2, $3)
		 RETURNING created_at
		 `

	user := &models.User{
		ID:        uuid.NewString(),
		DisplayID: displayID,
		Name:      name,
	}

	err := r.db.QueryRowContext(ctx, query, user.ID, user.DisplayID, user.Name).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, reject.NewConflict("a user with the same display id already exists")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.DisplayID, &user.Name, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reject.NewNotFound("user not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
