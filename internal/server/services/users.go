// Package services contains the server-side business logic. This file
// implements UserService, the user registry: it composes the user and
// password repositories with the password hasher behind registration and
// credential-verification use cases.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mpolonsky/userauth/internal/dbx"
	"github.com/mpolonsky/userauth/internal/reject"
	"github.com/mpolonsky/userauth/internal/server/models"
	"github.com/mpolonsky/userauth/internal/server/passhash"
	"github.com/mpolonsky/userauth/internal/server/repositories/repomanager"
)

// UserService is the user registry. It owns the display-id uniqueness rule
// and the pairing of identity records with password hashes.
type UserService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	hasher passhash.Hasher
}

// NewUserService constructs a UserService from its capabilities.
func NewUserService(db *sql.DB, repos repomanager.RepositoryManager, hasher passhash.Hasher) *UserService {
	return &UserService{db: db, repos: repos, hasher: hasher}
}

// GetUserByID returns the user with the given id, or a NotFound reject.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.repos.Users(s.db).GetByID(ctx, id)
}

// GetUserByDisplayID returns the user with the given display id, or a
// NotFound reject.
func (s *UserService) GetUserByDisplayID(ctx context.Context, displayID string) (*models.User, error) {
	return s.repos.Users(s.db).GetByDisplayID(ctx, displayID)
}

// ListUsers returns all users. Order is not guaranteed.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repos.Users(s.db).GetAll(ctx)
}

// Register creates a new identity record and stores the password hash in one
// transaction, so a failure cannot leave a user without a password record.
// A taken display id yields a Conflict reject; the check-then-insert runs
// inside the transaction and the unique constraint on display_id backstops
// concurrent registrations of the same display id.
func (s *UserService) Register(ctx context.Context, displayID, name, rawPassword string) (*models.User, error) {
	// Hashing is the slow part; keep it outside the transaction.
	hash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userRepo := s.repos.Users(tx)

		_, err := userRepo.GetByDisplayID(ctx, displayID)
		if err == nil {
			return reject.NewConflict("a user with the same display id already exists")
		}
		if !reject.IsKind(err, reject.NotFound) {
			return err
		}

		user, err = userRepo.Create(ctx, displayID, name)
		if err != nil {
			return err
		}

		return s.repos.Passwords(tx).Save(ctx, user.ID, hash)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// VerifyUserPassword checks raw against the stored hash for userID. A
// missing password record is a NotFound reject, not a false; a corrupt
// stored hash is an opaque error, not a false.
func (s *UserService) VerifyUserPassword(ctx context.Context, userID, raw string) (bool, error) {
	hash, err := s.repos.Passwords(s.db).GetHash(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.hasher.Verify(raw, hash)
}

// UpdateUserPassword re-hashes newRaw and replaces the stored hash. No
// history is kept and no old-password check happens at this layer.
func (s *UserService) UpdateUserPassword(ctx context.Context, userID, newRaw string) error {
	hash, err := s.hasher.Hash(newRaw)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	return s.repos.Passwords(s.db).Save(ctx, userID, hash)
}
