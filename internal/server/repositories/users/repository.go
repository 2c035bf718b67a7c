// Package users declares the repository contract for user identity records.
package users

import (
	"context"

	"github.com/mpolonsky/userauth/internal/server/models"
)

// Repository persists user identity records.
type Repository interface {
	// GetAll returns every user. Order is not guaranteed.
	GetAll(ctx context.Context) ([]models.User, error)

	// GetByID returns the user with the given id, or a NotFound reject.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByDisplayID returns the user with the given display id, or a
	// NotFound reject.
	GetByDisplayID(ctx context.Context, displayID string) (*models.User, error)

	// Create inserts a new identity record, assigning a fresh random id.
	// Inserting a duplicate display id yields a Conflict reject.
	Create(ctx context.Context, displayID, name string) (*models.User, error)
}
