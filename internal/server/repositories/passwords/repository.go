// Package passwords declares the repository contract for stored password
// hashes, keyed one-to-one by user id.
package passwords

import "context"

// Repository persists password hashes. Only hashes cross this boundary; raw
// passwords never reach storage.
type Repository interface {
	// Save stores the hash for userID, replacing any previous one. There is
	// at most one hash per user, no history.
	Save(ctx context.Context, userID, hash string) error

	// GetHash returns the stored hash for userID, or a NotFound reject.
	GetHash(ctx context.Context, userID string) (string, error)
}
