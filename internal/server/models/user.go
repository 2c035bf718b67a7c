// Package models holds the persistent entities of the service.
package models

import "time"

// User is an identity record. The ID is an opaque random UUID assigned at
// creation and never reused; DisplayID is the user-chosen unique login
// handle; Name is the display name. Users are never mutated in place.
type User struct {
	ID        string    `json:"id"`
	DisplayID string    `json:"display_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}

// StoredPassword is the one-to-one password record for a user. Hash is a
// bcrypt hash with an embedded per-hash salt; the raw password is never
// stored or read back.
type StoredPassword struct {
	UserID string
	Hash   string
}
