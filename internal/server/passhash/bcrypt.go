package passhash

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt implements Hasher with golang.org/x/crypto/bcrypt. Cost is fixed at
// construction; it is configuration, not per-call input.
type Bcrypt struct {
	cost int
}

// NewBcrypt builds a bcrypt hasher with the given cost factor. A cost of 0
// falls back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(raw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(raw), b.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(h), nil
}

func (b *Bcrypt) Verify(raw, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	// Corrupt or truncated stored hash. Surfacing it as a hard error keeps
	// storage corruption from reading as "wrong password".
	return false, fmt.Errorf("error challenging password hash: %w", err)
}
