// Package passhash wraps the slow, salted one-way hash used for stored
// passwords behind a small capability interface.
package passhash

// Hasher hashes raw passwords for storage and verifies candidates against
// stored hashes.
type Hasher interface {
	// Hash returns a storable hash of raw with an embedded random salt.
	Hash(raw string) (string, error)

	// Verify reports whether raw matches hash. A mismatch is (false, nil);
	// a malformed stored hash is a non-nil error, never a silent false.
	Verify(raw, hash string) (bool, error)
}
