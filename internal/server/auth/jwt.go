// Package auth implements the credential manager: it encodes a user id plus
// an issuance/expiry window into a signed JWT and validates it back.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mpolonsky/userauth/internal/reject"
)

// Manager issues and checks credentials. The signing key, issuer, and
// lifetime are fixed at construction. Tokens are stateless: nothing is
// persisted server-side, so a credential stays usable until it expires.
type Manager struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
}

// NewManager builds a credential manager. The key signs with HMAC-SHA256.
func NewManager(secret []byte, issuer string, lifetime time.Duration) *Manager {
	return &Manager{secret: secret, issuer: issuer, lifetime: lifetime}
}

// Issue signs a credential asserting userID for the configured lifetime.
func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Check decodes the credential, validates signature, issuer, and expiry, and
// returns the subject user id. Every failure mode collapses into a single
// Unauthorized reject; the caller cannot tell expired from tampered.
func (m *Manager) Check(credential string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(credential, claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", reject.NewUnauthorized("invalid credential")
	}
	return claims.Subject, nil
}

// Revoke accepts a valid credential and discards it. Credentials are
// stateless, so revocation has no server-side effect: logging out means the
// client stops presenting the token and it ages out at expiry.
func (m *Manager) Revoke(credential string) error {
	if _, err := m.Check(credential); err != nil {
		return err
	}
	return nil
}
