package services

import (
	"context"
	"fmt"

	"github.com/mpolonsky/userauth/internal/reject"
	"github.com/mpolonsky/userauth/internal/server/auth"
	"github.com/mpolonsky/userauth/internal/server/models"
)

// SessionService composes the user registry with the credential manager
// behind the login, introspection, and logout use cases.
type SessionService struct {
	users       *UserService
	credentials *auth.Manager
}

// NewSessionService constructs a SessionService.
func NewSessionService(users *UserService, credentials *auth.Manager) *SessionService {
	return &SessionService{users: users, credentials: credentials}
}

// Login verifies the password for displayID and, on success, issues a
// credential. An unknown display id is a NotFound reject and a wrong
// password an Unauthorized reject; transports may normalize both to a
// generic 401 to avoid user enumeration.
func (s *SessionService) Login(ctx context.Context, displayID, password string) (string, error) {
	user, err := s.users.GetUserByDisplayID(ctx, displayID)
	if err != nil {
		return "", err
	}

	ok, err := s.users.VerifyUserPassword(ctx, user.ID, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", reject.NewUnauthorized("unauthorized")
	}

	credential, err := s.credentials.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("error issuing credential: %w", err)
	}
	return credential, nil
}

// Me resolves a credential to its user. The subject must resolve to an
// existing user for the credential to count as valid, so a stale subject
// rejects as Unauthorized rather than NotFound.
func (s *SessionService) Me(ctx context.Context, credential string) (*models.User, error) {
	userID, err := s.credentials.Check(credential)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if reject.IsKind(err, reject.NotFound) {
			return nil, reject.NewUnauthorized("unauthorized")
		}
		return nil, err
	}
	return user, nil
}

// Logout accepts a valid credential and revokes it. Credentials are
// stateless, so the server-side effect is acceptance only; the client
// discards the token.
func (s *SessionService) Logout(ctx context.Context, credential string) error {
	return s.credentials.Revoke(credential)
}
