package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// SessionStore persists the single current-session record.
type SessionStore interface {
	CurrentUser(ctx context.Context) (User, bool, error)
	SetCurrentUser(ctx context.Context, user *User) error
}

// AuthService authenticates users against their stored credential and tracks
// the single signed-in session.
type AuthService struct {
	users   UserStore
	session SessionStore
	logger  *slog.Logger
}

// NewAuthService wires dependencies for authentication operations.
func NewAuthService(users UserStore, session SessionStore) *AuthService {
	return NewAuthServiceWithLogger(users, session, nil)
}

// NewAuthServiceWithLogger constructs an auth service with a specified logger.
func NewAuthServiceWithLogger(users UserStore, session SessionStore, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, session: session, logger: defaultLogger(logger)}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Login matches the email case-insensitively, verifies the secret against
// the stored credential, and records the user as the current session.
func (s *AuthService) Login(ctx context.Context, email, secret string) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Login", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to log in", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user logged in")
	}()

	users, listErr := s.users.ListUsers(ctx)
	if listErr != nil {
		err = listErr
		return
	}

	found := findUserByEmail(users, email)
	if found == nil {
		err = ErrInvalidCredentials
		return
	}
	if verifyErr := VerifyCredential(found.Credential, secret); verifyErr != nil {
		if !errors.Is(verifyErr, ErrInvalidCredentials) {
			// An unreadable stored hash must not surface as a server fault.
			logger.ErrorContext(ctx, "stored credential is unreadable", "user_id", found.ID, "error", verifyErr)
			verifyErr = ErrInvalidCredentials
		}
		err = verifyErr
		return
	}

	if sessionErr := s.session.SetCurrentUser(ctx, found); sessionErr != nil {
		err = sessionErr
		return
	}
	user = *found
	return
}

// Logout clears the current session. Logging out with no session is not an
// error.
func (s *AuthService) Logout(ctx context.Context) (err error) {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}

	logger := s.loggerWith(ctx, "Logout")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to log out", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user logged out")
	}()

	return s.session.SetCurrentUser(ctx, nil)
}

// CurrentUser returns the signed-in user, or ErrUnauthorized when the
// session is empty.
func (s *AuthService) CurrentUser(ctx context.Context) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("AuthService is nil")
	}
	user, ok, err := s.session.CurrentUser(ctx)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrUnauthorized
	}
	return user, nil
}

// CurrentPrincipal resolves the signed-in user into an authorization
// principal.
func (s *AuthService) CurrentPrincipal(ctx context.Context) (Principal, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return Principal{}, err
	}
	return Principal{UserID: user.ID, IsAdmin: user.Privileged}, nil
}

// CanAccessAdminArea reports whether the principal may use the management
// surface.
func CanAccessAdminArea(principal Principal) bool {
	return principal.IsAdmin
}
