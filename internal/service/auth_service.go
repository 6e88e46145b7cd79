package service

import (
	"context"
	"log/slog"

	"github.com/divvyhq/divvy/internal/auth"
	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

// AuthService handles registration, login and session identity.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
	}
}

// Register creates a new user account and returns the user with a session
// token.
func (s *AuthService) Register(ctx context.Context, username, email, displayName, password string) (*models.User, string, error) {
	if username == "" || email == "" || displayName == "" {
		return nil, "", Validationf("username, email and display name are required")
	}

	user, err := s.authenticator.Register(ctx, username, email, displayName, password)
	if err != nil {
		slog.Warn("Registration failed", "email", email, "error", err)
		switch err {
		case auth.ErrEmailExists, auth.ErrUsernameExists:
			return nil, "", &Error{Kind: KindConflict, Message: err.Error(), Err: err}
		case auth.ErrWeakPassword:
			return nil, "", &Error{Kind: KindValidation, Message: err.Error(), Err: err}
		}
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// Login authenticates a user and returns the user with a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", Validationf("email and password are required")
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login failed", "email", email)
		return nil, "", &Error{Kind: KindPermission, Message: auth.ErrInvalidCredentials.Error(), Err: err}
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}

// CurrentUser returns the full profile of the authenticated user.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}
