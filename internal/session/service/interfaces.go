package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/narwhalmedia/reelscout/internal/session/domain"
	"github.com/narwhalmedia/reelscout/internal/tmdb"
	"github.com/narwhalmedia/reelscout/pkg/models"
)

// Authenticator is the TMDB authentication API.
type Authenticator interface {
	CreateRequestToken(ctx context.Context) (*models.RequestToken, error)
	ValidateWithLogin(ctx context.Context, username, password, requestToken string) (*models.RequestToken, error)
	CreateSession(ctx context.Context, requestToken string) (*models.SessionResponse, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Account(ctx context.Context, sessionID string) (*models.Profile, error)
}

// AuthServiceInterface defines the session operations used by the HTTP
// handlers, the bearer middleware and the CLI.
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (*domain.LoginResult, error)
	Restore(ctx context.Context, sessionID uuid.UUID) (*domain.CurrentUser, error)
	Current(ctx context.Context) (*domain.CurrentUser, error)
	Authenticate(ctx context.Context, accessToken string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
}

var (
	_ AuthServiceInterface = (*AuthService)(nil)
	_ Authenticator        = (*tmdb.Client)(nil)
)
