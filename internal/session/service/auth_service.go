package service

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/reelscout/internal/session/domain"
	"github.com/narwhalmedia/reelscout/internal/session/repository"
	"github.com/narwhalmedia/reelscout/internal/tmdb"
	"github.com/narwhalmedia/reelscout/pkg/auth"
	"github.com/narwhalmedia/reelscout/pkg/errors"
	"github.com/narwhalmedia/reelscout/pkg/events"
	"github.com/narwhalmedia/reelscout/pkg/interfaces"
)

const loginFailed = "Login failed"

var errNoSession = stderrors.New("TMDB did not create a session")

// AuthService runs the TMDB login handshake and manages the stored sessions
// that access tokens point at.
type AuthService struct {
	tmdb       Authenticator
	repo       repository.Repository
	jwtManager *auth.JWTManager
	eventBus   interfaces.EventBus
	logger     interfaces.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	tmdbAuth Authenticator,
	repo repository.Repository,
	jwtManager *auth.JWTManager,
	eventBus interfaces.EventBus,
	logger interfaces.Logger,
) *AuthService {
	return &AuthService{
		tmdb:       tmdbAuth,
		repo:       repo,
		jwtManager: jwtManager,
		eventBus:   eventBus,
		logger:     logger,
		now:        time.Now,
	}
}

// Login validates the credentials with TMDB, stores the resulting session
// and issues an access token for it.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.BadRequest("username and password are required")
	}

	token, err := s.tmdb.CreateRequestToken(ctx)
	if err != nil {
		return nil, errors.Upstream(loginFailed, err)
	}

	if _, err := s.tmdb.ValidateWithLogin(ctx, username, password, token.RequestToken); err != nil {
		if tmdb.IsStatus(err, http.StatusUnauthorized) {
			return nil, errors.Mask(errors.ErrorTypeUnauthorized, "Invalid username or password", err)
		}
		return nil, errors.Upstream(loginFailed, err)
	}

	created, err := s.tmdb.CreateSession(ctx, token.RequestToken)
	if err != nil {
		return nil, errors.Upstream(loginFailed, err)
	}
	if !created.Success || created.SessionID == "" {
		return nil, errors.Upstream(loginFailed, errNoSession)
	}

	profile, err := s.tmdb.Account(ctx, created.SessionID)
	if err != nil {
		return nil, errors.Upstream(loginFailed, err)
	}

	if profile.Username != "" {
		username = profile.Username
	}
	session := domain.NewSession(username, profile.ID, created.SessionID)
	if err := s.repo.SaveSession(ctx, session); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeInternal, loginFailed, err)
	}

	accessToken, err := s.jwtManager.Issue(session.ID, session.Username, session.AccountID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeInternal, loginFailed, err)
	}

	s.eventBus.PublishAsync(ctx, events.NewEvent(events.SessionCreated, session.ID.String(), map[string]interface{}{
		"username":   session.Username,
		"account_id": session.AccountID,
	}))

	s.logger.Info("User logged in",
		interfaces.String("session_id", session.ID.String()),
		interfaces.String("username", session.Username))

	return &domain.LoginResult{Token: accessToken, Profile: profile}, nil
}

// Restore loads a stored session and refreshes its profile. A session TMDB
// no longer accepts is removed.
func (s *AuthService) Restore(ctx context.Context, sessionID uuid.UUID) (*domain.CurrentUser, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.restore(ctx, session)
}

// Current restores the most recently used session.
func (s *AuthService) Current(ctx context.Context) (*domain.CurrentUser, error) {
	session, err := s.repo.GetLatestSession(ctx)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Not logged in")
		}
		return nil, err
	}
	return s.restore(ctx, session)
}

func (s *AuthService) restore(ctx context.Context, session *domain.Session) (*domain.CurrentUser, error) {
	profile, err := s.tmdb.Account(ctx, session.TMDBSessionID)
	if err != nil {
		if tmdb.IsStatus(err, http.StatusUnauthorized) {
			if delErr := s.repo.DeleteSession(ctx, session.ID); delErr != nil && !errors.IsNotFound(delErr) {
				s.logger.Warn("Failed to delete expired session",
					interfaces.String("session_id", session.ID.String()),
					interfaces.Error(delErr))
			}
			return nil, errors.Mask(errors.ErrorTypeUnauthorized, "Session expired, please log in again", err)
		}
		return nil, errors.Upstream("Failed to load profile", err)
	}

	s.touch(ctx, session)

	return &domain.CurrentUser{
		Session:  session,
		Username: session.Username,
		Profile:  profile,
	}, nil
}

// Authenticate resolves an access token to its stored session.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.Session, error) {
	claims, err := s.jwtManager.Validate(accessToken)
	if err != nil {
		return nil, errors.Mask(errors.ErrorTypeUnauthorized, "Invalid or expired access token", err)
	}

	session, err := s.repo.GetSession(ctx, claims.SessionUUID())
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Session has ended, please log in again")
		}
		return nil, err
	}

	s.touch(ctx, session)
	return session, nil
}

// Logout revokes the TMDB session and removes the stored one. Revocation is
// best effort; the local session is removed either way.
func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.tmdb.DeleteSession(ctx, session.TMDBSessionID); err != nil {
		s.logger.Warn("Failed to revoke TMDB session",
			interfaces.String("session_id", session.ID.String()),
			interfaces.Error(err))
	}

	if err := s.repo.DeleteSession(ctx, session.ID); err != nil {
		return err
	}

	s.eventBus.PublishAsync(ctx, events.NewEvent(events.SessionEnded, session.ID.String(), map[string]interface{}{
		"username": session.Username,
	}))

	s.logger.Info("User logged out",
		interfaces.String("session_id", session.ID.String()),
		interfaces.String("username", session.Username))
	return nil
}

func (s *AuthService) touch(ctx context.Context, session *domain.Session) {
	now := s.now().UTC()
	if err := s.repo.TouchSession(ctx, session.ID, now); err != nil {
		s.logger.Warn("Failed to update session last use",
			interfaces.String("session_id", session.ID.String()),
			interfaces.Error(err))
		return
	}
	session.LastUsedAt = now
}
