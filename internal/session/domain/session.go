package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/reelscout/pkg/auth"
	"github.com/narwhalmedia/reelscout/pkg/models"
)

// Session is a logged in TMDB account. TMDBSessionID is the credential
// used for every account call and never leaves the server.
type Session struct {
	ID            uuid.UUID
	Username      string
	AccountID     int
	TMDBSessionID string
	CreatedAt     time.Time
	LastUsedAt    time.Time
}

// NewSession creates a session for a freshly validated TMDB login.
func NewSession(username string, accountID int, tmdbSessionID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:            uuid.New(),
		Username:      username,
		AccountID:     accountID,
		TMDBSessionID: tmdbSessionID,
		CreatedAt:     now,
		LastUsedAt:    now,
	}
}

// LoginResult is returned to a client after a successful login.
type LoginResult struct {
	*auth.Token
	Profile *models.Profile `json:"profile"`
}

// CurrentUser is a restored session together with the account profile.
type CurrentUser struct {
	Session  *Session        `json:"-"`
	Username string          `json:"username"`
	Profile  *models.Profile `json:"profile"`
}
