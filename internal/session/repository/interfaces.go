package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/reelscout/internal/session/domain"
)

// Repository persists logged in sessions.
type Repository interface {
	SaveSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	// GetLatestSession returns the most recently used session.
	GetLatestSession(ctx context.Context) (*domain.Session, error)
	TouchSession(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
}
