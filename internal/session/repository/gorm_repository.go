package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/narwhalmedia/reelscout/internal/session/domain"
	"github.com/narwhalmedia/reelscout/pkg/encryption"
	"github.com/narwhalmedia/reelscout/pkg/errors"
	pkgrepo "github.com/narwhalmedia/reelscout/pkg/repository"
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db        *gorm.DB
	encryptor *encryption.Encryptor
}

// NewGormRepository creates a new GORM repository. TMDB session ids are
// sealed with encryptor before they are written.
func NewGormRepository(db *gorm.DB, encryptor *encryption.Encryptor) Repository {
	return &GormRepository{db: db, encryptor: encryptor}
}

func (r *GormRepository) SaveSession(ctx context.Context, session *domain.Session) error {
	model, err := r.toModel(session)
	if err != nil {
		return err
	}
	return pkgrepo.Save(ctx, r.db, model)
}

func (r *GormRepository) GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	model, err := pkgrepo.FindByID[SessionModel](ctx, r.db, id, "session not found")
	if err != nil {
		return nil, wrapQuery("get session", err)
	}
	return r.toDomain(model)
}

func (r *GormRepository) GetLatestSession(ctx context.Context) (*domain.Session, error) {
	model, err := pkgrepo.FindFirst[SessionModel](ctx, r.db, "last_used_at DESC", "no saved session")
	if err != nil {
		return nil, wrapQuery("get latest session", err)
	}
	return r.toDomain(model)
}

func (r *GormRepository) TouchSession(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := pkgrepo.UpdateColumn[SessionModel](ctx, r.db, id, "last_used_at", at.UTC(), "session not found")
	return wrapQuery("touch session", err)
}

func (r *GormRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	err := pkgrepo.Delete[SessionModel](ctx, r.db, id, "session not found")
	return wrapQuery("delete session", err)
}

// wrapQuery passes not found errors through untouched.
func wrapQuery(op string, err error) error {
	if err == nil || errors.IsNotFound(err) {
		return err
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func (r *GormRepository) toModel(s *domain.Session) (*SessionModel, error) {
	sealed, err := r.encryptor.Seal(s.TMDBSessionID, s.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt tmdb session: %w", err)
	}
	return &SessionModel{
		ID:            s.ID,
		Username:      s.Username,
		AccountID:     s.AccountID,
		TMDBSessionID: sealed,
		CreatedAt:     s.CreatedAt,
		LastUsedAt:    s.LastUsedAt,
	}, nil
}

func (r *GormRepository) toDomain(m *SessionModel) (*domain.Session, error) {
	tmdbSession, err := r.encryptor.Open(m.TMDBSessionID, m.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt tmdb session: %w", err)
	}
	return &domain.Session{
		ID:            m.ID,
		Username:      m.Username,
		AccountID:     m.AccountID,
		TMDBSessionID: tmdbSession,
		CreatedAt:     m.CreatedAt,
		LastUsedAt:    m.LastUsedAt,
	}, nil
}
