package repository

import (
	"time"

	"github.com/google/uuid"
)

// SessionModel is the stored form of a session. TMDBSessionID holds the
// sealed credential, bound to the row id.
type SessionModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username      string    `gorm:"not null"`
	AccountID     int       `gorm:"not null"`
	TMDBSessionID string    `gorm:"column:tmdb_session_id;not null"`
	CreatedAt     time.Time
	LastUsedAt    time.Time `gorm:"column:last_used_at;not null"`
}

// TableName specifies the table name for SessionModel
func (SessionModel) TableName() string {
	return "sessions"
}
