package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/reelscout/internal/session/domain"
	"github.com/narwhalmedia/reelscout/pkg/models"
)

// CreateTestSession creates a session for username with a TMDB session id
// derived from it.
func CreateTestSession(username string, accountID int) *domain.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Session{
		ID:            uuid.New(),
		Username:      username,
		AccountID:     accountID,
		TMDBSessionID: "tmdb-session-" + username,
		CreatedAt:     now,
		LastUsedAt:    now,
	}
}

// CreateTestProfile creates the account profile TMDB returns for username.
func CreateTestProfile(username string, accountID int) *models.Profile {
	return &models.Profile{
		ID:       accountID,
		Username: username,
		Name:     username,
		Language: "en",
		Country:  "US",
	}
}

// CreateTestMovie creates a movie search result.
func CreateTestMovie(id int, title string) models.Media {
	return models.Media{ID: id, MediaType: models.MediaTypeMovie, Title: &title}
}

// CreateTestShow creates a tv search result.
func CreateTestShow(id int, name string) models.Media {
	return models.Media{ID: id, MediaType: models.MediaTypeTV, Name: &name}
}

// CreateTestFavorite creates a favorited movie.
func CreateTestFavorite(id int, title string) models.FavoriteMedia {
	return models.FavoriteMedia{ID: id, MediaType: models.MediaTypeMovie, Title: &title}
}
