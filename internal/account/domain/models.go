package domain

import (
	"github.com/narwhalmedia/reelscout/pkg/errors"
	"github.com/narwhalmedia/reelscout/pkg/models"
)

// MediaState is the signed in account's relation to one title.
type MediaState struct {
	ID        int              `json:"id"`
	MediaType models.MediaType `json:"media_type"`
	Favorite  bool             `json:"favorite"`
	Watchlist bool             `json:"watchlist"`
}

// FavoriteResult reports whether a title was added to favorites. Message
// carries TMDB's status message when it was not.
type FavoriteResult struct {
	Added   bool   `json:"added"`
	Message string `json:"message,omitempty"`
}

// ValidateListMediaType accepts the media types TMDB keeps account lists for.
func ValidateListMediaType(t models.MediaType) error {
	if t != models.MediaTypeMovie && t != models.MediaTypeTV {
		return errors.BadRequest("media type must be movie or tv, got " + string(t))
	}
	return nil
}
