package models

import "encoding/json"

// FavoriteMedia is an entry of the favorites and watchlist lists. The media
// type is not part of the payload and is inferred from title or name.
type FavoriteMedia struct {
	ID         int       `json:"id"`
	PosterPath string    `json:"poster_path"`
	Title      *string   `json:"title,omitempty"`
	Name       *string   `json:"name,omitempty"`
	MediaType  MediaType `json:"media_type"`
}

// WatchlistMedia shares the favorites shape.
type WatchlistMedia = FavoriteMedia

func (f *FavoriteMedia) UnmarshalJSON(data []byte) error {
	type alias FavoriteMedia
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = FavoriteMedia(raw)
	f.MediaType = inferMediaType(f.Title, f.Name)
	return nil
}

// DisplayName returns the title of a movie and the name of a show.
func (f FavoriteMedia) DisplayName() string {
	return displayName(f.MediaType, f.Title, f.Name)
}

// AccountStates holds the favorite and watchlist flags of one item.
type AccountStates struct {
	ID        int             `json:"id"`
	Favorite  bool            `json:"favorite"`
	Watchlist bool            `json:"watchlist"`
	Rated     json.RawMessage `json:"rated,omitempty"`
}

// StatusResponse is the body TMDB returns for writes and errors.
type StatusResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       *bool  `json:"success,omitempty"`
}

// Succeeded reports whether TMDB accepted the write. Codes 1, 12 and 13 are
// created, updated and deleted.
func (s StatusResponse) Succeeded() bool {
	if s.StatusMessage == "Success." {
		return true
	}
	switch s.StatusCode {
	case 1, 12, 13:
		return true
	}
	return false
}

// MarkFavoriteRequest is the body of account/{id}/favorite.
type MarkFavoriteRequest struct {
	MediaType MediaType `json:"media_type"`
	MediaID   int       `json:"media_id"`
	Favorite  bool      `json:"favorite"`
}

// MarkWatchlistRequest is the body of account/{id}/watchlist.
type MarkWatchlistRequest struct {
	MediaType MediaType `json:"media_type"`
	MediaID   int       `json:"media_id"`
	Watchlist bool      `json:"watchlist"`
}

// Profile is the TMDB account of a logged in user.
type Profile struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	IncludeAdult bool   `json:"include_adult"`
	Language     string `json:"iso_639_1"`
	Country      string `json:"iso_3166_1"`
	Avatar       Avatar `json:"avatar"`
}

// Avatar holds the gravatar and TMDB avatar references.
type Avatar struct {
	Gravatar struct {
		Hash string `json:"hash"`
	} `json:"gravatar"`
	TMDB struct {
		AvatarPath *string `json:"avatar_path"`
	} `json:"tmdb"`
}

// AvatarPath returns the TMDB avatar path, or "" when none is set.
func (p Profile) AvatarPath() string {
	if p.Avatar.TMDB.AvatarPath == nil {
		return ""
	}
	return *p.Avatar.TMDB.AvatarPath
}

// RequestToken is the first step of the TMDB login handshake.
type RequestToken struct {
	Success      bool   `json:"success"`
	ExpiresAt    string `json:"expires_at"`
	RequestToken string `json:"request_token"`
}

// ValidateWithLoginRequest validates a request token with user credentials.
type ValidateWithLoginRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	RequestToken string `json:"request_token"`
}

// SessionResponse carries the TMDB session id created from a validated token.
type SessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}
