package models

import "encoding/json"

// MediaType is the TMDB media_type discriminator.
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeTV     MediaType = "tv"
	MediaTypePerson MediaType = "person"
)

// ParseMediaType maps s onto a known media type. Unknown values become movie.
func ParseMediaType(s string) MediaType {
	switch MediaType(s) {
	case MediaTypeTV:
		return MediaTypeTV
	case MediaTypePerson:
		return MediaTypePerson
	default:
		return MediaTypeMovie
	}
}

// Valid reports whether t is one of the known media types.
func (t MediaType) Valid() bool {
	return t == MediaTypeMovie || t == MediaTypeTV || t == MediaTypePerson
}

// DisplayName returns the human readable label of the media type.
func (t MediaType) DisplayName() string {
	switch t {
	case MediaTypeTV:
		return "TV Show"
	case MediaTypePerson:
		return "Person"
	default:
		return "Movie"
	}
}

// UnmarshalJSON decodes unknown media types as movie.
func (t *MediaType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseMediaType(s)
	return nil
}

// inferMediaType picks movie when a title is present, tv when a name is.
func inferMediaType(title, name *string) MediaType {
	switch {
	case title != nil:
		return MediaTypeMovie
	case name != nil:
		return MediaTypeTV
	default:
		return MediaTypeMovie
	}
}

func displayName(t MediaType, title, name *string) string {
	var s *string
	if t == MediaTypeMovie {
		s = title
	} else {
		s = name
	}
	if s == nil {
		return ""
	}
	return *s
}

// Media is an entry of the trending, search and similar lists.
type Media struct {
	ID          int       `json:"id"`
	MediaType   MediaType `json:"media_type"`
	PosterPath  *string   `json:"poster_path,omitempty"`
	ProfilePath *string   `json:"profile_path,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Name        *string   `json:"name,omitempty"`
}

// UnmarshalJSON infers the media type when the payload omits it, as the
// similar endpoints do.
func (m *Media) UnmarshalJSON(data []byte) error {
	type alias Media
	var raw struct {
		alias
		MediaType *MediaType `json:"media_type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Media(raw.alias)
	if raw.MediaType != nil {
		m.MediaType = *raw.MediaType
	} else {
		m.MediaType = inferMediaType(m.Title, m.Name)
	}
	return nil
}

// ImagePath returns the profile image for people and the poster otherwise.
func (m Media) ImagePath() *string {
	if m.MediaType == MediaTypePerson {
		return m.ProfilePath
	}
	return m.PosterPath
}

// DisplayName returns the title of a movie and the name of a show or person.
func (m Media) DisplayName() string {
	return displayName(m.MediaType, m.Title, m.Name)
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Season summarises one season of a show.
type Season struct {
	ID           int `json:"id"`
	EpisodeCount int `json:"episode_count"`
	SeasonNumber int `json:"season_number"`
}

// MediaDetails is the detail payload of either a movie or a show.
type MediaDetails struct {
	ID          int       `json:"id"`
	MediaType   MediaType `json:"media_type"`
	Overview    string    `json:"overview"`
	PosterPath  string    `json:"poster_path"`
	Tagline     string    `json:"tagline"`
	Genres      []Genre   `json:"genres"`
	VoteAverage float64   `json:"vote_average"`

	// movie
	Title       *string `json:"title,omitempty"`
	ReleaseDate *string `json:"release_date,omitempty"`

	// tv
	Name             *string  `json:"name,omitempty"`
	FirstAirDate     *string  `json:"first_air_date,omitempty"`
	Seasons          []Season `json:"seasons,omitempty"`
	NumberOfEpisodes *int     `json:"number_of_episodes,omitempty"`
	NumberOfSeasons  *int     `json:"number_of_seasons,omitempty"`
}

// UnmarshalJSON infers the media type from the presence of title or name.
// TMDB never sends media_type on detail payloads.
func (d *MediaDetails) UnmarshalJSON(data []byte) error {
	type alias MediaDetails
	var raw struct {
		alias
		MediaType *MediaType `json:"media_type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = MediaDetails(raw.alias)
	if raw.MediaType != nil {
		d.MediaType = *raw.MediaType
	} else {
		d.MediaType = inferMediaType(d.Title, d.Name)
	}
	return nil
}

// DisplayName returns the title of a movie and the name of a show.
func (d MediaDetails) DisplayName() string {
	return displayName(d.MediaType, d.Title, d.Name)
}

// DateString returns the release date of a movie or the first air date of a
// show.
func (d MediaDetails) DateString() string {
	var s *string
	switch d.MediaType {
	case MediaTypeMovie:
		s = d.ReleaseDate
	case MediaTypeTV:
		s = d.FirstAirDate
	}
	if s == nil {
		return ""
	}
	return *s
}

// SeasonDetails lists the episodes of a season.
type SeasonDetails struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Overview     string    `json:"overview"`
	SeasonNumber int       `json:"season_number"`
	AirDate      string    `json:"air_date"`
	Episodes     []Episode `json:"episodes"`
}

// Episode is a single episode of a season.
type Episode struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	EpisodeNumber int     `json:"episode_number"`
	SeasonNumber  int     `json:"season_number"`
	AirDate       string  `json:"air_date"`
	StillPath     *string `json:"still_path,omitempty"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Runtime       *int    `json:"runtime,omitempty"`
}

// Review is a user review of a movie or show.
type Review struct {
	ID            string        `json:"id"`
	Author        string        `json:"author"`
	Content       string        `json:"content"`
	CreatedAt     string        `json:"created_at"`
	URL           string        `json:"url"`
	AuthorDetails AuthorDetails `json:"author_details"`
}

// AuthorDetails describes the author of a review.
type AuthorDetails struct {
	Name       string   `json:"name"`
	Username   string   `json:"username"`
	AvatarPath *string  `json:"avatar_path,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
}

// Video is a trailer, teaser or clip hosted on YouTube or Vimeo.
type Video struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Size        int    `json:"size"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	Language    string `json:"iso_639_1"`
	Country     string `json:"iso_3166_1"`
	PublishedAt string `json:"published_at"`
}

// ResultsPage is TMDB's paginated list envelope.
type ResultsPage[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// Candidate is one guess returned by the companion AI search.
type Candidate struct {
	Title      *string  `json:"title,omitempty"`
	Type       *string  `json:"type,omitempty"`
	Year       *string  `json:"year,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Rationale  *string  `json:"rationale,omitempty"`
}

// AiSearchResponse is the companion AI search payload.
type AiSearchResponse struct {
	QuerySummary *string     `json:"query_summary,omitempty"`
	Candidates   []Candidate `json:"candidates,omitempty"`
}
