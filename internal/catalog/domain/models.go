package domain

import (
	"github.com/narwhalmedia/reelscout/pkg/models"
)

// Tab is a trending list selector.
type Tab string

const (
	TabAll    Tab = "all"
	TabMovies Tab = "movie"
	TabShows  Tab = "tv"
)

// ParseTab validates a trending tab name.
func ParseTab(s string) (Tab, bool) {
	switch Tab(s) {
	case TabAll, TabMovies, TabShows:
		return Tab(s), true
	}
	return "", false
}

// TrendingFeed is one trending list with the movie and show subsets split
// out and the first entry featured.
type TrendingFeed struct {
	Tab        Tab            `json:"tab"`
	Results    []models.Media `json:"results"`
	Movies     []models.Media `json:"movies"`
	TVShows    []models.Media `json:"tv_shows"`
	Featured   *models.Media  `json:"featured"`
	HasContent bool           `json:"has_content"`
}

// NewTrendingFeed splits results by media type. Nil results become empty.
func NewTrendingFeed(tab Tab, results []models.Media) *TrendingFeed {
	feed := &TrendingFeed{
		Tab:     tab,
		Results: make([]models.Media, 0, len(results)),
		Movies:  []models.Media{},
		TVShows: []models.Media{},
	}
	for _, m := range results {
		feed.Results = append(feed.Results, m)
		switch m.MediaType {
		case models.MediaTypeMovie:
			feed.Movies = append(feed.Movies, m)
		case models.MediaTypeTV:
			feed.TVShows = append(feed.TVShows, m)
		}
	}
	if len(feed.Results) > 0 {
		featured := feed.Results[0]
		feed.Featured = &featured
	}
	feed.HasContent = len(feed.Results) > 0
	return feed
}

// SearchResult is the outcome of a multi search. An empty query yields an
// empty result without contacting TMDB.
type SearchResult struct {
	Query   string         `json:"query"`
	Results []models.Media `json:"results"`
}
