package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/narwhalmedia/reelscout/pkg/models"
)

// TimeWindow is the trending window.
type TimeWindow string

const (
	TimeWindowDay  TimeWindow = "day"
	TimeWindowWeek TimeWindow = "week"
)

// TrendingType selects which trending list to fetch.
type TrendingType string

const (
	TrendingAll    TrendingType = "all"
	TrendingMovies TrendingType = "movie"
	TrendingShows  TrendingType = "tv"
)

func mediaPath(mediaType models.MediaType) (string, error) {
	switch mediaType {
	case models.MediaTypeMovie:
		return "movie", nil
	case models.MediaTypeTV:
		return "tv", nil
	default:
		return "", fmt.Errorf("unsupported media type %q", mediaType)
	}
}

// Trending returns the trending list of the given type and window.
func (c *Client) Trending(ctx context.Context, kind TrendingType, window TimeWindow) (*models.ResultsPage[models.Media], error) {
	var page models.ResultsPage[models.Media]
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "trending/{type}/{window}",
		path:     fmt.Sprintf("trending/%s/%s", kind, window),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchMulti searches movies, shows and people at once.
func (c *Client) SearchMulti(ctx context.Context, query string) (*models.ResultsPage[models.Media], error) {
	var page models.ResultsPage[models.Media]
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "search/multi",
		path:     "search/multi",
		query:    url.Values{"query": {query}},
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// MovieDetails returns the details of a movie.
func (c *Client) MovieDetails(ctx context.Context, id int) (*models.MediaDetails, error) {
	return c.details(ctx, models.MediaTypeMovie, id)
}

// ShowDetails returns the details of a show.
func (c *Client) ShowDetails(ctx context.Context, id int) (*models.MediaDetails, error) {
	return c.details(ctx, models.MediaTypeTV, id)
}

func (c *Client) details(ctx context.Context, mediaType models.MediaType, id int) (*models.MediaDetails, error) {
	p, err := mediaPath(mediaType)
	if err != nil {
		return nil, err
	}
	var d models.MediaDetails
	err = c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: p + "/{id}",
		path:     fmt.Sprintf("%s/%d", p, id),
	}, &d)
	if err != nil {
		return nil, err
	}
	// TMDB omits media_type on detail payloads; the endpoint decides it.
	d.MediaType = mediaType
	return &d, nil
}

// SimilarMovies returns movies similar to id.
func (c *Client) SimilarMovies(ctx context.Context, id int) (*models.ResultsPage[models.Media], error) {
	return c.similar(ctx, models.MediaTypeMovie, id)
}

// SimilarShows returns shows similar to id.
func (c *Client) SimilarShows(ctx context.Context, id int) (*models.ResultsPage[models.Media], error) {
	return c.similar(ctx, models.MediaTypeTV, id)
}

func (c *Client) similar(ctx context.Context, mediaType models.MediaType, id int) (*models.ResultsPage[models.Media], error) {
	p, err := mediaPath(mediaType)
	if err != nil {
		return nil, err
	}
	var page models.ResultsPage[models.Media]
	err = c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: p + "/{id}/similar",
		path:     fmt.Sprintf("%s/%d/similar", p, id),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// SeasonDetails returns one season of a show with its episodes.
func (c *Client) SeasonDetails(ctx context.Context, showID, seasonNumber int) (*models.SeasonDetails, error) {
	var season models.SeasonDetails
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "tv/{id}/season/{season}",
		path:     fmt.Sprintf("tv/%d/season/%d", showID, seasonNumber),
	}, &season)
	if err != nil {
		return nil, err
	}
	return &season, nil
}

// MovieReviews returns the first page of reviews of a movie.
func (c *Client) MovieReviews(ctx context.Context, id int) (*models.ResultsPage[models.Review], error) {
	return c.reviews(ctx, models.MediaTypeMovie, id)
}

// ShowReviews returns the first page of reviews of a show.
func (c *Client) ShowReviews(ctx context.Context, id int) (*models.ResultsPage[models.Review], error) {
	return c.reviews(ctx, models.MediaTypeTV, id)
}

func (c *Client) reviews(ctx context.Context, mediaType models.MediaType, id int) (*models.ResultsPage[models.Review], error) {
	p, err := mediaPath(mediaType)
	if err != nil {
		return nil, err
	}
	var page models.ResultsPage[models.Review]
	err = c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: p + "/{id}/reviews",
		path:     fmt.Sprintf("%s/%d/reviews", p, id),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Videos returns the trailers and clips of a movie or show.
func (c *Client) Videos(ctx context.Context, id int, mediaType models.MediaType) ([]models.Video, error) {
	p, err := mediaPath(mediaType)
	if err != nil {
		return nil, err
	}
	var resp struct {
		ID      int            `json:"id"`
		Results []models.Video `json:"results"`
	}
	err = c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: p + "/{id}/videos",
		path:     fmt.Sprintf("%s/%d/videos", p, id),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}
