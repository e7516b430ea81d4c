package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/narwhalmedia/reelscout/internal/catalog/domain"
	"github.com/narwhalmedia/reelscout/internal/tmdb"
	"github.com/narwhalmedia/reelscout/pkg/errors"
	"github.com/narwhalmedia/reelscout/pkg/interfaces"
	"github.com/narwhalmedia/reelscout/pkg/metrics"
	"github.com/narwhalmedia/reelscout/pkg/models"
)

// Options tunes caching and the trending window.
type Options struct {
	TrendingWindow tmdb.TimeWindow
	// A zero TTL disables caching of that kind.
	TrendingTTL time.Duration
	DetailsTTL  time.Duration
}

// CatalogService serves trending lists, search and title details.
type CatalogService struct {
	provider Provider
	ai       AISearcher
	cache    interfaces.Cache
	logger   interfaces.Logger
	opts     Options
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	provider Provider,
	ai AISearcher,
	cache interfaces.Cache,
	logger interfaces.Logger,
	opts Options,
) *CatalogService {
	if opts.TrendingWindow == "" {
		opts.TrendingWindow = tmdb.TimeWindowDay
	}
	return &CatalogService{
		provider: provider,
		ai:       ai,
		cache:    cache,
		logger:   logger,
		opts:     opts,
	}
}

// Trending returns the trending feed of tab.
func (s *CatalogService) Trending(ctx context.Context, tab domain.Tab) (*domain.TrendingFeed, error) {
	if _, ok := domain.ParseTab(string(tab)); !ok {
		return nil, errors.BadRequest(fmt.Sprintf("unknown trending tab %q", tab))
	}

	key := fmt.Sprintf("trending:%s:%s", tab, s.opts.TrendingWindow)
	page, err := cached(ctx, s, "trending", key, s.opts.TrendingTTL, func() (*models.ResultsPage[models.Media], error) {
		return s.provider.Trending(ctx, tmdb.TrendingType(tab), s.opts.TrendingWindow)
	})
	if err != nil {
		return nil, errors.Upstream("Failed to fetch trending "+string(tab), err)
	}

	return domain.NewTrendingFeed(tab, page.Results), nil
}

// Search runs a multi search. A blank query returns no results without
// calling TMDB.
func (s *CatalogService) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	result := &domain.SearchResult{Query: query, Results: []models.Media{}}
	if query == "" {
		return result, nil
	}

	page, err := s.provider.SearchMulti(ctx, query)
	if err != nil {
		return nil, errors.Upstream("Failed to make search", err)
	}
	if page.Results != nil {
		result.Results = page.Results
	}
	return result, nil
}

// AISearch asks the companion for titles matching description. A blank
// description returns nil without a request.
func (s *CatalogService) AISearch(ctx context.Context, description string) (*models.AiSearchResponse, error) {
	if strings.TrimSpace(description) == "" {
		return nil, nil
	}

	resp, err := s.ai.Search(ctx, description)
	if err != nil {
		return nil, errors.Upstream("Failed to make search", err)
	}
	return resp, nil
}

// MovieDetails returns the details of a movie.
func (s *CatalogService) MovieDetails(ctx context.Context, id int) (*models.MediaDetails, error) {
	if id <= 0 {
		return nil, errors.BadRequest("invalid movie id")
	}
	d, err := cached(ctx, s, "details", fmt.Sprintf("movie:%d", id), s.opts.DetailsTTL, func() (*models.MediaDetails, error) {
		return s.provider.MovieDetails(ctx, id)
	})
	if err != nil {
		return nil, errors.Upstream("Failed to fetch movie details", err)
	}
	return d, nil
}

// ShowDetails returns the details of a show.
func (s *CatalogService) ShowDetails(ctx context.Context, id int) (*models.MediaDetails, error) {
	if id <= 0 {
		return nil, errors.BadRequest("invalid show id")
	}
	d, err := cached(ctx, s, "details", fmt.Sprintf("tv:%d", id), s.opts.DetailsTTL, func() (*models.MediaDetails, error) {
		return s.provider.ShowDetails(ctx, id)
	})
	if err != nil {
		return nil, errors.Upstream("Failed to fetch show details", err)
	}
	return d, nil
}

// SimilarMovies returns movies TMDB considers similar to id.
func (s *CatalogService) SimilarMovies(ctx context.Context, id int) ([]models.Media, error) {
	if id <= 0 {
		return nil, errors.BadRequest("invalid movie id")
	}
	page, err := s.provider.SimilarMovies(ctx, id)
	if err != nil {
		return nil, errors.Upstream("Failed to fetch similar movies", err)
	}
	return nonNil(page.Results), nil
}

// SimilarShows returns shows TMDB considers similar to id.
func (s *CatalogService) SimilarShows(ctx context.Context, id int) ([]models.Media, error) {
	if id <= 0 {
		return nil, errors.BadRequest("invalid show id")
	}
	page, err := s.provider.SimilarShows(ctx, id)
	if err != nil {
		return nil, errors.Upstream("Failed to fetch similar shows", err)
	}
	return nonNil(page.Results), nil
}

// SeasonEpisodes returns the episodes of one season of a show.
func (s *CatalogService) SeasonEpisodes(ctx context.Context, showID, seasonNumber int) ([]models.Episode, error) {
	if showID <= 0 || seasonNumber < 0 {
		return nil, errors.BadRequest("invalid show id or season number")
	}
	season, err := s.provider.SeasonDetails(ctx, showID, seasonNumber)
	if err != nil {
		return nil, errors.Upstream("Failed to fetch season episodes", err)
	}
	return nonNil(season.Episodes), nil
}

// MovieReviews returns the reviews of a movie, newest first.
func (s *CatalogService) MovieReviews(ctx context.Context, id int) ([]models.Review, error) {
	if id <= 0 {
		return nil, errors.BadRequest("invalid movie id")
	}
	page, err := s.provider.MovieReviews(ctx, id)
	if err != nil {
		return nil, errors.Upstream("Failed to load movie reviews", err)
	}
	return reversed(page.Results), nil
}

// ShowReviews returns the reviews of a show, newest first.
func (s *CatalogService) ShowReviews(ctx context.Context, id int) ([]models.Review, error) {
	if id <= 0 {
		return nil, errors.BadRequest("invalid show id")
	}
	page, err := s.provider.ShowReviews(ctx, id)
	if err != nil {
		return nil, errors.Upstream("Failed to load show reviews", err)
	}
	return reversed(page.Results), nil
}

// Videos returns trailers and clips of a movie or show.
func (s *CatalogService) Videos(ctx context.Context, id int, mediaType models.MediaType) ([]models.Video, error) {
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTV {
		return nil, errors.BadRequest("videos are only available for movies and shows")
	}
	if id <= 0 {
		return nil, errors.BadRequest("invalid media id")
	}
	videos, err := s.provider.Videos(ctx, id, mediaType)
	if err != nil {
		return nil, errors.Upstream("Failed to load videos", err)
	}
	return nonNil(videos), nil
}

// cached serves key from the cache or stores the result of fetch under it.
// Cache failures are logged and never fail the call.
func cached[T any](ctx context.Context, s *CatalogService, kind, key string, ttl time.Duration, fetch func() (*T, error)) (*T, error) {
	if ttl <= 0 || s.cache == nil {
		return fetch()
	}

	data, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			metrics.CacheLookups.WithLabelValues(kind, "hit").Inc()
			return &v, nil
		}
		s.logger.Warn("Dropping undecodable cache entry", interfaces.String("key", key))
	case !stderrors.Is(err, interfaces.ErrCacheMiss):
		s.logger.Warn("Cache lookup failed", interfaces.String("key", key), interfaces.Error(err))
	}
	metrics.CacheLookups.WithLabelValues(kind, "miss").Inc()

	v, err := fetch()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(v); err != nil {
		s.logger.Warn("Failed to encode cache entry", interfaces.String("key", key), interfaces.Error(err))
	} else if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.logger.Warn("Cache store failed", interfaces.String("key", key), interfaces.Error(err))
	}
	return v, nil
}

func reversed[T any](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
