package service

import (
	"context"

	"github.com/narwhalmedia/reelscout/internal/catalog/domain"
	"github.com/narwhalmedia/reelscout/internal/tmdb"
	"github.com/narwhalmedia/reelscout/pkg/models"
)

// Provider is the part of the TMDB client the catalog needs.
type Provider interface {
	Trending(ctx context.Context, kind tmdb.TrendingType, window tmdb.TimeWindow) (*models.ResultsPage[models.Media], error)
	SearchMulti(ctx context.Context, query string) (*models.ResultsPage[models.Media], error)
	MovieDetails(ctx context.Context, id int) (*models.MediaDetails, error)
	ShowDetails(ctx context.Context, id int) (*models.MediaDetails, error)
	SimilarMovies(ctx context.Context, id int) (*models.ResultsPage[models.Media], error)
	SimilarShows(ctx context.Context, id int) (*models.ResultsPage[models.Media], error)
	SeasonDetails(ctx context.Context, showID, seasonNumber int) (*models.SeasonDetails, error)
	MovieReviews(ctx context.Context, id int) (*models.ResultsPage[models.Review], error)
	ShowReviews(ctx context.Context, id int) (*models.ResultsPage[models.Review], error)
	Videos(ctx context.Context, id int, mediaType models.MediaType) ([]models.Video, error)
}

// AISearcher turns a description into candidate titles.
type AISearcher interface {
	Search(ctx context.Context, description string) (*models.AiSearchResponse, error)
}

// CatalogServiceInterface defines the catalog operations exposed to the
// HTTP handlers and the CLI.
type CatalogServiceInterface interface {
	Trending(ctx context.Context, tab domain.Tab) (*domain.TrendingFeed, error)
	Search(ctx context.Context, query string) (*domain.SearchResult, error)
	AISearch(ctx context.Context, description string) (*models.AiSearchResponse, error)
	MovieDetails(ctx context.Context, id int) (*models.MediaDetails, error)
	ShowDetails(ctx context.Context, id int) (*models.MediaDetails, error)
	SimilarMovies(ctx context.Context, id int) ([]models.Media, error)
	SimilarShows(ctx context.Context, id int) ([]models.Media, error)
	SeasonEpisodes(ctx context.Context, showID, seasonNumber int) ([]models.Episode, error)
	MovieReviews(ctx context.Context, id int) ([]models.Review, error)
	ShowReviews(ctx context.Context, id int) ([]models.Review, error)
	Videos(ctx context.Context, id int, mediaType models.MediaType) ([]models.Video, error)
}

var (
	_ CatalogServiceInterface = (*CatalogService)(nil)
	_ Provider                = (*tmdb.Client)(nil)
)
