package service

import (
	"context"

	"github.com/narwhalmedia/reelscout/internal/account/domain"
	sessiondomain "github.com/narwhalmedia/reelscout/internal/session/domain"
	"github.com/narwhalmedia/reelscout/internal/tmdb"
	"github.com/narwhalmedia/reelscout/pkg/models"
)

// Provider is the TMDB account API.
type Provider interface {
	MovieAccountStates(ctx context.Context, id int, sessionID string) (*models.AccountStates, error)
	ShowAccountStates(ctx context.Context, id int, sessionID string) (*models.AccountStates, error)
	MarkFavorite(ctx context.Context, accountID int, sessionID string, mediaType models.MediaType, mediaID int, favorite bool) (*models.StatusResponse, error)
	MarkWatchlist(ctx context.Context, accountID int, sessionID string, mediaType models.MediaType, mediaID int, watchlist bool) (*models.StatusResponse, error)
	FavoriteMovies(ctx context.Context, accountID int, sessionID string) (*models.ResultsPage[models.FavoriteMedia], error)
	FavoriteShows(ctx context.Context, accountID int, sessionID string) (*models.ResultsPage[models.FavoriteMedia], error)
	WatchlistMovies(ctx context.Context, accountID int, sessionID string) (*models.ResultsPage[models.WatchlistMedia], error)
	WatchlistShows(ctx context.Context, accountID int, sessionID string) (*models.ResultsPage[models.WatchlistMedia], error)
}

// AccountServiceInterface defines the favorites and watchlist operations of
// a signed in session.
type AccountServiceInterface interface {
	MediaState(ctx context.Context, session *sessiondomain.Session, id int, mediaType models.MediaType) (*domain.MediaState, error)
	MarkFavorite(ctx context.Context, session *sessiondomain.Session, mediaType models.MediaType, id int, favorite bool) (*models.StatusResponse, error)
	MarkWatchlist(ctx context.Context, session *sessiondomain.Session, mediaType models.MediaType, id int, watchlist bool) (*models.StatusResponse, error)
	AddToFavorites(ctx context.Context, session *sessiondomain.Session, mediaType models.MediaType, id int) (*domain.FavoriteResult, error)
	FavoriteMovies(ctx context.Context, session *sessiondomain.Session) ([]models.FavoriteMedia, error)
	FavoriteShows(ctx context.Context, session *sessiondomain.Session) ([]models.FavoriteMedia, error)
	WatchlistMovies(ctx context.Context, session *sessiondomain.Session) ([]models.WatchlistMedia, error)
	WatchlistShows(ctx context.Context, session *sessiondomain.Session) ([]models.WatchlistMedia, error)
}

var (
	_ AccountServiceInterface = (*AccountService)(nil)
	_ Provider                = (*tmdb.Client)(nil)
)
