package service

import (
	"context"
	"strconv"

	"github.com/narwhalmedia/reelscout/internal/account/domain"
	sessiondomain "github.com/narwhalmedia/reelscout/internal/session/domain"
	"github.com/narwhalmedia/reelscout/pkg/errors"
	"github.com/narwhalmedia/reelscout/pkg/events"
	"github.com/narwhalmedia/reelscout/pkg/interfaces"
	"github.com/narwhalmedia/reelscout/pkg/models"
)

// AccountService reads and edits the favorites and watchlist of the
// session's TMDB account.
type AccountService struct {
	provider Provider
	eventBus interfaces.EventBus
	logger   interfaces.Logger
}

// NewAccountService creates a new account service
func NewAccountService(provider Provider, eventBus interfaces.EventBus, logger interfaces.Logger) *AccountService {
	return &AccountService{
		provider: provider,
		eventBus: eventBus,
		logger:   logger,
	}
}

// MediaState returns whether a title is a favorite and on the watchlist.
// Failures hide the TMDB cause from the caller.
func (s *AccountService) MediaState(ctx context.Context, session *sessiondomain.Session, id int, mediaType models.MediaType) (*domain.MediaState, error) {
	if id <= 0 {
		return nil, errors.BadRequest("media_id is required")
	}

	var (
		states *models.AccountStates
		err    error
	)
	switch mediaType {
	case models.MediaTypeMovie:
		states, err = s.provider.MovieAccountStates(ctx, id, session.TMDBSessionID)
		if err != nil {
			return nil, errors.Mask(errors.ErrorTypeUpstream, "Failed to retrieve movie state.", err)
		}
	case models.MediaTypeTV:
		states, err = s.provider.ShowAccountStates(ctx, id, session.TMDBSessionID)
		if err != nil {
			return nil, errors.Mask(errors.ErrorTypeUpstream, "Failed to retrieve show state.", err)
		}
	default:
		return nil, domain.ValidateListMediaType(mediaType)
	}

	return &domain.MediaState{
		ID:        id,
		MediaType: mediaType,
		Favorite:  states.Favorite,
		Watchlist: states.Watchlist,
	}, nil
}

// MarkFavorite adds a title to, or removes it from, the account favorites.
func (s *AccountService) MarkFavorite(ctx context.Context, session *sessiondomain.Session, mediaType models.MediaType, id int, favorite bool) (*models.StatusResponse, error) {
	if err := domain.ValidateListMediaType(mediaType); err != nil {
		return nil, err
	}
	resp, err := s.markFavorite(ctx, session, mediaType, id, favorite)
	if err != nil {
		return nil, errors.Upstream("Failed to add to favorites", err)
	}
	return resp, nil
}

// AddToFavorites marks a title as favorite and reports whether TMDB took it.
func (s *AccountService) AddToFavorites(ctx context.Context, session *sessiondomain.Session, mediaType models.MediaType, id int) (*domain.FavoriteResult, error) {
	if err := domain.ValidateListMediaType(mediaType); err != nil {
		return nil, err
	}
	resp, err := s.markFavorite(ctx, session, mediaType, id, true)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeUpstream, "", err)
	}
	if resp.Succeeded() {
		return &domain.FavoriteResult{Added: true}, nil
	}
	return &domain.FavoriteResult{Message: resp.StatusMessage}, nil
}

func (s *AccountService) markFavorite(ctx context.Context, session *sessiondomain.Session, mediaType models.MediaType, id int, favorite bool) (*models.StatusResponse, error) {
	resp, err := s.provider.MarkFavorite(ctx, session.AccountID, session.TMDBSessionID, mediaType, id, favorite)
	if err != nil {
		return nil, err
	}
	if resp.Succeeded() {
		s.publish(ctx, events.AccountFavoriteMarked, session, map[string]interface{}{
			"media_type": string(mediaType),
			"media_id":   id,
			"favorite":   favorite,
		})
	}
	return resp, nil
}

// MarkWatchlist adds a title to, or removes it from, the account watchlist.
func (s *AccountService) MarkWatchlist(ctx context.Context, session *sessiondomain.Session, mediaType models.MediaType, id int, watchlist bool) (*models.StatusResponse, error) {
	if err := domain.ValidateListMediaType(mediaType); err != nil {
		return nil, err
	}
	resp, err := s.provider.MarkWatchlist(ctx, session.AccountID, session.TMDBSessionID, mediaType, id, watchlist)
	if err != nil {
		return nil, errors.Upstream("Failed to add to watchlist", err)
	}
	if resp.Succeeded() {
		s.publish(ctx, events.AccountWatchlistMarked, session, map[string]interface{}{
			"media_type": string(mediaType),
			"media_id":   id,
			"watchlist":  watchlist,
		})
	}
	return resp, nil
}

// FavoriteMovies lists the account's favorite movies.
func (s *AccountService) FavoriteMovies(ctx context.Context, session *sessiondomain.Session) ([]models.FavoriteMedia, error) {
	page, err := s.provider.FavoriteMovies(ctx, session.AccountID, session.TMDBSessionID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeUpstream, "", err)
	}
	return results(page), nil
}

// FavoriteShows lists the account's favorite shows.
func (s *AccountService) FavoriteShows(ctx context.Context, session *sessiondomain.Session) ([]models.FavoriteMedia, error) {
	page, err := s.provider.FavoriteShows(ctx, session.AccountID, session.TMDBSessionID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeUpstream, "", err)
	}
	return results(page), nil
}

// WatchlistMovies lists the movies on the account's watchlist.
func (s *AccountService) WatchlistMovies(ctx context.Context, session *sessiondomain.Session) ([]models.WatchlistMedia, error) {
	page, err := s.provider.WatchlistMovies(ctx, session.AccountID, session.TMDBSessionID)
	if err != nil {
		return nil, errors.Upstream("Couldn't retrieve watchlisted movies", err)
	}
	return results(page), nil
}

// WatchlistShows lists the shows on the account's watchlist.
func (s *AccountService) WatchlistShows(ctx context.Context, session *sessiondomain.Session) ([]models.WatchlistMedia, error) {
	page, err := s.provider.WatchlistShows(ctx, session.AccountID, session.TMDBSessionID)
	if err != nil {
		return nil, errors.Upstream("Couldn't retrieve watchlisted shows", err)
	}
	return results(page), nil
}

func (s *AccountService) publish(ctx context.Context, eventType string, session *sessiondomain.Session, data map[string]interface{}) {
	data["username"] = session.Username
	s.eventBus.PublishAsync(ctx, events.NewEvent(eventType, strconv.Itoa(session.AccountID), data))
	s.logger.Debug("Account list updated",
		interfaces.String("event_type", eventType),
		interfaces.Int("account_id", session.AccountID))
}

// results never returns nil so lists encode as [].
func results(page *models.ResultsPage[models.FavoriteMedia]) []models.FavoriteMedia {
	if page == nil || page.Results == nil {
		return []models.FavoriteMedia{}
	}
	return page.Results
}
