package tmdb

import (
	"context"
	"fmt"
	"net/http"

	"github.com/narwhalmedia/reelscout/pkg/models"
)

// MovieAccountStates returns whether the session's account has favorited or
// watchlisted a movie.
func (c *Client) MovieAccountStates(ctx context.Context, id int, sessionID string) (*models.AccountStates, error) {
	return c.accountStates(ctx, models.MediaTypeMovie, id, sessionID)
}

// ShowAccountStates is MovieAccountStates for shows.
func (c *Client) ShowAccountStates(ctx context.Context, id int, sessionID string) (*models.AccountStates, error) {
	return c.accountStates(ctx, models.MediaTypeTV, id, sessionID)
}

func (c *Client) accountStates(ctx context.Context, mediaType models.MediaType, id int, sessionID string) (*models.AccountStates, error) {
	p, err := mediaPath(mediaType)
	if err != nil {
		return nil, err
	}
	var states models.AccountStates
	err = c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: p + "/{id}/account_states",
		path:     fmt.Sprintf("%s/%d/account_states", p, id),
		query:    sessionQuery(sessionID),
	}, &states)
	if err != nil {
		return nil, err
	}
	return &states, nil
}

// MarkFavorite adds an item to, or removes it from, the account favorites.
func (c *Client) MarkFavorite(ctx context.Context, accountID int, sessionID string, mediaType models.MediaType, mediaID int, favorite bool) (*models.StatusResponse, error) {
	return c.mark(ctx, accountID, sessionID, "favorite", models.MarkFavoriteRequest{
		MediaType: mediaType,
		MediaID:   mediaID,
		Favorite:  favorite,
	})
}

// MarkWatchlist adds an item to, or removes it from, the account watchlist.
func (c *Client) MarkWatchlist(ctx context.Context, accountID int, sessionID string, mediaType models.MediaType, mediaID int, watchlist bool) (*models.StatusResponse, error) {
	return c.mark(ctx, accountID, sessionID, "watchlist", models.MarkWatchlistRequest{
		MediaType: mediaType,
		MediaID:   mediaID,
		Watchlist: watchlist,
	})
}

func (c *Client) mark(ctx context.Context, accountID int, sessionID, list string, body interface{}) (*models.StatusResponse, error) {
	var status models.StatusResponse
	err := c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "account/{id}/" + list,
		path:     fmt.Sprintf("account/%d/%s", accountID, list),
		query:    sessionQuery(sessionID),
		body:     body,
	}, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// FavoriteMovies lists the account's favorite movies, oldest first.
func (c *Client) FavoriteMovies(ctx context.Context, accountID int, sessionID string) (*models.ResultsPage[models.FavoriteMedia], error) {
	return c.accountList(ctx, accountID, sessionID, "favorite", "movies")
}

// FavoriteShows lists the account's favorite shows, oldest first.
func (c *Client) FavoriteShows(ctx context.Context, accountID int, sessionID string) (*models.ResultsPage[models.FavoriteMedia], error) {
	return c.accountList(ctx, accountID, sessionID, "favorite", "tv")
}

// WatchlistMovies lists the account's watchlisted movies, oldest first.
func (c *Client) WatchlistMovies(ctx context.Context, accountID int, sessionID string) (*models.ResultsPage[models.WatchlistMedia], error) {
	return c.accountList(ctx, accountID, sessionID, "watchlist", "movies")
}

// WatchlistShows lists the account's watchlisted shows, oldest first.
func (c *Client) WatchlistShows(ctx context.Context, accountID int, sessionID string) (*models.ResultsPage[models.WatchlistMedia], error) {
	return c.accountList(ctx, accountID, sessionID, "watchlist", "tv")
}

func (c *Client) accountList(ctx context.Context, accountID int, sessionID, list, kind string) (*models.ResultsPage[models.FavoriteMedia], error) {
	q := sessionQuery(sessionID)
	q.Set("page", "1")
	q.Set("sort_by", "created_at.asc")

	var page models.ResultsPage[models.FavoriteMedia]
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: fmt.Sprintf("account/{id}/%s/%s", list, kind),
		path:     fmt.Sprintf("account/%d/%s/%s", accountID, list, kind),
		query:    q,
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}
