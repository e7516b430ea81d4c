package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/narwhalmedia/reelscout/internal/account/service"
	sessiondomain "github.com/narwhalmedia/reelscout/internal/session/domain"
	"github.com/narwhalmedia/reelscout/pkg/errors"
	"github.com/narwhalmedia/reelscout/pkg/models"
	"github.com/narwhalmedia/reelscout/pkg/utils"
)

// HTTPHandler exposes the account lists of the signed in session. Its
// routes expect the session middleware to have run.
type HTTPHandler struct {
	service service.AccountServiceInterface
}

// NewHTTPHandler creates a new account handler
func NewHTTPHandler(svc service.AccountServiceInterface) *HTTPHandler {
	return &HTTPHandler{service: svc}
}

// Routes mounts the account routes on r.
func (h *HTTPHandler) Routes(r chi.Router) {
	r.Get("/movies/{id}/state", h.mediaState(models.MediaTypeMovie))
	r.Get("/tv/{id}/state", h.mediaState(models.MediaTypeTV))

	r.Route("/account", func(r chi.Router) {
		r.Post("/favorites", h.AddToFavorites)
		r.Put("/favorites", h.MarkFavorite)
		r.Put("/watchlist", h.MarkWatchlist)
		r.Get("/favorites/movies", h.FavoriteMovies)
		r.Get("/favorites/tv", h.FavoriteShows)
		r.Get("/watchlist/movies", h.WatchlistMovies)
		r.Get("/watchlist/tv", h.WatchlistShows)
	})
}

type markRequest struct {
	MediaType string `json:"media_type"`
	MediaID   int    `json:"media_id"`
	Favorite  *bool  `json:"favorite,omitempty"`
	Watchlist *bool  `json:"watchlist,omitempty"`
}

func (h *HTTPHandler) mediaState(mediaType models.MediaType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}
		id, err := utils.IntParam(r, "id")
		if err != nil {
			utils.ErrorResponse(w, r, err)
			return
		}
		state, err := h.service.MediaState(r.Context(), session, id, mediaType)
		respond(w, r, state, err)
	}
}

func (h *HTTPHandler) AddToFavorites(w http.ResponseWriter, r *http.Request) {
	session, req, ok := decodeMark(w, r)
	if !ok {
		return
	}
	result, err := h.service.AddToFavorites(r.Context(), session, models.MediaType(req.MediaType), req.MediaID)
	respond(w, r, result, err)
}

func (h *HTTPHandler) MarkFavorite(w http.ResponseWriter, r *http.Request) {
	session, req, ok := decodeMark(w, r)
	if !ok {
		return
	}
	if req.Favorite == nil {
		utils.ErrorResponse(w, r, errors.BadRequest("favorite is required"))
		return
	}
	resp, err := h.service.MarkFavorite(r.Context(), session, models.MediaType(req.MediaType), req.MediaID, *req.Favorite)
	respond(w, r, resp, err)
}

func (h *HTTPHandler) MarkWatchlist(w http.ResponseWriter, r *http.Request) {
	session, req, ok := decodeMark(w, r)
	if !ok {
		return
	}
	if req.Watchlist == nil {
		utils.ErrorResponse(w, r, errors.BadRequest("watchlist is required"))
		return
	}
	resp, err := h.service.MarkWatchlist(r.Context(), session, models.MediaType(req.MediaType), req.MediaID, *req.Watchlist)
	respond(w, r, resp, err)
}

func (h *HTTPHandler) FavoriteMovies(w http.ResponseWriter, r *http.Request) {
	if session, ok := currentSession(w, r); ok {
		list, err := h.service.FavoriteMovies(r.Context(), session)
		respond(w, r, list, err)
	}
}

func (h *HTTPHandler) FavoriteShows(w http.ResponseWriter, r *http.Request) {
	if session, ok := currentSession(w, r); ok {
		list, err := h.service.FavoriteShows(r.Context(), session)
		respond(w, r, list, err)
	}
}

func (h *HTTPHandler) WatchlistMovies(w http.ResponseWriter, r *http.Request) {
	if session, ok := currentSession(w, r); ok {
		list, err := h.service.WatchlistMovies(r.Context(), session)
		respond(w, r, list, err)
	}
}

func (h *HTTPHandler) WatchlistShows(w http.ResponseWriter, r *http.Request) {
	if session, ok := currentSession(w, r); ok {
		list, err := h.service.WatchlistShows(r.Context(), session)
		respond(w, r, list, err)
	}
}

func currentSession(w http.ResponseWriter, r *http.Request) (*sessiondomain.Session, bool) {
	session, ok := sessiondomain.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, r, errors.Unauthorized("Not logged in"))
	}
	return session, ok
}

func decodeMark(w http.ResponseWriter, r *http.Request) (*sessiondomain.Session, *markRequest, bool) {
	session, ok := currentSession(w, r)
	if !ok {
		return nil, nil, false
	}
	var req markRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorResponse(w, r, err)
		return nil, nil, false
	}
	if req.MediaID <= 0 {
		utils.ErrorResponse(w, r, errors.BadRequest("media_id is required"))
		return nil, nil, false
	}
	return session, &req, true
}

func respond(w http.ResponseWriter, r *http.Request, data interface{}, err error) {
	if err != nil {
		utils.ErrorResponse(w, r, err)
		return
	}
	utils.JSONResponse(w, data, http.StatusOK)
}
