package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/narwhalmedia/reelscout/internal/catalog/domain"
	"github.com/narwhalmedia/reelscout/internal/catalog/service"
	"github.com/narwhalmedia/reelscout/pkg/errors"
	"github.com/narwhalmedia/reelscout/pkg/models"
	"github.com/narwhalmedia/reelscout/pkg/utils"
)

// HTTPHandler exposes the catalog service over HTTP.
type HTTPHandler struct {
	service service.CatalogServiceInterface
}

// NewHTTPHandler creates a new catalog handler
func NewHTTPHandler(svc service.CatalogServiceInterface) *HTTPHandler {
	return &HTTPHandler{service: svc}
}

// Routes mounts the public catalog routes on r.
func (h *HTTPHandler) Routes(r chi.Router) {
	r.Get("/trending/{tab}", h.Trending)
	r.Get("/search", h.Search)
	r.Post("/ai/search", h.AISearch)

	r.Get("/movies/{id}", h.MovieDetails)
	r.Get("/movies/{id}/similar", h.SimilarMovies)
	r.Get("/movies/{id}/reviews", h.MovieReviews)
	r.Get("/movies/{id}/videos", h.videos(models.MediaTypeMovie))

	r.Get("/tv/{id}", h.ShowDetails)
	r.Get("/tv/{id}/similar", h.SimilarShows)
	r.Get("/tv/{id}/reviews", h.ShowReviews)
	r.Get("/tv/{id}/videos", h.videos(models.MediaTypeTV))
	r.Get("/tv/{id}/seasons/{season}", h.SeasonEpisodes)
}

func (h *HTTPHandler) Trending(w http.ResponseWriter, r *http.Request) {
	tab, ok := domain.ParseTab(chi.URLParam(r, "tab"))
	if !ok {
		utils.ErrorResponse(w, r, errors.BadRequest("tab must be one of all, movie, tv"))
		return
	}
	feed, err := h.service.Trending(r.Context(), tab)
	respond(w, r, feed, err)
}

func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Search(r.Context(), r.URL.Query().Get("query"))
	respond(w, r, result, err)
}

type aiSearchRequest struct {
	Description string `json:"description"`
}

// AISearch answers 204 for an empty description.
func (h *HTTPHandler) AISearch(w http.ResponseWriter, r *http.Request) {
	var req aiSearchRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorResponse(w, r, err)
		return
	}
	resp, err := h.service.AISearch(r.Context(), req.Description)
	if err == nil && resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respond(w, r, resp, err)
}

func (h *HTTPHandler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	withID(w, r, func(id int) (interface{}, error) {
		return h.service.MovieDetails(r.Context(), id)
	})
}

func (h *HTTPHandler) ShowDetails(w http.ResponseWriter, r *http.Request) {
	withID(w, r, func(id int) (interface{}, error) {
		return h.service.ShowDetails(r.Context(), id)
	})
}

func (h *HTTPHandler) SimilarMovies(w http.ResponseWriter, r *http.Request) {
	withID(w, r, func(id int) (interface{}, error) {
		return h.service.SimilarMovies(r.Context(), id)
	})
}

func (h *HTTPHandler) SimilarShows(w http.ResponseWriter, r *http.Request) {
	withID(w, r, func(id int) (interface{}, error) {
		return h.service.SimilarShows(r.Context(), id)
	})
}

func (h *HTTPHandler) MovieReviews(w http.ResponseWriter, r *http.Request) {
	withID(w, r, func(id int) (interface{}, error) {
		return h.service.MovieReviews(r.Context(), id)
	})
}

func (h *HTTPHandler) ShowReviews(w http.ResponseWriter, r *http.Request) {
	withID(w, r, func(id int) (interface{}, error) {
		return h.service.ShowReviews(r.Context(), id)
	})
}

func (h *HTTPHandler) SeasonEpisodes(w http.ResponseWriter, r *http.Request) {
	season, err := utils.IntParam(r, "season")
	if err != nil {
		utils.ErrorResponse(w, r, err)
		return
	}
	withID(w, r, func(id int) (interface{}, error) {
		return h.service.SeasonEpisodes(r.Context(), id, season)
	})
}

func (h *HTTPHandler) videos(mediaType models.MediaType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withID(w, r, func(id int) (interface{}, error) {
			return h.service.Videos(r.Context(), id, mediaType)
		})
	}
}

func withID(w http.ResponseWriter, r *http.Request, fn func(id int) (interface{}, error)) {
	id, err := utils.IntParam(r, "id")
	if err != nil {
		utils.ErrorResponse(w, r, err)
		return
	}
	data, err := fn(id)
	respond(w, r, data, err)
}

func respond(w http.ResponseWriter, r *http.Request, data interface{}, err error) {
	if err != nil {
		utils.ErrorResponse(w, r, err)
		return
	}
	utils.JSONResponse(w, data, http.StatusOK)
}
