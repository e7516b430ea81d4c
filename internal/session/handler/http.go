package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/narwhalmedia/reelscout/internal/session/domain"
	"github.com/narwhalmedia/reelscout/internal/session/service"
	"github.com/narwhalmedia/reelscout/pkg/errors"
	"github.com/narwhalmedia/reelscout/pkg/utils"
)

// HTTPHandler exposes login, profile and logout over HTTP.
type HTTPHandler struct {
	service service.AuthServiceInterface
}

// NewHTTPHandler creates a new session handler
func NewHTTPHandler(svc service.AuthServiceInterface) *HTTPHandler {
	return &HTTPHandler{service: svc}
}

// Routes mounts the session routes on r.
func (h *HTTPHandler) Routes(r chi.Router) {
	r.Post("/session", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(RequireSession(h.service))
		r.Get("/session", h.Current)
		r.Delete("/session", h.Logout)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorResponse(w, r, err)
		return
	}
	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		utils.ErrorResponse(w, r, err)
		return
	}
	utils.JSONResponse(w, result, http.StatusOK)
}

func (h *HTTPHandler) Current(w http.ResponseWriter, r *http.Request) {
	session, ok := domain.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, r, errors.Unauthorized("Not logged in"))
		return
	}
	current, err := h.service.Restore(r.Context(), session.ID)
	if err != nil {
		utils.ErrorResponse(w, r, err)
		return
	}
	utils.JSONResponse(w, current, http.StatusOK)
}

func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := domain.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, r, errors.Unauthorized("Not logged in"))
		return
	}
	if err := h.service.Logout(r.Context(), session.ID); err != nil {
		utils.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
