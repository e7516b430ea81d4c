package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/narwhalmedia/reelscout/pkg/errors"
	"github.com/narwhalmedia/reelscout/pkg/interfaces"
	"github.com/narwhalmedia/reelscout/pkg/logger"
)

const maxRequestBody = 1 << 20

// ErrorBody is the JSON shape of every API error.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSONResponse writes data as JSON with the given status code.
func JSONResponse(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// ErrorResponse writes err as {"error": display message} with the status
// derived from its type. Server side failures are logged with their cause.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("Request failed",
			interfaces.String("path", r.URL.Path),
			interfaces.Int("status", status),
			interfaces.Error(err))
	}
	JSONResponse(w, ErrorBody{Error: errors.Display(err)}, status)
}

// DecodeJSON decodes a bounded request body into v. Malformed bodies are
// reported as bad requests.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrorTypeBadRequest, "invalid request body", err)
	}
	return nil
}

// IntParam parses a positive integer chi URL parameter.
func IntParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.BadRequest(fmt.Sprintf("invalid %s %q", name, raw))
	}
	return n, nil
}
