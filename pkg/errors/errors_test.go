package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/narwhalmedia/reelscout/pkg/errors"
)

func TestDisplay(t *testing.T) {
	cause := stderrors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error", cause, "connection refused"},
		{"wrapped", errors.Upstream("Failed to fetch movie details", cause), "Failed to fetch movie details: connection refused"},
		{"masked", errors.Mask(errors.ErrorTypeUpstream, "Failed to retrieve movie state.", cause), "Failed to retrieve movie state."},
		{"no cause", errors.BadRequest("query is required"), "query is required"},
		{"empty message", errors.Wrap(errors.ErrorTypeUpstream, "", cause), "connection refused"},
		{"fmt wrapped app error", fmt.Errorf("outer: %w", errors.NotFound("session not found")), "session not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Display(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, errors.HTTPStatus(errors.BadRequest("x")))
	assert.Equal(t, http.StatusUnauthorized, errors.HTTPStatus(errors.Unauthorized("x")))
	assert.Equal(t, http.StatusForbidden, errors.HTTPStatus(errors.Forbidden("x")))
	assert.Equal(t, http.StatusNotFound, errors.HTTPStatus(errors.NotFound("x")))
	assert.Equal(t, http.StatusConflict, errors.HTTPStatus(errors.Conflict("x")))
	assert.Equal(t, http.StatusBadGateway, errors.HTTPStatus(errors.Upstream("x", stderrors.New("y"))))
	assert.Equal(t, http.StatusInternalServerError, errors.HTTPStatus(stderrors.New("boom")))
}

func TestPredicates(t *testing.T) {
	cause := stderrors.New("timeout")
	err := errors.Upstream("Failed to make search", cause)

	assert.True(t, errors.IsUpstream(err))
	assert.False(t, errors.IsNotFound(err))
	assert.ErrorIs(t, err, cause)
	assert.True(t, errors.IsUnauthorized(fmt.Errorf("login: %w", errors.Unauthorized("bad credentials"))))
	assert.Equal(t, errors.ErrorTypeInternal, errors.TypeOf(cause))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, errors.IsDuplicateError(stderrors.New("UNIQUE constraint failed: sessions.id")))
	assert.False(t, errors.IsDuplicateError(stderrors.New("no such table")))
	assert.False(t, errors.IsDuplicateError(nil))
}
