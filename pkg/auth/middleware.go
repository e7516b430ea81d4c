package auth

import (
	"errors"
	"net/http"
	"strings"
)

// ErrMissingToken is returned when a request carries no bearer token.
var ErrMissingToken = errors.New("authorization token not provided")

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, TokenTypeBearer) || strings.TrimSpace(token) == "" {
		return "", errors.New("invalid authorization header format")
	}

	return strings.TrimSpace(token), nil
}
