package auth

import "time"

const (
	// TokenKeySize is the size in bytes of generated signing secrets.
	TokenKeySize = 32
	// DefaultAccessTTL is the lifetime of an API access token.
	DefaultAccessTTL = 24 * time.Hour
	// TokenTypeBearer is reported to clients alongside the access token.
	TokenTypeBearer = "Bearer"
)
