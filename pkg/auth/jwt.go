package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager issues and validates the access tokens handed to API clients.
// A token names a locally stored TMDB session; it never carries the TMDB
// session id itself.
type JWTManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	now       func() time.Time
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(secret, issuer string, accessTTL time.Duration) *JWTManager {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return &JWTManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// Claims extends jwt.RegisteredClaims with the session the token belongs to.
type Claims struct {
	jwt.RegisteredClaims

	SessionID string `json:"sid"`
	Username  string `json:"username"`
	AccountID int    `json:"account_id"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Issue signs an access token for a stored session.
func (j *JWTManager) Issue(sessionID uuid.UUID, username string, accountID int) (*Token, error) {
	now := j.now()
	expiresAt := now.Add(j.accessTTL)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		SessionID: sessionID.String(),
		Username:  username,
		AccountID: accountID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &Token{
		AccessToken: signed,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int(j.accessTTL.Seconds()),
		ExpiresAt:   expiresAt,
	}, nil
}

// Validate parses tokenString and returns its claims. Every failure wraps
// ErrInvalidToken.
func (j *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	},
		jwt.WithIssuer(j.issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return nil, fmt.Errorf("%w: bad session id", ErrInvalidToken)
	}

	return claims, nil
}

// SessionUUID returns the parsed session id. Validate guarantees it parses.
func (c *Claims) SessionUUID() uuid.UUID {
	id, _ := uuid.Parse(c.SessionID)
	return id
}

// GenerateSecret generates a random secret for JWT signing.
func GenerateSecret() string {
	b := make([]byte, TokenKeySize)
	_, _ = rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}
