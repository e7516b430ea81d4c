package server_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accounthandler "github.com/narwhalmedia/reelscout/internal/account/handler"
	cataloghandler "github.com/narwhalmedia/reelscout/internal/catalog/handler"
	"github.com/narwhalmedia/reelscout/internal/server"
	"github.com/narwhalmedia/reelscout/internal/session/domain"
	sessionhandler "github.com/narwhalmedia/reelscout/internal/session/handler"
	"github.com/narwhalmedia/reelscout/pkg/errors"
	"github.com/narwhalmedia/reelscout/pkg/logger"
)

// MockAuthService is a mock for the session service
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResult), args.Error(1)
}

func (m *MockAuthService) Restore(ctx context.Context, sessionID uuid.UUID) (*domain.CurrentUser, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrentUser), args.Error(1)
}

func (m *MockAuthService) Current(ctx context.Context) (*domain.CurrentUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrentUser), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, accessToken string) (*domain.Session, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return m.Called(ctx, sessionID).Error(0)
}

func newServer(auth *MockAuthService, checks ...server.ReadinessCheck) *server.Server {
	return server.New(server.Options{MetricsEnabled: true}, server.Handlers{
		Catalog: cataloghandler.NewHTTPHandler(nil),
		Session: sessionhandler.NewHTTPHandler(auth),
		Account: accounthandler.NewHTTPHandler(nil),
		Auth:    auth,
	}, logger.NewNoopLogger(), checks...)
}

func get(t *testing.T, h http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(header) == 2 {
		req.Header.Set(header[0], header[1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newServer(new(MockAuthService)).Handler(), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestReadyz(t *testing.T) {
	healthy := server.ReadinessCheck{Name: "database", Check: func(context.Context) error { return nil }}
	broken := server.ReadinessCheck{Name: "redis", Check: func(context.Context) error { return stderrors.New("connection refused") }}

	rec := get(t, newServer(new(MockAuthService), healthy).Handler(), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())

	rec = get(t, newServer(new(MockAuthService), healthy, broken).Handler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"redis":"connection refused"}}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h := newServer(new(MockAuthService)).Handler()
	get(t, h, "/healthz")

	rec := get(t, h, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reelscout_http_requests_total")
}

func TestAccountRoutesRequireToken(t *testing.T) {
	auth := new(MockAuthService)
	auth.On("Authenticate", mock.Anything, "expired").
		Return(nil, errors.Unauthorized("Invalid or expired access token")).Once()
	h := newServer(auth).Handler()

	rec := get(t, h, "/api/v1/account/favorites/movies")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(t, h, "/api/v1/movies/550/state", "Authorization", "Bearer expired")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid or expired access token"}`, rec.Body.String())

	auth.AssertExpectations(t)
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newServer(new(MockAuthService)).Handler(), "/api/v1/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	// Arrange
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := newServer(new(MockAuthService))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Act
	go func() { done <- srv.Serve(ctx, ln) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://%s/healthz", ln.Addr()))
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	_ = resp.Body.Close()
	cancel()

	// Assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
