package container_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narwhalmedia/reelscout/internal/container"
	"github.com/narwhalmedia/reelscout/pkg/config"
	"github.com/narwhalmedia/reelscout/pkg/logger"
	"github.com/narwhalmedia/reelscout/pkg/utils"
)

func testConfig(t *testing.T) *config.BaseConfig {
	cfg := config.GetDefaults("reelscout")
	cfg.Database.Path = filepath.Join(t.TempDir(), "sessions.db")
	cfg.Database.LogLevel = "silent"
	cfg.TMDB.AccessToken = "token"
	cfg.Auth.JWTSecret = "secret"
	return cfg
}

func TestNew_WiresServices(t *testing.T) {
	// Arrange
	cfg := testConfig(t)

	// Act
	c, cleanup, err := container.New(context.Background(), cfg, logger.NewNoopLogger())

	// Assert
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, c.CatalogService)
	assert.NotNil(t, c.AuthService)
	assert.NotNil(t, c.AccountService)
	assert.IsType(t, &utils.InMemoryCache{}, c.Cache)

	rec := httptest.NewRecorder()
	c.Server().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNew_CacheDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Driver = "none"

	c, cleanup, err := container.New(context.Background(), cfg, logger.NewNoopLogger())

	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, utils.NoopCache{}, c.Cache)
}

func TestNew_BadDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Path = filepath.Join(t.TempDir(), "missing", "dir", "sessions.db")

	_, _, err := container.New(context.Background(), cfg, logger.NewNoopLogger())

	assert.Error(t, err)
}
