package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	// Arrange
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/movies/{id}", "418"))

	// Act
	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/movies/"+id, nil))
	}

	// Assert
	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/movies/{id}", "418"))
	assert.Equal(t, 3.0, after-before)
}

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequests.WithLabelValues("tmdb", "movie/{id}", "200"))

	ObserveUpstream("tmdb", "movie/{id}", StatusLabel(200), time.Now())

	after := testutil.ToFloat64(UpstreamRequests.WithLabelValues("tmdb", "movie/{id}", "200"))
	assert.Equal(t, 1.0, after-before)
}

func TestHandler(t *testing.T) {
	HTTPRequests.WithLabelValues("GET", "/healthz", "200").Inc()
	rec := httptest.NewRecorder()

	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reelscout_http_requests_total")
}
