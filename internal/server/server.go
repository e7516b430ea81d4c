package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	accounthandler "github.com/narwhalmedia/reelscout/internal/account/handler"
	cataloghandler "github.com/narwhalmedia/reelscout/internal/catalog/handler"
	sessionhandler "github.com/narwhalmedia/reelscout/internal/session/handler"
	sessionservice "github.com/narwhalmedia/reelscout/internal/session/service"
	"github.com/narwhalmedia/reelscout/pkg/interfaces"
	"github.com/narwhalmedia/reelscout/pkg/logger"
	"github.com/narwhalmedia/reelscout/pkg/metrics"
	"github.com/narwhalmedia/reelscout/pkg/utils"
)

const (
	defaultShutdownTimeout = 30 * time.Second
	readinessTimeout       = 2 * time.Second
)

// Options configures the HTTP listener.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
	MetricsPath     string
}

// Handlers are the API handlers mounted under /api/v1.
type Handlers struct {
	Catalog *cataloghandler.HTTPHandler
	Session *sessionhandler.HTTPHandler
	Account *accounthandler.HTTPHandler
	// Auth resolves bearer tokens for the account routes.
	Auth sessionservice.AuthServiceInterface
}

// ReadinessCheck is a named dependency probe run by /readyz.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Server is the reelscout HTTP API.
type Server struct {
	opts    Options
	router  chi.Router
	checks  []ReadinessCheck
	logger  interfaces.Logger
	httpSrv *http.Server
}

// New builds the router and wires every API route.
func New(opts Options, handlers Handlers, log interfaces.Logger, checks ...ReadinessCheck) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	s := &Server{
		opts:   opts,
		checks: checks,
		logger: log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.HTTPMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if opts.MetricsEnabled {
		r.Handle(opts.MetricsPath, metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		handlers.Catalog.Routes(r)
		handlers.Session.Routes(r)
		r.Group(func(r chi.Router) {
			r.Use(sessionhandler.RequireSession(handlers.Auth))
			handlers.Account.Routes(r)
		})
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpSrv = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", interfaces.String("address", ln.Addr().String()))
		errCh <- s.httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.JSONResponse(w, map[string]string{"status": "healthy"}, http.StatusOK)
}

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	failed := map[string]string{}
	for _, c := range s.checks {
		if err := c.Check(ctx); err != nil {
			failed[c.Name] = err.Error()
			logger.FromContext(r.Context()).Warn("Readiness check failed",
				interfaces.String("check", c.Name),
				interfaces.Error(err))
		}
	}

	if len(failed) > 0 {
		utils.JSONResponse(w, readiness{Status: "unavailable", Checks: failed}, http.StatusServiceUnavailable)
		return
	}
	utils.JSONResponse(w, readiness{Status: "ready"}, http.StatusOK)
}
