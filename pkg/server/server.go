// Package server exposes the render pipeline over HTTP.
//
// # Overview
//
// The server wraps a [pipeline.Runner] with a JSON API and a directly
// browsable image endpoint:
//
//	GET  /healthz                     liveness and version
//	GET  /api/v1/families             the family catalogue
//	GET  /api/v1/profiles             available render profiles
//	GET  /api/v1/profiles/{name}      one profile
//	GET  /api/v1/image                render a PNG from query parameters
//	POST /api/v1/render               full pipeline run from options JSON
//	GET  /api/v1/history              archived runs, newest first
//	GET  /api/v1/history/{id}         one archived run
//	GET  /api/v1/history/{id}/image   re-render an archived run
//	DELETE /api/v1/history/{id}       forget an archived run
//
// The image endpoint accepts either a profile name or explicit
// parameters, so a browser can explore with plain URLs:
//
//	/api/v1/image?profile=seahorse
//	/api/v1/image?family=julia&param_re=-0.8&param_im=0.156&res_x=800
//
// # Caching
//
// Image responses are cached by normalized query string with a short
// TTL, on top of the runner's own plane and artifact caches. A request
// that misses all three layers computes the plane; one that hits the
// HTTP layer never touches the pipeline.
//
// History endpoints require a configured archive store and respond 404
// without one.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/fatou/pkg/archive"
	"github.com/matzehuels/fatou/pkg/cache"
	"github.com/matzehuels/fatou/pkg/observability"
	"github.com/matzehuels/fatou/pkg/pipeline"
	"github.com/matzehuels/fatou/pkg/profile"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":8080"

// DefaultMaxDim caps the requested resolution per side.
const DefaultMaxDim = 4096

// Config configures a Server. Zero values get sensible defaults.
type Config struct {
	// Addr is the listen address. Defaults to [DefaultAddr].
	Addr string

	// ProfileDir is the profile directory. Defaults to profile.Dir().
	ProfileDir string

	// MaxDim caps res_x/res_y per request. Defaults to [DefaultMaxDim].
	MaxDim int

	// Runner executes renders. If nil, one is built from Cache and Keyer.
	Runner *pipeline.Runner

	// Archive stores run history. If nil, history endpoints are disabled.
	Archive archive.Store

	// Cache backs HTTP response caching. If nil, a NullCache is used.
	Cache cache.Cache

	// Keyer generates cache keys. If nil, the default keyer is used.
	Keyer cache.Keyer

	// Logger receives request logs. If nil, the default logger is used.
	Logger *log.Logger
}

// Server serves the render API.
type Server struct {
	cfg    Config
	router chi.Router
}

// New creates a Server with its routes registered.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxDim <= 0 {
		cfg.MaxDim = DefaultMaxDim
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Keyer == nil {
		cfg.Keyer = cache.NewDefaultKeyer()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(cfg.Cache, cfg.Keyer, cfg.Logger)
	}
	if cfg.ProfileDir == "" {
		if dir, err := profile.Dir(); err == nil {
			cfg.ProfileDir = dir
		}
	}

	s := &Server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/families", s.handleFamilies)
		r.Get("/profiles", s.handleProfiles)
		r.Get("/profiles/{name}", s.handleProfile)
		r.Get("/image", s.handleImage)
		r.Post("/render", s.handleRender)
		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.handleHistory)
			r.Get("/{id}", s.handleHistoryEntry)
			r.Get("/{id}/image", s.handleHistoryImage)
			r.Delete("/{id}", s.handleHistoryDelete)
		})
	})
	s.router = r

	return s
}

// Handler returns the HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start runs the server until ctx is cancelled, then shuts down
// gracefully with a 10 second drain window.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.cfg.Logger.Info("server listening", "addr", s.cfg.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.cfg.Logger.Info("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	}
}

// instrument emits server hooks and logs every request.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.cfg.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", elapsed,
			"bytes", ww.BytesWritten())
	})
}
