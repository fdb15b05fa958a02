// Package api serves cross-section drawings and 3D models over HTTP.
//
// Routes:
//
//	POST /v1/cross-sections   render a design to 2D formats
//	POST /v1/models           extrude a design to a GLB model
//	GET  /v1/artifacts/{id}   artifact metadata, or one file with ?format=
//	GET  /v1/layups/{cores}   layup configuration for a core count
//	GET  /healthz             liveness and version
//
// Every generated artifact is stored and can be fetched again by ID.
// Errors are JSON bodies carrying the structured error code.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cablesection/pkg/buildinfo"
	"github.com/matzehuels/cablesection/pkg/layup"
	"github.com/matzehuels/cablesection/pkg/observability"
	"github.com/matzehuels/cablesection/pkg/pipeline"
	"github.com/matzehuels/cablesection/pkg/store"
)

// Defaults for Server.
const (
	DefaultTimeout     = 60 * time.Second
	DefaultMaxBodySize = 1 << 20
)

// Server is the HTTP generation service.
type Server struct {
	Runner *pipeline.Runner
	Store  store.Store
	Layups *layup.Table
	Logger *log.Logger

	// Timeout bounds one generation request.
	Timeout time.Duration
	// MaxBodySize limits request bodies in bytes.
	MaxBodySize int64
}

// New creates a server. A nil store keeps artifacts in memory; a nil
// layup table uses the built-in one.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	layups := runner.Env.Layups
	if layups == nil {
		layups = layup.Default()
	}
	return &Server{
		Runner:      runner,
		Store:       st,
		Layups:      layups,
		Logger:      logger,
		Timeout:     DefaultTimeout,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(cors)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.Timeout))
		r.Post("/cross-sections", s.createCrossSection)
		r.Post("/models", s.createModel)
		r.Get("/artifacts/{id}", s.getArtifact)
		r.Get("/layups/{cores}", s.getLayup)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr, "version", buildinfo.Version)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.Logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// observe reports requests to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length")
		w.Header().Set("Server", buildinfo.UserAgent())
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
