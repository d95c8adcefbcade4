package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/couchcryptid/fire-spread-service/internal/domain"
)

// Extractor answers fire spread queries.
type Extractor interface {
	Extract(ctx context.Context, q domain.Query) (*domain.FireSpreadResult, error)
	Simulations(ctx context.Context) ([]string, error)
}

// Options configures the public routes.
type Options struct {
	DefaultDataset string
	AllowedOrigins []string
	Version        string
}

// Server exposes the fire spread API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	api        Extractor
	opts       Options
	logger     *slog.Logger
}

// NewServer creates an HTTP server for api.
func NewServer(addr string, api Extractor, ready sharedobs.ReadinessChecker, opts Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      c.Handler(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		api:    api,
		opts:   opts,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /simulations", s.handleSimulations)
	mux.HandleFunc("GET /datasets/{dataset}/runs/{run}/fire-spread/{minutes}", s.handleFireSpread)
	mux.HandleFunc("GET /datasets/{dataset}/fire-spread/{minutes}", s.handleFireSpread)
	mux.HandleFunc("GET /fire-spread/{minutes}", s.handleFireSpread)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "Fire spread simulation API",
		"status":          "running",
		"version":         s.opts.Version,
		"default_dataset": s.opts.DefaultDataset,
		"endpoints": []string{
			"/simulations",
			"/datasets/{dataset}/runs/{run}/fire-spread/{minutes}",
			"/datasets/{dataset}/fire-spread/{minutes}",
			"/fire-spread/{minutes}",
		},
	})
}

func (s *Server) handleSimulations(w http.ResponseWriter, r *http.Request) {
	sims, err := s.api.Simulations(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"simulations": sims,
		"description": "Datasets with fire spread results",
	})
}

// handleFireSpread serves every fire spread route. Missing path values fall
// back to the default dataset and run 1.
func (s *Server) handleFireSpread(w http.ResponseWriter, r *http.Request) {
	q := domain.Query{Dataset: r.PathValue("dataset"), Run: 1}
	if q.Dataset == "" {
		q.Dataset = s.opts.DefaultDataset
	}

	var err error
	if v := r.PathValue("run"); v != "" {
		if q.Run, err = strconv.Atoi(v); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("run must be an integer"))
			return
		}
	}
	if q.Minutes, err = strconv.Atoi(r.PathValue("minutes")); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("minutes must be an integer"))
		return
	}

	res, err := s.api.Extract(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorBody("internal error"))
		return
	}
	writeJSON(w, status, errorBody(err.Error()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrArtifactNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoPolicy), errors.Is(err, domain.ErrMalformedGrid):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // response already committed
}
