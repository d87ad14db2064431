// Package httpapi exposes the layout engine over HTTP: render and check
// endpoints for the design surface, calibration override management for
// station provisioning, and Prometheus metrics.
package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spoolworks/labelpress/calibration"
	"github.com/spoolworks/labelpress/layout"
	"github.com/spoolworks/labelpress/render"
)

// Server wires the engine's pieces behind an HTTP surface. Construct with
// NewServer and mount Routes.
type Server struct {
	store    calibration.Store
	renderer render.Renderer
	measurer layout.Measurer
	logger   *log.Logger

	registry *prometheus.Registry
	metrics  *metrics
}

// Options configures a Server. Store and Renderer are required. Measurer
// defaults to the renderer when it measures text itself, which keeps fitting
// and painting on the same font metrics.
type Options struct {
	Store    calibration.Store
	Renderer render.Renderer
	Measurer layout.Measurer
	Logger   *log.Logger
}

// NewServer validates the wiring and registers metrics.
func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("httpapi: calibration store is required")
	}
	if opts.Renderer == nil {
		return nil, fmt.Errorf("httpapi: renderer is required")
	}
	measurer := opts.Measurer
	if measurer == nil {
		m, ok := opts.Renderer.(layout.Measurer)
		if !ok {
			return nil, fmt.Errorf("httpapi: renderer does not measure text, a Measurer is required")
		}
		measurer = m
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	registry := prometheus.NewRegistry()
	return &Server{
		store:    opts.Store,
		renderer: opts.Renderer,
		measurer: measurer,
		logger:   logger,
		registry: registry,
		metrics:  newMetrics(registry),
	}, nil
}

// Routes returns the HTTP handler tree.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/check", s.handleCheck)
		r.Get("/calibration", s.handleCalibrationList)
		r.Get("/calibration/{station}/{profile}", s.handleCalibrationGet)
		r.Put("/calibration/{station}/{profile}", s.handleCalibrationPut)
		r.Delete("/calibration/{station}/{profile}", s.handleCalibrationDelete)
	})
	return r
}

// ListenAndServe serves Routes on addr until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
