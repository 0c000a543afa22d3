// Package http serves the analysis API alongside health, readiness and
// metrics endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/parade-odds/internal/analysis"
	"github.com/couchcryptid/parade-odds/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AnalysisService is the subset of analysis.Service the API calls.
type AnalysisService interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error)
	Odds(ctx context.Context, req analysis.OddsRequest) (analysis.Odds, error)
	Compare(ctx context.Context, req analysis.CompareRequest) ([]analysis.Outcome, error)
}

// Server exposes the API plus /healthz, /readyz and /metrics.
type Server struct {
	httpServer *http.Server
	svc        AnalysisService
	logger     *slog.Logger
}

// NewServer creates an HTTP server. Readiness is delegated to ready.
func NewServer(addr string, svc AnalysisService, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/analyses", s.handleAnalyze)
	mux.HandleFunc("POST /api/v1/analyses/compare", s.handleCompare)
	mux.HandleFunc("GET /api/v1/odds", s.handleOdds)
	mux.HandleFunc("GET /api/v1/risk", s.handleRisk)

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
