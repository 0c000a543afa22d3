package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/parade-odds/internal/adapter/gazetteer"
	httpadapter "github.com/couchcryptid/parade-odds/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/parade-odds/internal/adapter/kafka"
	"github.com/couchcryptid/parade-odds/internal/adapter/mapbox"
	"github.com/couchcryptid/parade-odds/internal/adapter/openmeteo"
	"github.com/couchcryptid/parade-odds/internal/adapter/synthetic"
	"github.com/couchcryptid/parade-odds/internal/analysis"
	"github.com/couchcryptid/parade-odds/internal/config"
	"github.com/couchcryptid/parade-odds/internal/domain"
	"github.com/couchcryptid/parade-odds/internal/observability"
	"github.com/couchcryptid/parade-odds/internal/pipeline"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

// readiness is ready only when every member is.
type readiness []analysis.ReadinessChecker

func (r readiness) CheckReadiness(ctx context.Context) error {
	for _, c := range r {
		if err := c.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	provider, providerName := newProvider(cfg, logger, metrics)
	logger.Info("sample provider selected", "provider", providerName, "history_years", cfg.HistoryYears)

	// Geocoding is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder analysis.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedClient(client, cfg.MapboxCacheTTL, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_ttl", cfg.MapboxCacheTTL, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled, using built-in places")
	}

	svc := analysis.NewService(analysis.Config{
		Provider:     provider,
		ProviderName: providerName,
		Resolver:     analysis.NewChainResolver(geocoder, gazetteer.New(), logger),
		Concurrency:  cfg.CompareConcurrency,
		Metrics:      metrics,
		Logger:       logger,
	})

	ready := readiness{svc}

	var (
		p      *pipeline.Pipeline
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p = pipeline.New(reader, pipeline.NewTransformer(svc, logger), writer, logger, metrics, pipeline.Options{
			BatchSize:   cfg.BatchSize,
			Concurrency: cfg.CompareConcurrency,
		})
		ready = append(ready, p)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, ready, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if p != nil {
		g.Go(func() error {
			return p.Run(gCtx)
		})
	}

	<-gCtx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := g.Wait(); err != nil {
		logger.Error("service error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func newProvider(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (domain.SampleProvider, string) {
	if cfg.Provider == config.ProviderOpenMeteo {
		return openmeteo.NewProvider(cfg.OpenMeteoBaseURL, cfg.HistoryYears, cfg.OpenMeteoTimeout, logger, metrics), openmeteo.Name
	}
	return synthetic.New(cfg.HistoryYears), synthetic.Name
}
