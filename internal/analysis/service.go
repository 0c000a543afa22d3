// Package analysis orchestrates location resolution, sample fetching and the
// climate engine for every entry point (HTTP, Kafka, CLI).
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/parade-odds/internal/domain"
	"github.com/couchcryptid/parade-odds/internal/observability"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Request sources used as metric labels.
const (
	SourceHTTP  = "http"
	SourceKafka = "kafka"
	SourceCLI   = "cli"
)

// MaxCompareLocations caps a single Compare call.
const MaxCompareLocations = 20

// ReadinessChecker reports whether a dependency can serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

type sourceKey struct{}

// WithSource tags ctx with the entry point that triggered an analysis.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

func sourceFrom(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey{}).(string); ok {
		return s
	}
	return "unknown"
}

// Config wires a Service.
type Config struct {
	Provider     domain.SampleProvider
	ProviderName string
	Resolver     domain.Resolver
	Concurrency  int
	Metrics      *observability.Metrics
	Logger       *slog.Logger
}

// Service runs analyses. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	provider     domain.SampleProvider
	providerName string
	resolver     domain.Resolver
	concurrency  int
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewService creates a Service.
func NewService(cfg Config) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Service{
		provider:     cfg.Provider,
		providerName: cfg.ProviderName,
		resolver:     cfg.Resolver,
		concurrency:  cfg.Concurrency,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
	}
}

// Analyze validates the request, fetches the sample and reduces it.
func (s *Service) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	source := sourceFrom(ctx)
	start := time.Now()

	result, err := s.analyze(ctx, req)

	s.metrics.AnalysisDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = domain.ErrorCode(err)
		s.logger.Warn("analysis failed",
			"request_id", req.ID, "source", source, "lat", req.Lat, "lon", req.Lon,
			"month", req.Month, "day", req.Day, "error", err)
	} else {
		s.logger.Debug("analysis complete", "request_id", req.ID, "source", source, "sample_size", result.SampleSize)
	}
	s.metrics.Analyses.WithLabelValues(source, outcome).Inc()
	return result, err
}

func (s *Service) analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return domain.AnalysisResult{}, err
	}

	fetchStart := time.Now()
	sample, err := s.provider.Fetch(ctx, req.Lat, req.Lon, req.Month, req.Day)
	s.metrics.ProviderFetchDuration.WithLabelValues(s.providerName).Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		s.metrics.ProviderFetches.WithLabelValues(s.providerName, "error").Inc()
		if !errors.Is(err, domain.ErrDataUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
		}
		return domain.AnalysisResult{}, err
	}
	s.metrics.ProviderFetches.WithLabelValues(s.providerName, "success").Inc()

	return domain.Analyze(sample, req.Thresholds)
}

// OddsRequest asks for odds by place name and concrete target date.
type OddsRequest struct {
	Location   string
	Date       time.Time
	Thresholds domain.Thresholds
}

// Odds is a resolved, analysed OddsRequest.
type Odds struct {
	Place   domain.Place           `json:"place"`
	Date    string                 `json:"date"`
	Request domain.AnalysisRequest `json:"request"`
	Result  domain.AnalysisResult  `json:"result"`
}

// Odds resolves the location, enforces the planning lead time and analyses
// the target's calendar day.
func (s *Service) Odds(ctx context.Context, req OddsRequest) (Odds, error) {
	if err := domain.CheckLeadTime(req.Date, domain.MinLeadDays); err != nil {
		return Odds{}, err
	}
	place, err := s.Resolve(ctx, req.Location)
	if err != nil {
		return Odds{}, err
	}

	ar := domain.AnalysisRequest{
		ID:         uuid.NewString(),
		Lat:        place.Lat,
		Lon:        place.Lon,
		Month:      int(req.Date.Month()),
		Day:        req.Date.Day(),
		Thresholds: req.Thresholds,
	}
	result, err := s.Analyze(ctx, ar)
	if err != nil {
		return Odds{}, err
	}
	return Odds{Place: place, Date: req.Date.Format(time.DateOnly), Request: ar, Result: result}, nil
}

// Resolve turns a location name into a Place.
func (s *Service) Resolve(ctx context.Context, name string) (domain.Place, error) {
	return s.resolver.Resolve(ctx, name)
}

// Target is one location in a comparison: a name or explicit coordinates.
type Target struct {
	Name string   `json:"name,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
}

// CompareRequest analyses the same calendar day and thresholds at several
// locations.
type CompareRequest struct {
	Targets    []Target          `json:"locations"`
	Month      int               `json:"month"`
	Day        int               `json:"day"`
	Thresholds domain.Thresholds `json:"thresholds"`
}

// Outcome is the per-location result of Compare. Exactly one of Result and
// Error is set.
type Outcome struct {
	Target  Target                 `json:"target"`
	Place   *domain.Place          `json:"place,omitempty"`
	Result  *domain.AnalysisResult `json:"result,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// Compare runs one analysis per target with bounded concurrency. A failing
// target never fails the others; Compare itself fails only on an invalid
// request or context cancellation.
func (s *Service) Compare(ctx context.Context, req CompareRequest) ([]Outcome, error) {
	if len(req.Targets) == 0 || len(req.Targets) > MaxCompareLocations {
		return nil, fmt.Errorf("%w: need 1 to %d locations, got %d", domain.ErrInvalidRequest, MaxCompareLocations, len(req.Targets))
	}
	if err := domain.ValidateCalendarDay(req.Month, req.Day); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	if err := req.Thresholds.Validate(); err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, len(req.Targets))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, target := range req.Targets {
		g.Go(func() error {
			outcomes[i] = s.compareOne(gCtx, target, req)
			// Per-target failures are recorded in the outcome, not propagated.
			return gCtx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (s *Service) compareOne(ctx context.Context, target Target, req CompareRequest) Outcome {
	out := Outcome{Target: target}

	place, err := s.resolveTarget(ctx, target)
	if err != nil {
		return out.fail(err)
	}
	out.Place = &place

	result, err := s.Analyze(ctx, domain.AnalysisRequest{
		ID:         uuid.NewString(),
		Lat:        place.Lat,
		Lon:        place.Lon,
		Month:      req.Month,
		Day:        req.Day,
		Thresholds: req.Thresholds,
	})
	if err != nil {
		return out.fail(err)
	}
	out.Result = &result
	return out
}

func (s *Service) resolveTarget(ctx context.Context, t Target) (domain.Place, error) {
	switch {
	case t.Lat != nil && t.Lon != nil:
		c := domain.Coordinate{Lat: *t.Lat, Lon: *t.Lon}
		name := t.Name
		if name == "" {
			name = domain.FormatCoordinate(c)
		}
		return domain.Place{Coordinate: c, DisplayName: name}, c.Validate()
	case t.Name != "":
		return s.Resolve(ctx, t.Name)
	default:
		return domain.Place{}, fmt.Errorf("%w: location needs a name or lat and lon", domain.ErrInvalidRequest)
	}
}

func (o Outcome) fail(err error) Outcome {
	o.Error = domain.ErrorCode(err)
	o.Message = err.Error()
	return o
}

// CheckReadiness reports not ready while the provider is unhealthy, for
// example when its circuit breaker is open.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if rc, ok := s.provider.(ReadinessChecker); ok {
		if err := rc.CheckReadiness(ctx); err != nil {
			return fmt.Errorf("provider %s: %w", s.providerName, err)
		}
	}
	return nil
}
