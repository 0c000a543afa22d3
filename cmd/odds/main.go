// Command odds prints the historical odds of adverse weather at a place on a
// planned date.
//
// Usage:
//
//	go run ./cmd/odds -location "San Francisco" -date 2027-07-04
//	go run ./cmd/odds -location 35.68,139.65 -date 2027-08-01 -hot 28 -json
//	go run ./cmd/odds -list
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/parade-odds/internal/adapter/gazetteer"
	"github.com/couchcryptid/parade-odds/internal/adapter/mapbox"
	"github.com/couchcryptid/parade-odds/internal/adapter/openmeteo"
	"github.com/couchcryptid/parade-odds/internal/adapter/synthetic"
	"github.com/couchcryptid/parade-odds/internal/analysis"
	"github.com/couchcryptid/parade-odds/internal/config"
	"github.com/couchcryptid/parade-odds/internal/domain"
	"github.com/couchcryptid/parade-odds/internal/observability"
	"github.com/couchcryptid/parade-odds/internal/report"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, observability.NewMetrics()))
}

type options struct {
	location   string
	date       string
	thresholds domain.Thresholds
	asJSON     bool
	list       bool
	provider   string
	years      int
	timeout    time.Duration
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (options, error) {
	def := domain.DefaultThresholds()
	var o options

	fs := flag.NewFlagSet("odds", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.location, "location", "", "place name or \"lat,lon\"")
	fs.StringVar(&o.date, "date", "", "target date, YYYY-MM-DD, at least 30 days ahead")
	fs.Float64Var(&o.thresholds.HotC, "hot", def.HotC, "very hot above this max temperature (°C)")
	fs.Float64Var(&o.thresholds.ColdC, "cold", def.ColdC, "very cold below this min temperature (°C)")
	fs.Float64Var(&o.thresholds.RainMM, "rain", def.RainMM, "very wet above this daily rainfall (mm)")
	fs.BoolVar(&o.asJSON, "json", false, "print the summary as JSON")
	fs.BoolVar(&o.list, "list", false, "list built-in place names and exit")
	fs.StringVar(&o.provider, "provider", cfg.Provider, "sample provider: synthetic or openmeteo")
	fs.IntVar(&o.years, "years", cfg.HistoryYears, "years of history to analyze")
	fs.DurationVar(&o.timeout, "timeout", time.Minute, "overall time limit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if o.list {
		return o, nil
	}
	if o.location == "" || o.date == "" {
		fs.Usage()
		return options{}, errors.New("-location and -date are required")
	}
	if o.provider != config.ProviderSynthetic && o.provider != config.ProviderOpenMeteo {
		return options{}, fmt.Errorf("unknown provider %q", o.provider)
	}
	if o.years < 2 {
		return options{}, fmt.Errorf("-years must be at least 2, got %d", o.years)
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer, metrics *observability.Metrics) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	o, err := parseFlags(args, cfg, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "odds: %v\n", err)
		}
		return 2
	}

	if o.list {
		fmt.Fprintln(stdout, strings.Join(gazetteer.Names(), "\n"))
		return 0
	}

	target, err := time.Parse(time.DateOnly, o.date)
	if err != nil {
		fmt.Fprintf(stderr, "odds: invalid -date %q: want YYYY-MM-DD\n", o.date)
		return 2
	}
	if err := report.ValidateTargetDate(target); err != nil {
		fmt.Fprintf(stderr, "odds: pick a date on or after %s (%v)\n",
			report.EarliestTargetDate().Format(time.DateOnly), err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	svc := newService(cfg, o, logger, metrics)

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	var session report.Session
	err = session.Run(analysis.WithSource(ctx, analysis.SourceCLI), func(ctx context.Context) (report.Report, error) {
		odds, err := svc.Odds(ctx, analysis.OddsRequest{Location: o.location, Date: target, Thresholds: o.thresholds})
		if err != nil {
			return report.Report{}, err
		}
		return report.Report{
			Location:   odds.Place.DisplayName,
			Date:       target,
			Thresholds: o.thresholds,
			Result:     odds.Result,
		}, nil
	})
	if err != nil {
		fmt.Fprintf(stderr, "odds: %s: %v\n", domain.ErrorCode(err), err)
		return 1
	}

	r, _ := session.Report()
	if o.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report.Summarize(r)); err != nil {
			fmt.Fprintf(stderr, "odds: %v\n", err)
			return 1
		}
		return 0
	}
	if err := report.Render(stdout, r); err != nil {
		fmt.Fprintf(stderr, "odds: %v\n", err)
		return 1
	}
	return 0
}

func newService(cfg *config.Config, o options, logger *slog.Logger, metrics *observability.Metrics) *analysis.Service {
	var provider domain.SampleProvider = synthetic.New(o.years)
	providerName := synthetic.Name
	if o.provider == config.ProviderOpenMeteo {
		provider = openmeteo.NewProvider(cfg.OpenMeteoBaseURL, o.years, cfg.OpenMeteoTimeout, logger, metrics)
		providerName = openmeteo.Name
	}

	var geocoder analysis.Geocoder
	if cfg.MapboxEnabled {
		geocoder = mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
	}

	return analysis.NewService(analysis.Config{
		Provider:     provider,
		ProviderName: providerName,
		Resolver:     analysis.NewChainResolver(geocoder, gazetteer.New(), logger),
		Concurrency:  1,
		Metrics:      metrics,
		Logger:       logger,
	})
}
