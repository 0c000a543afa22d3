// Package openmeteo implements domain.SampleProvider against the Open-Meteo
// historical weather archive.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/parade-odds/internal/domain"
	"github.com/couchcryptid/parade-odds/internal/observability"
	"github.com/sony/gobreaker/v2"
)

// Name identifies this provider in logs and metrics.
const Name = "openmeteo"

// DefaultBaseURL is the public archive endpoint.
const DefaultBaseURL = "https://archive-api.open-meteo.com/v1/archive"

const dailyVariables = "temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max,dew_point_2m_mean"

// Provider fetches daily history from the archive and keeps one calendar day
// per year.
type Provider struct {
	client  *resilientClient
	baseURL string
	years   int
	timeout time.Duration
	logger  *slog.Logger
}

// NewProvider creates an archive provider. timeout bounds each Fetch including
// retries.
func NewProvider(baseURL string, years int, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Provider {
	client := newResilientClient(&http.Client{Timeout: timeout}, DefaultRetryPolicy())
	client.onRetry = metrics.ProviderRetries.Inc
	return &Provider{
		client:  client,
		baseURL: baseURL,
		years:   years,
		timeout: timeout,
		logger:  logger,
	}
}

// Fetch returns the sample for (lat, lon, month, day). February 29 is read
// from February 28 in common years. Any missing year fails the fetch.
func (p *Provider) Fetch(ctx context.Context, lat, lon float64, month, day int) (domain.Sample, error) {
	if err := (domain.Coordinate{Lat: lat, Lon: lon}).Validate(); err != nil {
		return domain.Sample{}, err
	}
	if err := domain.ValidateCalendarDay(month, day); err != nil {
		return domain.Sample{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	first, last := domain.HistoryYears(p.years)
	daily, err := p.fetchDaily(ctx, lat, lon, sampleDate(first, month, day), sampleDate(last, month, day))
	if err != nil {
		return domain.Sample{}, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}

	index := make(map[string]int, len(daily.Time))
	for i, d := range daily.Time {
		index[d] = i
	}

	obs := make([]domain.Observation, 0, p.years)
	for year := first; year <= last; year++ {
		date := sampleDate(year, month, day).Format(time.DateOnly)
		i, ok := index[date]
		if !ok {
			return domain.Sample{}, fmt.Errorf("%w: archive has no row for %s", domain.ErrDataUnavailable, date)
		}
		o, err := daily.observation(i, year)
		if err != nil {
			return domain.Sample{}, fmt.Errorf("%w: %s: %w", domain.ErrDataUnavailable, date, err)
		}
		obs = append(obs, o)
	}

	sample := domain.Sample{Lat: lat, Lon: lon, Month: month, Day: day, Observations: obs}
	if err := sample.Validate(p.years); err != nil {
		return domain.Sample{}, err
	}
	p.logger.Debug("archive sample fetched", "lat", lat, "lon", lon, "month", month, "day", day, "years", len(obs))
	return sample, nil
}

// CheckReadiness fails while the circuit breaker is open.
func (p *Provider) CheckReadiness(_ context.Context) error {
	if p.client.state() == gobreaker.StateOpen {
		return ErrCircuitOpen
	}
	return nil
}

func (p *Provider) fetchDaily(ctx context.Context, lat, lon float64, start, end time.Time) (dailySeries, error) {
	params := url.Values{
		"latitude":        {strconv.FormatFloat(lat, 'f', 4, 64)},
		"longitude":       {strconv.FormatFloat(lon, 'f', 4, 64)},
		"start_date":      {start.Format(time.DateOnly)},
		"end_date":        {end.Format(time.DateOnly)},
		"daily":           {dailyVariables},
		"wind_speed_unit": {"ms"},
		"timezone":        {"auto"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return dailySeries{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.client.do(req)
	if err != nil {
		return dailySeries{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Reason != "" {
			return dailySeries{}, fmt.Errorf("archive API error: status %d: %s", resp.StatusCode, apiErr.Reason)
		}
		return dailySeries{}, fmt.Errorf("archive API error: status %d: %s", resp.StatusCode, body)
	}

	var ar archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return dailySeries{}, fmt.Errorf("decode response: %w", err)
	}
	if err := ar.Daily.check(); err != nil {
		return dailySeries{}, err
	}
	return ar.Daily, nil
}

// sampleDate maps (year, month, day) to a real date, folding Feb 29 onto
// Feb 28 in common years.
func sampleDate(year, month, day int) time.Time {
	if month == 2 && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Archive API response types.

type archiveResponse struct {
	Daily dailySeries `json:"daily"`
}

type dailySeries struct {
	Time     []string   `json:"time"`
	MaxTemp  []*float64 `json:"temperature_2m_max"`
	MinTemp  []*float64 `json:"temperature_2m_min"`
	Precip   []*float64 `json:"precipitation_sum"`
	WindMax  []*float64 `json:"wind_speed_10m_max"`
	DewPoint []*float64 `json:"dew_point_2m_mean"`
}

type errorResponse struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

var errMissingValue = errors.New("missing value")

func (d dailySeries) check() error {
	n := len(d.Time)
	for name, col := range map[string][]*float64{
		"temperature_2m_max": d.MaxTemp,
		"temperature_2m_min": d.MinTemp,
		"precipitation_sum":  d.Precip,
		"wind_speed_10m_max": d.WindMax,
		"dew_point_2m_mean":  d.DewPoint,
	} {
		if len(col) != n {
			return fmt.Errorf("daily %s has %d values for %d days", name, len(col), n)
		}
	}
	return nil
}

func (d dailySeries) observation(i, year int) (domain.Observation, error) {
	for _, v := range []*float64{d.MaxTemp[i], d.MinTemp[i], d.Precip[i], d.WindMax[i], d.DewPoint[i]} {
		if v == nil {
			return domain.Observation{}, errMissingValue
		}
	}
	maxT, minT := *d.MaxTemp[i], *d.MinTemp[i]
	if minT > maxT {
		maxT, minT = minT, maxT
	}
	return domain.Observation{
		Year:        year,
		MaxTempC:    maxT,
		MinTempC:    minT,
		RainMM:      *d.Precip[i],
		WindSpeedMS: *d.WindMax[i],
		Humidex:     domain.Humidex(maxT, *d.DewPoint[i]),
	}, nil
}
