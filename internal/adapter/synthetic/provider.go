// Package synthetic provides a deterministic SampleProvider for demos and
// tests. Samples are plausible rather than accurate: identical inputs always
// yield identical samples within the same calendar year.
package synthetic

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/couchcryptid/parade-odds/internal/domain"
	"gonum.org/v1/gonum/stat/distuv"
)

// Name identifies this provider in logs and metrics.
const Name = "synthetic"

// warmingPerYear is added to each year's max temperature so the series has a
// visible trend.
const warmingPerYear = 0.05

// Provider synthesizes historical samples seeded from (lat, lon, month, day).
type Provider struct {
	years int
}

// New creates a Provider returning samples of the given span.
func New(years int) *Provider {
	if years <= 0 {
		years = domain.DefaultHistoryYears
	}
	return &Provider{years: years}
}

// Fetch returns a sample for the years preceding the current year.
func (p *Provider) Fetch(ctx context.Context, lat, lon float64, month, day int) (domain.Sample, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sample{}, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}
	if err := (domain.Coordinate{Lat: lat, Lon: lon}).Validate(); err != nil {
		return domain.Sample{}, err
	}
	if err := domain.ValidateCalendarDay(month, day); err != nil {
		return domain.Sample{}, err
	}

	seed := Seed(lat, lon, month, day)
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	rng := rand.New(src)

	baseTemp := 20 + lat*0.5 - 30*rng.Float64()
	maxTemp := distuv.Uniform{Min: baseTemp - 5, Max: baseTemp + 15, Src: src}
	minTemp := distuv.Uniform{Min: baseTemp - 15, Max: baseTemp + 5, Src: src}
	rain := distuv.LogNormal{Mu: math.Log(1.5), Sigma: 1.0, Src: src}
	wind := distuv.Uniform{Min: 5, Max: 15, Src: src}
	humidex := distuv.Uniform{Min: 20, Max: 45, Src: src}

	first, _ := domain.HistoryYears(p.years)
	obs := make([]domain.Observation, p.years)
	for i := range obs {
		obs[i] = domain.Observation{
			Year:        first + i,
			MaxTempC:    maxTemp.Rand() + float64(i)*warmingPerYear,
			MinTempC:    minTemp.Rand(),
			RainMM:      rain.Rand(),
			WindSpeedMS: wind.Rand(),
			Humidex:     humidex.Rand(),
		}
	}

	return domain.Sample{Lat: lat, Lon: lon, Month: month, Day: day, Observations: obs}, nil
}

// Seed derives the generator seed from the request inputs.
func Seed(lat, lon float64, month, day int) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%.6f|%.6f|%d|%d", lat, lon, month, day)
	return h.Sum64()
}
