package domain

import (
	"fmt"
	"math"
	"time"
)

// Observation is one year's reading for the sampled calendar day.
type Observation struct {
	Year        int     `json:"year"`
	MaxTempC    float64 `json:"max_temp_c"`
	MinTempC    float64 `json:"min_temp_c"`
	RainMM      float64 `json:"rain_mm"`
	WindSpeedMS float64 `json:"wind_speed_ms"`
	Humidex     float64 `json:"humidex"`
}

// Sample is the multi-year history of a single calendar day at a coordinate.
type Sample struct {
	Lat          float64       `json:"lat"`
	Lon          float64       `json:"lon"`
	Month        int           `json:"month"`
	Day          int           `json:"day"`
	Observations []Observation `json:"observations"`
}

// DefaultHistoryYears is the canonical sample span.
const DefaultHistoryYears = 30

// Len returns the number of observations.
func (s Sample) Len() int {
	return len(s.Observations)
}

// Validate checks the provider contract: exactly span observations covering
// [current-span, current-1] in order, with non-negative rain and wind and
// finite values throughout. Violations wrap ErrDataUnavailable.
func (s Sample) Validate(span int) error {
	if len(s.Observations) != span {
		return fmt.Errorf("%w: expected %d observations, got %d", ErrDataUnavailable, span, len(s.Observations))
	}
	first, _ := HistoryYears(span)
	for i, o := range s.Observations {
		if o.Year != first+i {
			return fmt.Errorf("%w: observation %d has year %d, want %d", ErrDataUnavailable, i, o.Year, first+i)
		}
		if !finite(o.MaxTempC, o.MinTempC, o.RainMM, o.WindSpeedMS, o.Humidex) {
			return fmt.Errorf("%w: non-finite value in year %d", ErrDataUnavailable, o.Year)
		}
		if o.RainMM < 0 || o.WindSpeedMS < 0 {
			return fmt.Errorf("%w: negative rain or wind in year %d", ErrDataUnavailable, o.Year)
		}
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ValidateCalendarDay rejects month/day pairs that never occur. February 29
// is accepted; providers decide how to sample it in common years.
func ValidateCalendarDay(month, day int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d out of range", ErrDataUnavailable, month)
	}
	// 2024 is a leap year, so this admits Feb 29.
	last := time.Date(2024, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day < 1 || day > last {
		return fmt.Errorf("%w: day %d out of range for month %d", ErrDataUnavailable, day, month)
	}
	return nil
}
