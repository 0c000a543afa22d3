package domain

import "context"

// SampleProvider returns the multi-year history of one calendar day at a
// coordinate. Implementations return exactly the configured number of
// observations for the years preceding the current year, or an error wrapping
// ErrDataUnavailable.
type SampleProvider interface {
	Fetch(ctx context.Context, lat, lon float64, month, day int) (Sample, error)
}
