package domain

import "errors"

var (
	// ErrDataUnavailable means the provider could not produce a complete sample
	// (upstream outage, invalid coordinate, unsupported calendar day).
	ErrDataUnavailable = errors.New("historical data unavailable")

	// ErrEmptySample means zero observations reached the engine.
	ErrEmptySample = errors.New("sample has no observations")

	// ErrInsufficientTrendData means the sample spans fewer than two distinct years.
	ErrInsufficientTrendData = errors.New("insufficient data for trend")

	// ErrInvalidThreshold means a caller-supplied threshold is outside its accepted range.
	ErrInvalidThreshold = errors.New("invalid threshold")

	// ErrLocationNotFound means a location name could not be resolved to coordinates.
	ErrLocationNotFound = errors.New("location not found")

	// ErrInvalidRequest means a request is malformed beyond a single bad threshold.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTargetTooSoon means the requested date is closer than the planning lead time.
	ErrTargetTooSoon = errors.New("target date too soon")
)

// Stable machine-readable codes for failures, used in HTTP and Kafka responses.
const (
	CodeDataUnavailable       = "data_unavailable"
	CodeEmptySample           = "empty_sample"
	CodeInsufficientTrendData = "insufficient_trend_data"
	CodeInvalidThreshold      = "invalid_threshold"
	CodeLocationNotFound      = "location_not_found"
	CodeTargetTooSoon         = "target_too_soon"
	CodeInvalidRequest        = "invalid_request"
	CodeInternal              = "internal"
)

// ErrorCode maps an error to its stable code. Unknown errors map to CodeInternal.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDataUnavailable):
		return CodeDataUnavailable
	case errors.Is(err, ErrEmptySample):
		return CodeEmptySample
	case errors.Is(err, ErrInsufficientTrendData):
		return CodeInsufficientTrendData
	case errors.Is(err, ErrInvalidThreshold):
		return CodeInvalidThreshold
	case errors.Is(err, ErrLocationNotFound):
		return CodeLocationNotFound
	case errors.Is(err, ErrTargetTooSoon):
		return CodeTargetTooSoon
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	default:
		return CodeInternal
	}
}
