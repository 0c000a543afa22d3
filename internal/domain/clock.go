package domain

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// clock backs Now and HistoryYears; tests freeze it with SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time {
	return clock.Now()
}

// HistoryYears returns the inclusive year range of a sample spanning the given
// number of years, ending the year before the current one.
func HistoryYears(span int) (first, last int) {
	current := clock.Now().Year()
	return current - span, current - 1
}

// MinLeadDays is the planning horizon callers enforce before requesting odds.
const MinLeadDays = 30

// CheckLeadTime reports ErrTargetTooSoon when target is fewer than minDays
// calendar days after today. The engine never calls this; it belongs to callers.
func CheckLeadTime(target time.Time, minDays int) error {
	now := clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	earliest := today.AddDate(0, 0, minDays)
	if day.Before(earliest) {
		return fmt.Errorf("%w: %s is before %s", ErrTargetTooSoon, day.Format(time.DateOnly), earliest.Format(time.DateOnly))
	}
	return nil
}
