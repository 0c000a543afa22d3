package report

import (
	"time"

	"github.com/couchcryptid/parade-odds/internal/domain"
)

// EarliestTargetDate is the first date a user may plan for.
func EarliestTargetDate() time.Time {
	now := domain.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, domain.MinLeadDays)
}

// ValidateTargetDate rejects dates inside the planning lead time.
func ValidateTargetDate(d time.Time) error {
	return domain.CheckLeadTime(d, domain.MinLeadDays)
}
