package domain

import "fmt"

// Risk is a coarse band for an exceedance probability.
type Risk int

const (
	RiskLow Risk = iota
	RiskModerate
	RiskHigh
)

// Band lower bounds. A probability equal to a bound belongs to the higher band.
const (
	ModerateRiskFloor = 0.15
	HighRiskFloor     = 0.35
)

// Classify maps a probability to its risk band.
func Classify(p float64) Risk {
	switch {
	case p >= HighRiskFloor:
		return RiskHigh
	case p >= ModerateRiskFloor:
		return RiskModerate
	default:
		return RiskLow
	}
}

func (r Risk) String() string {
	switch r {
	case RiskLow:
		return "Low"
	case RiskModerate:
		return "Moderate"
	case RiskHigh:
		return "High"
	default:
		return fmt.Sprintf("Risk(%d)", int(r))
	}
}

// MarshalText encodes the band as its name, e.g. "High".
func (r Risk) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a band name.
func (r *Risk) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Low":
		*r = RiskLow
	case "Moderate":
		*r = RiskModerate
	case "High":
		*r = RiskHigh
	default:
		return fmt.Errorf("unknown risk %q", b)
	}
	return nil
}
