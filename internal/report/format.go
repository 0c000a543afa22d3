// Package report turns analysis results into human-readable text. It only
// formats and rounds; every probability and trend comes from the engine.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/couchcryptid/parade-odds/internal/domain"
)

// StableTrendBand is the half-width around zero reported as "Stable".
const StableTrendBand = 0.05

// FormatProbability renders p as a whole percentage, e.g. 0.234 -> "23%".
func FormatProbability(p float64) string {
	return fmt.Sprintf("%d%%", int(math.RoundToEven(p*100)))
}

// RiskLabel names the risk band of p, e.g. "High Risk".
func RiskLabel(p float64) string {
	return domain.Classify(p).String() + " Risk"
}

// TrendTone tells a renderer how to colour a trend.
type TrendTone int

const (
	ToneNeutral TrendTone = iota
	// ToneWarning marks a warming trend.
	ToneWarning
)

// FormatTrend renders a °C-per-decade trend rounded to two decimals. Values
// within StableTrendBand of zero read "Stable".
func FormatTrend(trend float64) (string, TrendTone) {
	switch {
	case trend > StableTrendBand:
		return fmt.Sprintf("+%s°C", trimFloat(Round(trend, 2))), ToneWarning
	case trend < -StableTrendBand:
		return fmt.Sprintf("%s°C", trimFloat(Round(trend, 2))), ToneNeutral
	default:
		return "Stable", ToneNeutral
	}
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// ConditionTitle turns a condition name into title case, e.g. "Very Hot".
func ConditionTitle(c domain.Condition) string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ConditionLabel describes a condition with its threshold, e.g.
// "Very Hot (>30°C)".
func ConditionLabel(c domain.Condition, t domain.Thresholds) string {
	switch c {
	case domain.VeryHot:
		return fmt.Sprintf("Very Hot (>%s°C)", trimFloat(t.HotC))
	case domain.VeryCold:
		return fmt.Sprintf("Very Cold (<%s°C)", trimFloat(t.ColdC))
	case domain.VeryWet:
		return fmt.Sprintf("Very Wet (>%smm Rain)", trimFloat(t.RainMM))
	case domain.VeryWindy:
		return fmt.Sprintf("Very Windy (>%s m/s)", trimFloat(domain.WindThresholdMS))
	case domain.VeryUncomfortable:
		return fmt.Sprintf("Very Uncomfortable (Humidex >%s)", trimFloat(domain.HumidexThreshold))
	default:
		return ConditionTitle(c)
	}
}

func trimFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
