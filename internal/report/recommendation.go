package report

import (
	"fmt"

	"github.com/couchcryptid/parade-odds/internal/domain"
)

// Recommendation is the actionable advice derived from the riskiest condition.
type Recommendation struct {
	Level       domain.Risk      `json:"level"`
	Condition   domain.Condition `json:"condition,omitempty"`
	Probability float64          `json:"probability"`
	Text        string           `json:"text"`
}

// Recommend picks the highest-risk condition and phrases advice for its band.
func Recommend(result domain.AnalysisResult) Recommendation {
	c, p := result.HighestRisk()
	rec := Recommendation{Level: domain.Classify(p), Condition: c, Probability: p}

	switch rec.Level {
	case domain.RiskHigh:
		rec.Text = fmt.Sprintf("High-Risk Alert: the highest risk is %s (%s). "+
			"Strongly consider an alternative date or location, or prepare comprehensive contingency plans such as cooling stations or indoor venues.",
			ConditionTitle(c), FormatProbability(p))
	case domain.RiskModerate:
		rec.Text = fmt.Sprintf("Moderate Risk: the highest risk is %s (%s). "+
			"Proceed with caution and have backup plans for that specific condition, e.g. heavy coats or wind barriers.",
			ConditionTitle(c), FormatProbability(p))
	default:
		rec.Text = "All conditions show Low Risk. Based on historical data, your date and location look promising! " +
			"Always check the short-term forecast closer to the date."
	}
	return rec
}
