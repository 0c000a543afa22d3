package domain

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// AnalysisResult is the reduction of a Sample against a set of Thresholds.
// Values are unrounded; rounding is a display concern.
type AnalysisResult struct {
	SampleSize      int                   `json:"sample_size"`
	MeanMaxTempC    float64               `json:"mean_max_temp_c"`
	MeanRainMM      float64               `json:"mean_rain_mm"`
	TrendCPerDecade float64               `json:"trend_c_per_decade"`
	Probabilities   map[Condition]float64 `json:"probabilities"`
}

// Analyze counts threshold exceedances per condition, fits a least-squares
// trend of max temperature against year and computes summary means.
//
// It fails with ErrEmptySample for an empty sample, ErrInvalidThreshold for
// out-of-range thresholds and ErrInsufficientTrendData when the sample spans
// fewer than two distinct years.
func Analyze(sample Sample, t Thresholds) (AnalysisResult, error) {
	n := len(sample.Observations)
	if n == 0 {
		return AnalysisResult{}, ErrEmptySample
	}
	if err := t.Validate(); err != nil {
		return AnalysisResult{}, err
	}

	years := make([]float64, n)
	maxTemps := make([]float64, n)
	rain := make([]float64, n)
	counts := make([]int, len(conditionRules))
	distinct := make(map[int]struct{}, n)

	for i, o := range sample.Observations {
		years[i] = float64(o.Year)
		maxTemps[i] = o.MaxTempC
		rain[i] = o.RainMM
		distinct[o.Year] = struct{}{}
		for j, rule := range conditionRules {
			if rule.exceeds(o, t) {
				counts[j]++
			}
		}
	}

	if len(distinct) < 2 {
		return AnalysisResult{}, fmt.Errorf("%w: sample covers %d distinct year", ErrInsufficientTrendData, len(distinct))
	}

	probs := make(map[Condition]float64, len(conditionRules))
	for j, rule := range conditionRules {
		probs[rule.condition] = float64(counts[j]) / float64(n)
	}

	_, slope := stat.LinearRegression(years, maxTemps, nil, false)

	return AnalysisResult{
		SampleSize:      n,
		MeanMaxTempC:    stat.Mean(maxTemps, nil),
		MeanRainMM:      stat.Mean(rain, nil),
		TrendCPerDecade: slope * 10,
		Probabilities:   probs,
	}, nil
}

// Probability returns the exceedance probability for c, or 0 if absent.
func (r AnalysisResult) Probability(c Condition) float64 {
	return r.Probabilities[c]
}

// Risks classifies every condition's probability.
func (r AnalysisResult) Risks() map[Condition]Risk {
	out := make(map[Condition]Risk, len(r.Probabilities))
	for c, p := range r.Probabilities {
		out[c] = Classify(p)
	}
	return out
}

// HighestRisk returns the condition with the largest probability. Ties go to
// the condition listed first in Conditions.
func (r AnalysisResult) HighestRisk() (Condition, float64) {
	var (
		best  Condition
		bestP = -1.0
	)
	for _, c := range Conditions() {
		p, ok := r.Probabilities[c]
		if !ok {
			continue
		}
		if p > bestP {
			best, bestP = c, p
		}
	}
	if bestP < 0 {
		return "", 0
	}
	return best, bestP
}
