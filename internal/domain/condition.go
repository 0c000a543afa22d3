package domain

// Condition names an adverse-weather category.
type Condition string

const (
	VeryHot           Condition = "very_hot"
	VeryCold          Condition = "very_cold"
	VeryWet           Condition = "very_wet"
	VeryWindy         Condition = "very_windy"
	VeryUncomfortable Condition = "very_uncomfortable"
)

// Fixed limits for the non-personalised conditions.
const (
	WindThresholdMS  = 12.0
	HumidexThreshold = 35.0
)

type conditionRule struct {
	condition Condition
	exceeds   func(o Observation, t Thresholds) bool
}

// conditionRules is ordered; the order breaks ties in HighestRisk.
var conditionRules = []conditionRule{
	{VeryHot, func(o Observation, t Thresholds) bool { return o.MaxTempC > t.HotC }},
	{VeryCold, func(o Observation, t Thresholds) bool { return o.MinTempC < t.ColdC }},
	{VeryWet, func(o Observation, t Thresholds) bool { return o.RainMM > t.RainMM }},
	{VeryWindy, func(o Observation, _ Thresholds) bool { return o.WindSpeedMS > WindThresholdMS }},
	{VeryUncomfortable, func(o Observation, _ Thresholds) bool { return o.Humidex > HumidexThreshold }},
}

// Conditions returns every condition in canonical order.
func Conditions() []Condition {
	out := make([]Condition, len(conditionRules))
	for i, r := range conditionRules {
		out[i] = r.condition
	}
	return out
}
