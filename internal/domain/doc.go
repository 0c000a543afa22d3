// Package domain models the historical climate odds engine.
//
// # Samples
//
// A [Sample] is a fixed calendar day (month/day) observed once per year over
// the most recent N years strictly preceding the current year:
//
//	N = 30, current year 2026  →  years 1996 … 2025
//
// Each [Observation] carries the daily maximum and minimum temperature (°C),
// total precipitation (mm), maximum wind speed (m/s) and a humidex value.
// Years are strictly increasing and never repeat.
//
// # Exceedance predicates
//
// Probabilities are the fraction of years whose observation crosses a
// threshold in the adverse direction. All comparisons are strict:
//
//	very_hot            max_temp_c    > hot_threshold_c     (user, 15…50)
//	very_cold           min_temp_c    < cold_threshold_c    (user, -20…25)
//	very_wet            rain_mm       > rain_threshold_mm   (user, 0…20)
//	very_windy          wind_speed_ms > 12                  (fixed)
//	very_uncomfortable  humidex       > 35                  (fixed)
//
// Only the three comfort axes are personalised. Wind and humidex limits live
// in the rule table in condition.go and are not part of [Thresholds].
//
// # Trend
//
// The long-term trend is the ordinary least-squares slope of max_temp_c
// against year, scaled by ten to read as °C per decade. A sample with fewer
// than two distinct years has no defined slope and [Analyze] fails with
// [ErrInsufficientTrendData] instead of reporting zero.
//
// # Risk bands
//
//	High      p ≥ 0.35
//	Moderate  0.15 ≤ p < 0.35
//	Low       p < 0.15
//
// # Humidex
//
// Live archive data does not publish humidex directly. It is derived from the
// daily maximum temperature and mean dew point with the Environment Canada
// formula, see [Humidex].
package domain
