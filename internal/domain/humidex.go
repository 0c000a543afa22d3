package domain

import "math"

// Humidex combines air temperature and dew point (both °C) into the Canadian
// humidex discomfort index.
func Humidex(tempC, dewPointC float64) float64 {
	vapour := 6.11 * math.Exp(5417.7530*(1/273.16-1/(273.15+dewPointC)))
	return tempC + 0.5555*(vapour-10.0)
}
