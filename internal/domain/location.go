package domain

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinate is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate rejects coordinates outside the globe or non-finite values.
func (c Coordinate) Validate() error {
	if !finite(c.Lat, c.Lon) || math.Abs(c.Lat) > 90 || math.Abs(c.Lon) > 180 {
		return fmt.Errorf("%w: invalid coordinate (%v, %v)", ErrDataUnavailable, c.Lat, c.Lon)
	}
	return nil
}

// Place is a resolved location name.
type Place struct {
	Coordinate
	DisplayName string `json:"display_name"`
}

// Resolver turns a free-text location into a Place. Implementations return an
// error wrapping ErrLocationNotFound when the name cannot be resolved.
type Resolver interface {
	Resolve(ctx context.Context, name string) (Place, error)
}

// ParseCoordinates parses a literal "lat,lon" string. ok is false when the
// input is not of that form.
func ParseCoordinates(s string) (Coordinate, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinate{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, false
	}
	c := Coordinate{Lat: lat, Lon: lon}
	if c.Validate() != nil {
		return Coordinate{}, false
	}
	return c, true
}

// FormatCoordinate renders a coordinate as a display name.
func FormatCoordinate(c Coordinate) string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
}
