// Package gazetteer resolves a small built-in set of well-known city names
// without any network access.
package gazetteer

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/couchcryptid/parade-odds/internal/domain"
)

var builtin = map[string]domain.Place{
	"san francisco": {Coordinate: domain.Coordinate{Lat: 37.7749, Lon: -122.4194}, DisplayName: "San Francisco, CA"},
	"tokyo":         {Coordinate: domain.Coordinate{Lat: 35.6895, Lon: 139.6917}, DisplayName: "Tokyo, Japan"},
	"los angeles":   {Coordinate: domain.Coordinate{Lat: 34.0522, Lon: -118.2437}, DisplayName: "Los Angeles, CA"},
	"new york":      {Coordinate: domain.Coordinate{Lat: 40.7128, Lon: -74.0060}, DisplayName: "New York, NY"},
	"chicago":       {Coordinate: domain.Coordinate{Lat: 41.8781, Lon: -87.6298}, DisplayName: "Chicago, IL"},
	"london":        {Coordinate: domain.Coordinate{Lat: 51.5074, Lon: -0.1278}, DisplayName: "London, UK"},
	"paris":         {Coordinate: domain.Coordinate{Lat: 48.8566, Lon: 2.3522}, DisplayName: "Paris, France"},
	"sydney":        {Coordinate: domain.Coordinate{Lat: -33.8688, Lon: 151.2093}, DisplayName: "Sydney, Australia"},
	"toronto":       {Coordinate: domain.Coordinate{Lat: 43.6532, Lon: -79.3832}, DisplayName: "Toronto, Canada"},
	"mexico city":   {Coordinate: domain.Coordinate{Lat: 19.4326, Lon: -99.1332}, DisplayName: "Mexico City, Mexico"},
	"helsinki":      {Coordinate: domain.Coordinate{Lat: 60.1699, Lon: 24.9384}, DisplayName: "Helsinki, Finland"},
}

var aliases = map[string]string{
	"sf":  "san francisco",
	"la":  "los angeles",
	"nyc": "new york",
}

// Gazetteer is a domain.Resolver over the built-in table.
type Gazetteer struct{}

// New returns a Gazetteer.
func New() Gazetteer {
	return Gazetteer{}
}

// Resolve matches the whole name, then its first comma-separated part,
// case-insensitively. "Tokyo, Japan" and "tokyo" both resolve.
func (Gazetteer) Resolve(_ context.Context, name string) (domain.Place, error) {
	key := normalize(name)
	if p, ok := lookup(key); ok {
		return p, nil
	}
	if head, _, found := strings.Cut(key, ","); found {
		if p, ok := lookup(strings.TrimSpace(head)); ok {
			return p, nil
		}
	}
	return domain.Place{}, fmt.Errorf("%w: %q", domain.ErrLocationNotFound, name)
}

// Names lists the display names of the built-in places, sorted.
func Names() []string {
	out := make([]string, 0, len(builtin))
	for _, p := range builtin {
		out = append(out, p.DisplayName)
	}
	slices.Sort(out)
	return out
}

func lookup(key string) (domain.Place, bool) {
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	p, ok := builtin[key]
	return p, ok
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
