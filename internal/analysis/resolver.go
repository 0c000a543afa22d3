package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/parade-odds/internal/domain"
)

// Geocoder is a live resolver that can also name a coordinate.
type Geocoder interface {
	domain.Resolver
	Name(ctx context.Context, coord domain.Coordinate) (string, error)
}

// ChainResolver tries, in order: a literal "lat,lon" string, the live
// geocoder (if configured) and the fallback table. A name nobody knows is an
// ErrLocationNotFound failure; there is no default location.
type ChainResolver struct {
	geocoder Geocoder
	fallback domain.Resolver
	logger   *slog.Logger
}

// NewChainResolver builds a resolver chain. geocoder may be nil.
func NewChainResolver(geocoder Geocoder, fallback domain.Resolver, logger *slog.Logger) *ChainResolver {
	return &ChainResolver{geocoder: geocoder, fallback: fallback, logger: logger}
}

func (r *ChainResolver) Resolve(ctx context.Context, name string) (domain.Place, error) {
	if coord, ok := domain.ParseCoordinates(name); ok {
		return domain.Place{Coordinate: coord, DisplayName: r.nameCoordinate(ctx, coord)}, nil
	}

	var liveErr error
	if r.geocoder != nil {
		place, err := r.geocoder.Resolve(ctx, name)
		if err == nil {
			return place, nil
		}
		liveErr = err
		if !errors.Is(err, domain.ErrLocationNotFound) {
			r.logger.Warn("geocoder failed, trying fallback", "location", name, "error", err)
		}
	}

	place, err := r.fallback.Resolve(ctx, name)
	if err == nil {
		return place, nil
	}
	if liveErr != nil && !errors.Is(liveErr, domain.ErrLocationNotFound) {
		return domain.Place{}, fmt.Errorf("%w: %q (geocoder: %v)", domain.ErrLocationNotFound, name, liveErr)
	}
	return domain.Place{}, err
}

func (r *ChainResolver) nameCoordinate(ctx context.Context, coord domain.Coordinate) string {
	if r.geocoder != nil {
		name, err := r.geocoder.Name(ctx, coord)
		if err != nil {
			r.logger.Warn("reverse geocode failed", "lat", coord.Lat, "lon", coord.Lon, "error", err)
		}
		if name != "" {
			return name
		}
	}
	return domain.FormatCoordinate(coord)
}
