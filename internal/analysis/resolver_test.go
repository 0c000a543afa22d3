package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/couchcryptid/parade-odds/internal/adapter/gazetteer"
	"github.com/couchcryptid/parade-odds/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	place    domain.Place
	name     string
	err      error
	resolved []string
}

func (f *fakeGeocoder) Resolve(_ context.Context, name string) (domain.Place, error) {
	f.resolved = append(f.resolved, name)
	return f.place, f.err
}

func (f *fakeGeocoder) Name(context.Context, domain.Coordinate) (string, error) {
	return f.name, f.err
}

func TestChainResolver_Coordinates(t *testing.T) {
	r := NewChainResolver(nil, gazetteer.New(), discardLogger())
	p, err := r.Resolve(context.Background(), "48.8566,2.3522")
	require.NoError(t, err)
	assert.InDelta(t, 48.8566, p.Lat, 1e-9)
	assert.Equal(t, "48.8566, 2.3522", p.DisplayName)

	named := NewChainResolver(&fakeGeocoder{name: "Paris, France"}, gazetteer.New(), discardLogger())
	p, err = named.Resolve(context.Background(), "48.8566,2.3522")
	require.NoError(t, err)
	assert.Equal(t, "Paris, France", p.DisplayName)
}

func TestChainResolver_ReverseFailureFallsBackToCoordinates(t *testing.T) {
	r := NewChainResolver(&fakeGeocoder{err: errors.New("timeout")}, gazetteer.New(), discardLogger())
	p, err := r.Resolve(context.Background(), "10,20")
	require.NoError(t, err)
	assert.Equal(t, "10.0000, 20.0000", p.DisplayName)
}

func TestChainResolver_GeocoderFirst(t *testing.T) {
	geo := &fakeGeocoder{place: domain.Place{Coordinate: domain.Coordinate{Lat: 1, Lon: 2}, DisplayName: "Live Tokyo"}}
	r := NewChainResolver(geo, gazetteer.New(), discardLogger())

	p, err := r.Resolve(context.Background(), "Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "Live Tokyo", p.DisplayName)
	assert.Equal(t, []string{"Tokyo"}, geo.resolved)
}

func TestChainResolver_FallsBackToGazetteer(t *testing.T) {
	for _, geoErr := range []error{
		fmt.Errorf("%w: none", domain.ErrLocationNotFound),
		errors.New("mapbox API error: status 500"),
	} {
		r := NewChainResolver(&fakeGeocoder{err: geoErr}, gazetteer.New(), discardLogger())
		p, err := r.Resolve(context.Background(), "Tokyo")
		require.NoError(t, err)
		assert.Equal(t, "Tokyo, Japan", p.DisplayName)
	}
}

func TestChainResolver_NotFound(t *testing.T) {
	r := NewChainResolver(nil, gazetteer.New(), discardLogger())
	_, err := r.Resolve(context.Background(), "Atlantis")
	require.ErrorIs(t, err, domain.ErrLocationNotFound)

	failing := NewChainResolver(&fakeGeocoder{err: errors.New("status 503")}, gazetteer.New(), discardLogger())
	_, err = failing.Resolve(context.Background(), "Atlantis")
	require.ErrorIs(t, err, domain.ErrLocationNotFound)
	assert.Contains(t, err.Error(), "status 503")
}
