//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/parade-odds/internal/domain"
	"github.com/couchcryptid/parade-odds/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.mapbox.com/geocoding/v5/mapbox.places",
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_Resolve(t *testing.T) {
	c := smokeClient(t)

	place, err := c.Resolve(context.Background(), "Tokyo, Japan")
	require.NoError(t, err)

	assert.InDelta(t, 35.68, place.Lat, 0.2, "lat should be near Tokyo")
	assert.InDelta(t, 139.69, place.Lon, 0.2, "lon should be near Tokyo")
	assert.Contains(t, place.DisplayName, "Tokyo")
}

func TestSmoke_Name(t *testing.T) {
	c := smokeClient(t)

	name, err := c.Name(context.Background(), domain.Coordinate{Lat: 37.7749, Lon: -122.4194})
	require.NoError(t, err)
	assert.Contains(t, name, "San Francisco")
}
