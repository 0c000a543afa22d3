package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/parade-odds/internal/domain"
	"github.com/couchcryptid/parade-odds/internal/observability"
)

// Client implements domain.Resolver using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/geocoding/v5/mapbox.places",
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve forward-geocodes a free-text location. No match yields an error
// wrapping domain.ErrLocationNotFound.
func (c *Client) Resolve(ctx context.Context, name string) (domain.Place, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return domain.Place{}, fmt.Errorf("%w: empty name", domain.ErrLocationNotFound)
	}

	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(query))
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"place,locality,address,poi"},
	}

	f, ok, err := c.doRequest(ctx, u+"?"+params.Encode())
	if err != nil {
		return domain.Place{}, err
	}
	if !ok || len(f.Center) != 2 {
		return domain.Place{}, fmt.Errorf("%w: %q", domain.ErrLocationNotFound, name)
	}
	return domain.Place{
		Coordinate:  domain.Coordinate{Lat: f.Center[1], Lon: f.Center[0]},
		DisplayName: f.PlaceName,
	}, nil
}

// Name reverse-geocodes a coordinate into a display name. An empty string with
// a nil error means Mapbox knows no place there.
func (c *Client) Name(ctx context.Context, coord domain.Coordinate) (string, error) {
	// Mapbox uses lon,lat order.
	u := fmt.Sprintf("%s/%.6f,%.6f.json", c.baseURL, coord.Lon, coord.Lat)
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
	}

	f, ok, err := c.doRequest(ctx, u+"?"+params.Encode())
	if err != nil || !ok {
		return "", err
	}
	return f.PlaceName, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (feature, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return feature{}, false, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return feature{}, false, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return feature{}, false, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return feature{}, false, fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		c.logger.Debug("mapbox returned no features")
		return feature{}, false, nil
	}

	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return mapboxResp.Features[0], true, nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Relevance float64   `json:"relevance"`
}
