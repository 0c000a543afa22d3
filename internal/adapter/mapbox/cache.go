package mapbox

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/parade-odds/internal/domain"
	"github.com/couchcryptid/parade-odds/internal/observability"
	"github.com/patrickmn/go-cache"
)

// geocoder is the subset of Client that CachedClient decorates.
type geocoder interface {
	Resolve(ctx context.Context, name string) (domain.Place, error)
	Name(ctx context.Context, coord domain.Coordinate) (string, error)
}

// CachedClient wraps a geocoder with an in-memory TTL cache. Only successful
// lookups are cached, so misses and upstream errors are retried next time.
type CachedClient struct {
	inner   geocoder
	cache   *cache.Cache
	metrics *observability.Metrics
}

// NewCachedClient creates a cache decorator whose entries live for ttl.
func NewCachedClient(inner geocoder, ttl time.Duration, metrics *observability.Metrics) *CachedClient {
	return &CachedClient{
		inner:   inner,
		cache:   cache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

func (c *CachedClient) Resolve(ctx context.Context, name string) (domain.Place, error) {
	key := "fwd:" + strings.ToLower(strings.TrimSpace(name))
	if v, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return v.(domain.Place), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	place, err := c.inner.Resolve(ctx, name)
	if err != nil {
		return place, err
	}
	c.cache.Set(key, place, cache.DefaultExpiration)
	return place, nil
}

func (c *CachedClient) Name(ctx context.Context, coord domain.Coordinate) (string, error) {
	key := fmt.Sprintf("rev:%.6f,%.6f", coord.Lat, coord.Lon)
	if v, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return v.(string), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	name, err := c.inner.Name(ctx, coord)
	if err != nil {
		return name, err
	}
	if name != "" {
		c.cache.Set(key, name, cache.DefaultExpiration)
	}
	return name, nil
}
