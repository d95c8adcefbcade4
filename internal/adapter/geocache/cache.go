// Package geocache memoizes dataset geometry. Reference tables change only
// when a dataset is republished, so a process-lifetime cache is safe.
package geocache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/fire-spread-service/internal/domain"
	"github.com/couchcryptid/fire-spread-service/internal/observability"
)

// CachedGeometry wraps a GeometrySource with an in-memory LRU cache.
type CachedGeometry struct {
	inner   domain.GeometrySource
	cache   *lru.Cache[string, domain.Geometry]
	metrics *observability.Metrics
}

// New creates a cache decorator holding up to maxEntries datasets.
func New(inner domain.GeometrySource, maxEntries int, metrics *observability.Metrics) (*CachedGeometry, error) {
	cache, err := lru.New[string, domain.Geometry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("geometry cache: %w", err)
	}
	return &CachedGeometry{inner: inner, cache: cache, metrics: metrics}, nil
}

func (c *CachedGeometry) Geometry(ctx context.Context, dataset string) domain.Geometry {
	if geo, ok := c.cache.Get(dataset); ok {
		c.metrics.GeometryCache.WithLabelValues("hit").Inc()
		return geo
	}
	c.metrics.GeometryCache.WithLabelValues("miss").Inc()

	geo := c.inner.Geometry(ctx, dataset)
	// Unavailable geometry is not cached so a table published later is picked up.
	if geo.Available() {
		c.cache.Add(dataset, geo)
	}
	return geo
}

// Len returns the number of cached datasets.
func (c *CachedGeometry) Len() int { return c.cache.Len() }
