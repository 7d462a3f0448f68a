package optimizer

import (
	"context"
	"log/slog"

	"github.com/dharmasatrya/smarttrip/internal/cache"
	"github.com/dharmasatrya/smarttrip/internal/metrics"
	"github.com/dharmasatrya/smarttrip/internal/models"
)

const availableDatesKey = "trip:" + EndpointAvailableDates

// CachedClient answers repeated identical requests from a cache. Only
// successful, validated answers are stored.
type CachedClient struct {
	next   Client
	cache  cache.Cache
	logger *slog.Logger
}

func NewCachedClient(next Client, c cache.Cache, logger *slog.Logger) *CachedClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedClient{
		next:   next,
		cache:  c,
		logger: logger,
	}
}

func (c *CachedClient) AvailableDates(ctx context.Context) (*models.AvailableDates, error) {
	var cached models.AvailableDates
	if c.cache.Get(ctx, availableDatesKey, &cached) {
		metrics.CacheHits.WithLabelValues(EndpointAvailableDates).Inc()
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues(EndpointAvailableDates).Inc()

	out, err := c.next.AvailableDates(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, availableDatesKey, out)
	return out, nil
}

func (c *CachedClient) Optimize(ctx context.Context, req models.TripRequest) (*models.TripResultLeg, error) {
	key := cache.RequestKey(EndpointOptimize, req)

	var cached models.TripResultLeg
	if c.cache.Get(ctx, key, &cached) {
		metrics.CacheHits.WithLabelValues(EndpointOptimize).Inc()
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues(EndpointOptimize).Inc()

	out, err := c.next.Optimize(ctx, req)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

func (c *CachedClient) OptimizeMultiple(ctx context.Context, req models.TripRequest) (*models.MultiOptionResult, error) {
	key := cache.RequestKey(EndpointOptimizeMultiple, req)

	var cached models.MultiOptionResult
	if c.cache.Get(ctx, key, &cached) {
		metrics.CacheHits.WithLabelValues(EndpointOptimizeMultiple).Inc()
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues(EndpointOptimizeMultiple).Inc()

	out, err := c.next.OptimizeMultiple(ctx, req)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

func (c *CachedClient) store(ctx context.Context, key string, value any) {
	if err := c.cache.Set(ctx, key, value); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
