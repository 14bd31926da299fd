package forecastsolar

import (
	"context"
	"time"

	"github.com/berfenger/solaredge2eink/internal/cache"
	"github.com/berfenger/solaredge2eink/internal/core/domain"
	"github.com/berfenger/solaredge2eink/internal/core/port"

	"go.uber.org/zap"
)

const CACHE_TTL = time.Hour

// Cached wraps a forecast source so it is called at most once per TTL.
// Failures are cached as well to honor the rate limit of the free tier.
type Cached struct {
	memo   *cache.TTL[*domain.ForecastSnapshot]
	logger *zap.Logger
}

func NewCached(source port.ForecastSource, ttl time.Duration, logger *zap.Logger) *Cached {
	memo := cache.NewTTL(ttl, source.Forecast)
	memo.CacheErrors = true
	return &Cached{
		memo:   memo,
		logger: logger,
	}
}

func (c *Cached) Forecast(ctx context.Context) (*domain.ForecastSnapshot, error) {
	if age, ok := c.memo.Age(); ok {
		c.logger.Debug("forecast cache lookup", zap.Duration("age", age))
	}
	return c.memo.Get(ctx)
}
