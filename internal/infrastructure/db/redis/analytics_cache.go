package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Goodness-MArcel/oasis/internal/api/metrics"
	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

const defaultAnalyticsTTL = time.Minute

// AnalyticsCache stores rendered analytics reports as JSON.
// Key format: analytics:report:<YYYY-MM-DD>:<range_days>, dated in UTC so a
// report never outlives the day its last traffic label belongs to.
type AnalyticsCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewAnalyticsCache(client *redis.Client, ttl time.Duration) *AnalyticsCache {
	if ttl <= 0 {
		ttl = defaultAnalyticsTTL
	}
	return &AnalyticsCache{client: client, ttl: ttl, now: time.Now}
}

func (c *AnalyticsCache) Get(ctx context.Context, rangeDays int) (*domain.AnalyticsReport, bool, error) {
	raw, err := c.client.Get(ctx, c.key(rangeDays)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.AnalyticsCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.AnalyticsCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("analytics cache get: %w", err)
	}

	var report domain.AnalyticsReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, false, fmt.Errorf("analytics cache decode: %w", err)
	}
	metrics.AnalyticsCacheTotal.WithLabelValues("hit").Inc()
	return &report, true, nil
}

func (c *AnalyticsCache) Set(ctx context.Context, rangeDays int, report *domain.AnalyticsReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("analytics cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(rangeDays), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("analytics cache set: %w", err)
	}
	return nil
}

func (c *AnalyticsCache) key(rangeDays int) string {
	return fmt.Sprintf("analytics:report:%s:%d", c.now().UTC().Format(time.DateOnly), rangeDays)
}
