package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stocklens-io/stocklens/internal/config"
	"github.com/stocklens-io/stocklens/internal/domain"
)

const (
	forecastKeyPrefix = "forecast:results"
	forecastScanBatch = 100
)

// ForecastCache keeps recently computed forecast lists so repeated dashboard
// loads do not re-run the per-product sales queries. Results are keyed by
// the engine's tuning windows: different windows are different forecasts.
type ForecastCache interface {
	Get(ctx context.Context, lookbackDays, targetDays int) ([]domain.Forecast, bool, error)
	Set(ctx context.Context, lookbackDays, targetDays int, forecasts []domain.Forecast) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{client: client, ttl: ttl}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) Get(ctx context.Context, lookbackDays, targetDays int) ([]domain.Forecast, bool, error) {
	payload, err := c.client.Get(ctx, forecastKey(lookbackDays, targetDays)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var forecasts []domain.Forecast
	if err := json.Unmarshal(payload, &forecasts); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}

	return forecasts, true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, lookbackDays, targetDays int, forecasts []domain.Forecast) error {
	payload, err := json.Marshal(forecasts)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, forecastKey(lookbackDays, targetDays), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastKeyPrefix, forecastScanBatch)
}

func (n *noopForecastCache) Get(ctx context.Context, lookbackDays, targetDays int) ([]domain.Forecast, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) Set(ctx context.Context, lookbackDays, targetDays int, forecasts []domain.Forecast) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func forecastKey(lookbackDays, targetDays int) string {
	return fmt.Sprintf("%s:%dd:%dd", forecastKeyPrefix, lookbackDays, targetDays)
}
