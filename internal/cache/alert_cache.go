package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopops/opsdash/backend-go/internal/config"
	"github.com/shopops/opsdash/backend-go/internal/domain"
)

const (
	lowStockKeyPrefix     = "alerts:low_stock"
	lowStockScanBatchSize = 100
)

// AlertCache caches computed low-stock alert lists per vendor filter. Alert
// runs re-read the whole sales window, so a short TTL saves the dashboard
// from recomputing on every poll.
type AlertCache interface {
	GetAlerts(ctx context.Context, vendor string) ([]domain.LowStockAlert, bool, error)
	SetAlerts(ctx context.Context, vendor string, alerts []domain.LowStockAlert) error
	InvalidateAll(ctx context.Context) error
}

type redisAlertCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopAlertCache struct{}

func NewAlertCache(cfg config.CacheConfig) (AlertCache, error) {
	if !cfg.Enabled {
		return &noopAlertCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisAlertCache{client: client, ttl: ttl}, nil
}

func NewNoopAlertCache() AlertCache {
	return &noopAlertCache{}
}

func (c *redisAlertCache) GetAlerts(ctx context.Context, vendor string) ([]domain.LowStockAlert, bool, error) {
	payload, err := c.client.Get(ctx, buildLowStockKey(vendor)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var alerts []domain.LowStockAlert
	if err := json.Unmarshal(payload, &alerts); err != nil {
		return nil, false, fmt.Errorf("decode low stock alert cache: %w", err)
	}

	return alerts, true, nil
}

func (c *redisAlertCache) SetAlerts(ctx context.Context, vendor string, alerts []domain.LowStockAlert) error {
	payload, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("encode low stock alert cache: %w", err)
	}

	if err := c.client.Set(ctx, buildLowStockKey(vendor), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisAlertCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, lowStockKeyPrefix, lowStockScanBatchSize)
}

func (n *noopAlertCache) GetAlerts(ctx context.Context, vendor string) ([]domain.LowStockAlert, bool, error) {
	return nil, false, nil
}

func (n *noopAlertCache) SetAlerts(ctx context.Context, vendor string, alerts []domain.LowStockAlert) error {
	return nil
}

func (n *noopAlertCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildLowStockKey(vendor string) string {
	vendor = strings.ToLower(strings.TrimSpace(vendor))
	if vendor == "" {
		vendor = "all"
	}
	return fmt.Sprintf("%s:%s", lowStockKeyPrefix, vendor)
}
