// Package cache keeps the capital's last known alert status in Redis so a
// flip that happens while the service is down is still announced after
// restart. The alert snapshot itself is never persisted.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const capitalStatusKey = "airalert:capital_status"

type Cache struct {
	Client *redis.Client
}

func New(redisURL string) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Cache{Client: client}, nil
}

func (c *Cache) Close() error {
	return c.Client.Close()
}

// SetCapitalStatus records the capital's current alert status.
func (c *Cache) SetCapitalStatus(ctx context.Context, isAlert bool) error {
	val := "0"
	if isAlert {
		val = "1"
	}
	return c.Client.Set(ctx, capitalStatusKey, val, 0).Err()
}

// GetCapitalStatus returns the stored capital status, or nil when nothing has
// been recorded yet.
func (c *Cache) GetCapitalStatus(ctx context.Context) (*bool, error) {
	val, err := c.Client.Get(ctx, capitalStatusKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	isAlert := val == "1"
	return &isAlert, nil
}
