package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPriceCache keeps the last good price per symbol in a Redis hash so a
// restarted worker starts from a warm price map.
type RedisPriceCache struct {
	client *redis.Client
	key    string
}

// NewRedisPriceCache creates a Redis-backed price cache.
func NewRedisPriceCache(opts ...RedisOption) (*RedisPriceCache, error) {
	cfg := &RedisConfig{
		Addr:         "localhost:6379",
		DB:           0,
		PoolSize:     10,
		PoolTimeout:  30 * time.Second,
		MinIdleConns: 5,
		Prefix:       "entryfeed",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		PoolTimeout:  cfg.PoolTimeout,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisPriceCache{
		client: client,
		key:    cfg.Prefix + ":prices",
	}, nil
}

// Fill merges the given prices into the backing hash.
func (c *RedisPriceCache) Fill(ctx context.Context, prices map[string]float64) error {
	if len(prices) == 0 {
		return nil
	}
	fields := make([]interface{}, 0, len(prices)*2)
	for sym, v := range prices {
		if v > 0 {
			fields = append(fields, sym, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	if len(fields) == 0 {
		return nil
	}
	if err := c.client.HSet(ctx, c.key, fields...).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// Snapshot returns all cached prices.
func (c *RedisPriceCache) Snapshot(ctx context.Context) (map[string]float64, error) {
	raw, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	out := make(map[string]float64, len(raw))
	for sym, s := range raw {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
			out[sym] = v
		}
	}
	return out, nil
}

// Close releases the Redis connection.
func (c *RedisPriceCache) Close() error {
	return c.client.Close()
}
