package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	redis "github.com/go-redis/redis/v8"

	"github.com/splitsmart/splitsmart/internal/money"
)

// RedisConfig is the redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache implements BalanceCache backed by redis, for deployments
// with more than one API process. Cache failures are logged and treated
// as misses; the store remains the source of truth.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a redis-backed balance cache.
func NewRedisCache(cfg RedisConfig, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: ttl,
	}
}

func balanceKey(groupID string) string {
	return "balances:" + groupID
}

// Get returns the cached balances for a group, or false on a miss.
func (c *RedisCache) Get(ctx context.Context, groupID string) (map[string]money.Cents, bool) {
	val, err := c.client.Get(ctx, balanceKey(groupID)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("Balance cache read failed", "group_id", groupID, "error", err)
		return nil, false
	}

	var balances map[string]money.Cents
	if err := json.Unmarshal([]byte(val), &balances); err != nil {
		slog.Warn("Balance cache entry corrupt", "group_id", groupID, "error", err)
		return nil, false
	}
	return balances, true
}

// Set stores the balances for a group.
func (c *RedisCache) Set(ctx context.Context, groupID string, balances map[string]money.Cents) {
	value, err := json.Marshal(balances)
	if err != nil {
		slog.Warn("Balance cache encode failed", "group_id", groupID, "error", err)
		return
	}
	if err := c.client.Set(ctx, balanceKey(groupID), value, c.ttl).Err(); err != nil {
		slog.Warn("Balance cache write failed", "group_id", groupID, "error", err)
	}
}

// Invalidate drops the cached entry for a group.
func (c *RedisCache) Invalidate(ctx context.Context, groupID string) {
	if err := c.client.Del(ctx, balanceKey(groupID)).Err(); err != nil {
		slog.Warn("Balance cache invalidate failed", "group_id", groupID, "error", err)
	}
}

// Close releases the redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
