package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/null-create/toolwatch/pkg/toolwatch"
)

// BaselineCache keeps baseline fingerprints in Redis. Used as an
// alternative to the file store when several checkers need to share one
// baseline set.
type BaselineCache struct {
	client *redis.Client
	ctx    context.Context
}

// NewBaselineCache creates a new Redis-backed baseline cache.
func NewBaselineCache(addr, password string, db int) *BaselineCache {
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,     // e.g. "redis:6379"
		Password: password, // empty string if no password
		DB:       db,       // 0 is default
	})

	return &BaselineCache{
		client: rdb,
		ctx:    ctx,
	}
}

func baselineKey(toolName string) string {
	return "toolwatch:baseline:" + toolName
}

// SetBaseline stores fp as the shared baseline for its tool. A zero ttl
// keeps the baseline until it is explicitly replaced or deleted.
func (c *BaselineCache) SetBaseline(fp toolwatch.Fingerprint, ttl time.Duration) error {
	data, err := json.Marshal(fp)
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}
	return c.client.Set(c.ctx, baselineKey(fp.ToolName), data, ttl).Err()
}

// GetBaseline retrieves the shared baseline for a tool. A cache miss
// returns (nil, nil).
func (c *BaselineCache) GetBaseline(toolName string) (*toolwatch.Fingerprint, error) {
	val, err := c.client.Get(c.ctx, baselineKey(toolName)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var fp toolwatch.Fingerprint
	if err := json.Unmarshal([]byte(val), &fp); err != nil {
		return nil, fmt.Errorf("decode baseline: %w", err)
	}
	return &fp, nil
}

// DeleteBaseline removes the shared baseline for a tool.
func (c *BaselineCache) DeleteBaseline(toolName string) error {
	return c.client.Del(c.ctx, baselineKey(toolName)).Err()
}

// Close releases the underlying client.
func (c *BaselineCache) Close() error {
	return c.client.Close()
}
