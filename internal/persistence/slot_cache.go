package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/technicalhatchet/fieldserve/internal/schedule"
)

const slotCachePrefix = "slots"

// SlotCache stores generated appointment slots in Redis with a short TTL.
// It is strictly an optimization: every error degrades to a cache miss.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSlotCache creates a cache around the shared Redis client.
func NewSlotCache(r *Redis, ttl time.Duration, logger *zap.Logger) *SlotCache {
	if r == nil || r.Client == nil || ttl <= 0 {
		return nil
	}
	return &SlotCache{client: r.Client, ttl: ttl, logger: logger}
}

// Get returns cached slots for the key, or (nil, false) on miss.
func (c *SlotCache) Get(ctx context.Context, key string) ([]schedule.Slot, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var slots []schedule.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.logger.Warn("discarding malformed slot cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return slots, true
}

// Set stores slots under the key.
func (c *SlotCache) Set(ctx context.Context, key string, slots []schedule.Slot) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("slot cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateDate drops every cached slot set for the given date. Called after
// a scheduling commit so stale slots are not served past the next TTL window.
func (c *SlotCache) InvalidateDate(ctx context.Context, date string) {
	if c == nil {
		return
	}
	pattern := fmt.Sprintf("%s:%s:*", slotCachePrefix, date)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("slot cache invalidation failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("slot cache scan failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

// SlotCacheKey builds the cache key for a slot query.
func SlotCacheKey(date string, durationMinutes int, technicianID string) string {
	if technicianID == "" {
		technicianID = "all"
	}
	return fmt.Sprintf("%s:%s:%d:%s", slotCachePrefix, date, durationMinutes, technicianID)
}
