package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"airwavectf/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const leaderboardKeyPrefix = "leaderboard:"

// RedisLeaderboardCache is a pure side table for leaderboard reads. It is
// invalidated on every successful solve; correctness never depends on it
// being fresh, a miss falls through to a cold recomputation.
type RedisLeaderboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLeaderboardCache(rdb *redis.Client, ttl time.Duration) *RedisLeaderboardCache {
	return &RedisLeaderboardCache{rdb: rdb, ttl: ttl}
}

func (c *RedisLeaderboardCache) Get(ctx context.Context, limit int) ([]model.LeaderboardEntry, bool) {
	raw, err := c.rdb.Get(ctx, leaderboardKey(limit)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("WARN: leaderboard cache read failed: %v", err)
		}
		return nil, false
	}
	var entries []model.LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("WARN: leaderboard cache entry corrupt, dropping: %v", err)
		c.rdb.Del(ctx, leaderboardKey(limit))
		return nil, false
	}
	return entries, true
}

func (c *RedisLeaderboardCache) Set(ctx context.Context, limit int, entries []model.LeaderboardEntry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		log.Printf("WARN: failed to marshal leaderboard for cache: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, leaderboardKey(limit), raw, c.ttl).Err(); err != nil {
		log.Printf("WARN: leaderboard cache write failed: %v", err)
	}
}

// Invalidate drops every cached leaderboard view. Called after each appended
// solve and after team membership changes.
func (c *RedisLeaderboardCache) Invalidate(ctx context.Context) {
	keys, err := c.rdb.Keys(ctx, leaderboardKeyPrefix+"*").Result()
	if err != nil {
		log.Printf("WARN: leaderboard cache invalidation failed: %v", err)
		return
	}
	if len(keys) > 0 {
		c.rdb.Del(ctx, keys...)
	}
}

func leaderboardKey(limit int) string {
	return fmt.Sprintf("%s%d", leaderboardKeyPrefix, limit)
}
