package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"macro-pulse/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	seriesInfoCacheTTL = 24 * time.Hour
	latestObsCacheTTL  = 15 * time.Minute
)

// RedisClient is the subset of go-redis used by the services. A nil client
// disables caching entirely; every lookup then goes to the gateway.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// seriesCache fronts FRED metadata and latest-value lookups with Redis so
// command bursts don't burn through the provider's rate limit.
type seriesCache struct {
	redis RedisClient
}

// newSeriesCache normalizes a typed-nil *redis.Client to a nil interface so
// the disabled-cache checks below hold no matter how the client was passed.
func newSeriesCache(rc RedisClient) *seriesCache {
	if c, ok := rc.(*redis.Client); ok && c == nil {
		rc = nil
	}
	return &seriesCache{redis: rc}
}

func (c *seriesCache) getInfo(ctx context.Context, seriesID string) *domain.SeriesInfo {
	var info domain.SeriesInfo
	if !c.get(ctx, "series-info:"+seriesID, &info) {
		return nil
	}
	return &info
}

func (c *seriesCache) putInfo(ctx context.Context, info *domain.SeriesInfo) {
	c.put(ctx, "series-info:"+info.ID, info, seriesInfoCacheTTL)
}

func (c *seriesCache) getLatest(ctx context.Context, seriesID string) *domain.Observation {
	var obs domain.Observation
	if !c.get(ctx, "latest-obs:"+seriesID, &obs) {
		return nil
	}
	return &obs
}

func (c *seriesCache) putLatest(ctx context.Context, seriesID string, obs domain.Observation) {
	c.put(ctx, "latest-obs:"+seriesID, obs, latestObsCacheTTL)
}

func (c *seriesCache) get(ctx context.Context, key string, out interface{}) bool {
	if c == nil || c.redis == nil {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Printf("redis cache read error for %s: %v", key, err)
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (c *seriesCache) put(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil || c.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("redis cache write error for %s: %v", key, err)
	}
}
