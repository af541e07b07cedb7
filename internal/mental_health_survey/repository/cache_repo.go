package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
)

const (
	outputKeyPrefix  = "survey:out:"     // survey:out:{version}:{kind}:{param}
	versionSetPrefix = "survey:version:" // set of output keys written for a dataset version
	DefaultCacheTTL  = 10 * time.Minute
)

// ErrCacheMiss is returned by Get when nothing is stored under the key.
var ErrCacheMiss = domain.ErrCacheMiss

// CacheRepository caches JSON-encoded builder outputs in Redis. A nil
// client turns every call into a miss or a no-op.
type CacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheRepository(client *redis.Client, ttl time.Duration) *CacheRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CacheRepository{client: client, ttl: ttl}
}

func (r *CacheRepository) Enabled() bool { return r != nil && r.client != nil }

// Get decodes the cached value into dst.
func (r *CacheRepository) Get(ctx context.Context, version, kind, param string, dst any) error {
	if !r.Enabled() {
		return ErrCacheMiss
	}
	data, err := r.client.Get(ctx, r.outputKey(version, kind, param)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to get cached output: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal cached output: %w", err)
	}
	return nil
}

// Set stores v and indexes its key under the dataset version.
func (r *CacheRepository) Set(ctx context.Context, version, kind, param string, v any) error {
	if !r.Enabled() {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	key := r.outputKey(version, kind, param)
	setKey := r.versionSetKey(version)

	pipe := r.client.Pipeline()
	pipe.Set(ctx, key, data, r.ttl)
	pipe.SAdd(ctx, setKey, key)
	pipe.Expire(ctx, setKey, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache output: %w", err)
	}
	return nil
}

// InvalidateVersion drops every output cached for version.
func (r *CacheRepository) InvalidateVersion(ctx context.Context, version string) error {
	if !r.Enabled() {
		return nil
	}
	setKey := r.versionSetKey(version)
	keys, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to list cached outputs: %w", err)
	}
	keys = append(keys, setKey)
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached outputs: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (r *CacheRepository) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

func (r *CacheRepository) outputKey(version, kind, param string) string {
	return fmt.Sprintf("%s%s:%s:%s", outputKeyPrefix, version, kind, param)
}

func (r *CacheRepository) versionSetKey(version string) string {
	return versionSetPrefix + version
}
