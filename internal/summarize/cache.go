package summarize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

const redisKeyPrefix = "edunova:summary:"

// Cache stores successful summaries.
type Cache interface {
	Get(ctx context.Context, key string) (domain.SummaryResult, bool)
	Set(ctx context.Context, key string, v domain.SummaryResult)
}

// CacheKey derives the cache key for a summarize call.
func CacheKey(title string, maxWords int, content string) string {
	h := sha256.New()
	h.Write([]byte(title))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(maxWords)))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// MemoryCache keeps summaries in process.
type MemoryCache struct {
	c *cache.Cache
}

// NewMemoryCache creates an in-process cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MemoryCache{c: cache.New(ttl, 10*time.Minute)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (domain.SummaryResult, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return domain.SummaryResult{}, false
	}
	return cloneSummary(v.(domain.SummaryResult)), true
}

func (m *MemoryCache) Set(_ context.Context, key string, v domain.SummaryResult) {
	m.c.Set(key, cloneSummary(v), cache.DefaultExpiration)
}

// Len returns the number of cached summaries.
func (m *MemoryCache) Len() int { return m.c.ItemCount() }

// RedisCache shares summaries between server instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to redisURL and verifies the connection.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.MaxRetries = 3

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get treats every redis failure as a miss.
func (r *RedisCache) Get(ctx context.Context, key string) (domain.SummaryResult, bool) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logCacheError("get", err)
		}
		return domain.SummaryResult{}, false
	}
	var v domain.SummaryResult
	if err := json.Unmarshal(raw, &v); err != nil {
		logCacheError("decode", err)
		return domain.SummaryResult{}, false
	}
	return v, true
}

func (r *RedisCache) Set(ctx context.Context, key string, v domain.SummaryResult) {
	raw, err := json.Marshal(v)
	if err != nil {
		logCacheError("encode", err)
		return
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, raw, r.ttl).Err(); err != nil {
		logCacheError("set", err)
	}
}

// Ping checks the redis connection for health probes.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the redis connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

func cloneSummary(v domain.SummaryResult) domain.SummaryResult {
	v.KeyPoints = append([]string(nil), v.KeyPoints...)
	return v
}
