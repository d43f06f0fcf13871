package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/storyquiz/internal/story"
)

// DefaultCacheTTL is how long a generated story is reused.
const DefaultCacheTTL = 24 * time.Hour

// ErrCacheMiss is returned by Cache.Get when nothing is stored under a key.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores raw story JSON by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache is a Cache backed by Redis (or Dragonfly).
type RedisCache struct {
	client *redis.Client
	prefix string
}

// ParseCacheURL validates a Redis connection URL.
func ParseCacheURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("cache URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	return opts, nil
}

// NewRedisCache connects to url and pings it.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := ParseCacheURL(url)
	if err != nil {
		return nil, err
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging cache: %w", err)
	}

	return &RedisCache{client: client, prefix: "storyquiz:story:"}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return data, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Close shuts down the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedSource serves repeated requests from a Cache. Cache failures are
// logged and otherwise ignored.
type CachedSource struct {
	inner  Source
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// WithCache wraps a Source with a cache.
func WithCache(s Source, c Cache, ttl time.Duration, logger *slog.Logger) Source {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSource{inner: s, cache: c, ttl: ttl, logger: logger}
}

func (c *CachedSource) Generate(ctx context.Context, req Request) (story.Story, error) {
	key := req.Key()

	data, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		s, decErr := story.Decode(data)
		if decErr == nil {
			decErr = s.Validate()
		}
		if decErr == nil {
			c.logger.Debug("story cache hit", "key", key)
			return s, nil
		}
		c.logger.Warn("discarding unusable cached story", "key", key, "error", decErr)
	case !errors.Is(err, ErrCacheMiss):
		c.logger.Warn("story cache get failed", "key", key, "error", err)
	}

	s, err := c.inner.Generate(ctx, req)
	if err != nil {
		return story.Story{}, err
	}
	// Only stories the resolver would accept are cached.
	if err := s.Validate(); err != nil {
		return story.Story{}, &ParseError{Err: err}
	}

	if data, err := json.Marshal(s); err != nil {
		c.logger.Warn("encode story for cache", "error", err)
	} else if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("story cache set failed", "key", key, "error", err)
	}
	return s, nil
}
