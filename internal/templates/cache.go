package templates

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Cache memoizes fetched template HTML by URL. Entries never expire on their
// own; they go away on Clear (manual invalidation or the scheduled sweep) or
// process restart. Concurrent misses for the same URL may race and fetch
// twice; last writer wins with equivalent content, which is harmless.
type Cache interface {
	Get(ctx context.Context, url string) (string, bool, error)
	Put(ctx context.Context, url, html string) error
	Clear(ctx context.Context) error
}

type memoryCache struct {
	mu       sync.Mutex
	entries  map[string]string
	order    []string
	maxItems int
}

// NewMemoryCache returns an in-process cache bounded to maxItems entries,
// evicting oldest-inserted first. maxItems <= 0 means unbounded.
func NewMemoryCache(maxItems int) Cache {
	return &memoryCache{
		entries:  make(map[string]string),
		maxItems: maxItems,
	}
}

func (c *memoryCache) Get(ctx context.Context, url string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	html, ok := c.entries[url]
	return html, ok, nil
}

func (c *memoryCache) Put(ctx context.Context, url, html string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[url]; !exists {
		if c.maxItems > 0 && len(c.entries) >= c.maxItems {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, url)
	}
	c.entries[url] = html
	return nil
}

func (c *memoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
	c.order = nil
	return nil
}

const (
	redisKeyPrefix = "certtpl:"
	redisIndexKey  = "certtpl:index"
)

type redisCache struct {
	client *redis.Client
}

// NewRedisCache returns a cache shared across instances through Redis. Keys
// carry no TTL; Clear is the only invalidation, matching the memory cache
// contract.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, url string) (string, bool, error) {
	html, err := c.client.Get(ctx, redisKeyPrefix+url).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("template cache get: %w", err)
	}
	return html, true, nil
}

func (c *redisCache) Put(ctx context.Context, url, html string) error {
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+url, html, 0)
	pipe.SAdd(ctx, redisIndexKey, url)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("template cache put: %w", err)
	}
	return nil
}

func (c *redisCache) Clear(ctx context.Context) error {
	urls, err := c.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return fmt.Errorf("template cache clear: %w", err)
	}
	keys := make([]string, 0, len(urls)+1)
	for _, url := range urls {
		keys = append(keys, redisKeyPrefix+url)
	}
	keys = append(keys, redisIndexKey)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("template cache clear: %w", err)
	}
	return nil
}
