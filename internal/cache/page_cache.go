// Package cache stores rendered directory pages in Redis.
//
// Every cached page key embeds the current directory generation. A mutation
// bumps the generation, so pages cached before it can never be served again;
// they simply expire. A reader captures the generation before it queries
// storage and stores its result under that generation, which keeps a slow
// reader from publishing pre-mutation data under the post-mutation generation.
package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/employee-directory/internal/directory"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Key addresses one cached page at one generation. The zero Key is never stored.
type Key string

// PageCache caches directory pages between mutations.
type PageCache interface {
	Get(ctx context.Context, params directory.Params) (directory.Page, Key, bool, error)
	Set(ctx context.Context, key Key, page directory.Page) error
	Invalidate(ctx context.Context) error
}

// RedisPageCache implements PageCache on Redis.
type RedisPageCache struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

// NewRedisPageCache builds a cache with the given key prefix and page TTL.
func NewRedisPageCache(client redis.Cmdable, prefix string, ttl time.Duration) *RedisPageCache {
	if prefix == "" {
		prefix = "employees"
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisPageCache{client: client, ttl: ttl, prefix: prefix}
}

func (c *RedisPageCache) generationKey() string {
	return c.prefix + ":generation"
}

func (c *RedisPageCache) pageKey(generation int64, p directory.Params) Key {
	return Key(fmt.Sprintf("%s:page:%d:%s:%s:%d:%d:%s",
		c.prefix,
		generation,
		p.SortKey,
		p.SortDirection,
		p.Page,
		p.PageSize,
		url.QueryEscape(p.Search),
	))
}

func (c *RedisPageCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return gen, nil
}

// Get looks up the page for params. On a miss the returned Key is where the
// caller should Set the freshly queried page.
func (c *RedisPageCache) Get(ctx context.Context, params directory.Params) (directory.Page, Key, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return directory.Page{}, "", false, fmt.Errorf("read cache generation: %w", err)
	}
	key := c.pageKey(gen, params)

	data, err := c.client.Get(ctx, string(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return directory.Page{}, key, false, nil
	}
	if err != nil {
		return directory.Page{}, key, false, fmt.Errorf("read cached page: %w", err)
	}

	var page directory.Page
	if err := json.Unmarshal(data, &page); err != nil {
		return directory.Page{}, key, false, fmt.Errorf("decode cached page: %w", err)
	}
	return page, key, true, nil
}

// Set stores page under key with the configured TTL.
func (c *RedisPageCache) Set(ctx context.Context, key Key, page directory.Page) error {
	if key == "" {
		return nil
	}
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	return c.client.Set(ctx, string(key), data, c.ttl).Err()
}

// Invalidate retires every cached page by advancing the generation.
func (c *RedisPageCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}

// Noop is a PageCache that never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, directory.Params) (directory.Page, Key, bool, error) {
	return directory.Page{}, "", false, nil
}

func (Noop) Set(context.Context, Key, directory.Page) error { return nil }

func (Noop) Invalidate(context.Context) error { return nil }
