package pagecache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/pkg/logger"
)

// HomePrefix namespaces the cached home feed pages.
const HomePrefix = "index_page"

// Cache stores rendered page fragments in redis for a fixed TTL.
// Entries are never invalidated by writes; Clear is the only way to drop
// them before they expire. Every redis failure degrades to rendering.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
	errs   atomic.Int64
}

// New builds a cache. A nil client or a zero TTL disables caching.
func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

func (c *Cache) Key(variant string) string { return c.prefix + ":" + variant }

func (c *Cache) enabled() bool { return c != nil && c.client != nil && c.ttl > 0 }

// SkipStore lets a render func hand back a fragment that is served but not
// cached, such as a page past the end that was clamped to another page.
func SkipStore(data []byte) error { return &skipStore{data: data} }

type skipStore struct{ data []byte }

func (*skipStore) Error() string { return "page cache: fragment not stored" }

// Fetch returns the cached fragment for variant, or renders, stores and returns it.
func (c *Cache) Fetch(ctx context.Context, variant string, render func(context.Context) ([]byte, error)) ([]byte, error) {
	if !c.enabled() {
		return render(ctx)
	}
	key := c.Key(variant)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		c.hits.Add(1)
		return data, nil
	case errors.Is(err, redis.Nil):
		c.misses.Add(1)
	default:
		c.errs.Add(1)
		logger.Warn("page cache read failed, rendering", zap.String("key", key), zap.Error(err))
	}

	data, err = render(ctx)
	var skip *skipStore
	if errors.As(err, &skip) {
		return skip.data, nil
	}
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.errs.Add(1)
		logger.Warn("page cache write failed", zap.String("key", key), zap.Error(err))
	}
	return data, nil
}

// Clear drops every fragment under the prefix and reports how many were removed.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+":*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("scan %s: %w", c.prefix, err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("del %s: %w", c.prefix, err)
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// Ping reports whether the backing redis answers.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("page cache disabled")
	}
	return c.client.Ping(ctx).Err()
}

// Counters reports cache outcomes since the cache was built.
func (c *Cache) Counters() Counters {
	return Counters{Hits: c.hits.Load(), Misses: c.misses.Load(), Errors: c.errs.Load()}
}

// Counters summarises cache outcomes during a run.
type Counters struct {
	Hits   int64
	Misses int64
	Errors int64
}
