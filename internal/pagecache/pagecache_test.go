package pagecache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, HomePrefix, ttl), mr
}

func counter(body string) (func(context.Context) ([]byte, error), *int) {
	calls := 0
	return func(context.Context) ([]byte, error) {
		calls++
		return []byte(body), nil
	}, &calls
}

func TestFetch_ServesStaleUntilTTL(t *testing.T) {
	c, mr := newCache(t, 20*time.Second)
	ctx := context.Background()

	render, calls := counter("v1")
	got, err := c.Fetch(ctx, "1", render)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	render2, calls2 := counter("v2")
	got, err = c.Fetch(ctx, "1", render2)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))
	assert.Equal(t, 1, *calls)
	assert.Equal(t, 0, *calls2)
	assert.Equal(t, 20*time.Second, mr.TTL("index_page:1"))

	mr.FastForward(21 * time.Second)
	got, err = c.Fetch(ctx, "1", render2)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	assert.Equal(t, Counters{Hits: 1, Misses: 2}, c.Counters())
}

func TestFetch_VariantsAreSeparate(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()

	one, _ := counter("page one")
	two, _ := counter("page two")
	_, err := c.Fetch(ctx, "1", one)
	require.NoError(t, err)
	got, err := c.Fetch(ctx, "2", two)
	require.NoError(t, err)
	assert.Equal(t, "page two", string(got))
}

func TestClear(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, mr.Set("unrelated", "keep"))

	for _, v := range []string{"1", "2", "3"} {
		r, _ := counter("x")
		_, err := c.Fetch(ctx, v, r)
		require.NoError(t, err)
	}

	n, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.False(t, mr.Exists("index_page:1"))
	assert.True(t, mr.Exists("unrelated"))

	r, calls := counter("fresh")
	got, err := c.Fetch(ctx, "1", r)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(got))
	assert.Equal(t, 1, *calls)
}

func TestFetch_DegradesWhenRedisDown(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	mr.Close()

	r, calls := counter("rendered")
	got, err := c.Fetch(context.Background(), "1", r)
	require.NoError(t, err)
	assert.Equal(t, "rendered", string(got))

	got, err = c.Fetch(context.Background(), "1", r)
	require.NoError(t, err)
	assert.Equal(t, "rendered", string(got))
	assert.Equal(t, 2, *calls)
	assert.Equal(t, int64(4), c.Counters().Errors)

	_, err = c.Clear(context.Background())
	assert.Error(t, err)
	assert.Error(t, c.Ping(context.Background()))
}

func TestFetch_Disabled(t *testing.T) {
	var nilCache *Cache
	r, calls := counter("x")
	_, err := nilCache.Fetch(context.Background(), "1", r)
	require.NoError(t, err)

	noClient := New(nil, "index_page", time.Minute)
	_, err = noClient.Fetch(context.Background(), "1", r)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)

	n, err := noClient.Clear(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestFetch_RenderErrorNotCached(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	boom := errors.New("db down")

	_, err := c.Fetch(context.Background(), "1", func(context.Context) ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("index_page:1"))
}

func TestFetch_SkipStoreServesWithoutCaching(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	calls := 0
	r := func(context.Context) ([]byte, error) {
		calls++
		return nil, SkipStore([]byte("clamped"))
	}

	for i := 0; i < 2; i++ {
		got, err := c.Fetch(context.Background(), "99", r)
		require.NoError(t, err)
		assert.Equal(t, "clamped", string(got))
	}
	assert.Equal(t, 2, calls)
	assert.False(t, mr.Exists("index_page:99"))
}
