package cache

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

type cachedPost struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func useMiniRedis(t *testing.T) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	prev := GetClient()
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(prev) })
}

func TestGetSetJSON(t *testing.T) {
	useMiniRedis(t)
	ctx := context.Background()

	t.Run("Miss Returns False", func(t *testing.T) {
		var dest cachedPost
		found, err := GetJSON(ctx, "post:404", &dest)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Set Then Get", func(t *testing.T) {
		original := cachedPost{ID: 1, Title: "cached"}
		require.NoError(t, SetJSON(ctx, PostKey(1), original, time.Minute))

		var dest cachedPost
		found, err := GetJSON(ctx, PostKey(1), &dest)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, original, dest)
	})

	t.Run("Invalidate Removes", func(t *testing.T) {
		require.NoError(t, SetJSON(ctx, PostKey(2), cachedPost{ID: 2}, time.Minute))
		InvalidatePost(ctx, 2)

		var dest cachedPost
		found, err := GetJSON(ctx, PostKey(2), &dest)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestAside(t *testing.T) {
	useMiniRedis(t)
	ctx := context.Background()

	t.Run("Miss Calls Fetch And Stores", func(t *testing.T) {
		calls := 0
		var dest cachedPost
		fetch := func() error {
			calls++
			dest = cachedPost{ID: 3, Title: "from db"}
			return nil
		}

		require.NoError(t, Aside(ctx, PostKey(3), &dest, time.Minute, fetch))
		assert.Equal(t, 1, calls)

		// Second call is served from the cache.
		var dest2 cachedPost
		require.NoError(t, Aside(ctx, PostKey(3), &dest2, time.Minute, fetch))
		assert.Equal(t, 1, calls)
		assert.Equal(t, "from db", dest2.Title)
	})

	t.Run("Fetch Error Propagates", func(t *testing.T) {
		var dest cachedPost
		err := Aside(ctx, PostKey(4), &dest, time.Minute, func() error {
			return errors.New("db down")
		})
		assert.Error(t, err)
	})
}

func TestNilClientDegradesGracefully(t *testing.T) {
	prev := GetClient()
	SetClient(nil)
	t.Cleanup(func() { SetClient(prev) })

	ctx := context.Background()

	var dest cachedPost
	found, err := GetJSON(ctx, PostKey(5), &dest)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, PostKey(5), dest, time.Minute))

	calls := 0
	require.NoError(t, Aside(ctx, PostKey(5), &dest, time.Minute, func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)
}
