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

// withTestRedis points the package client at a miniredis instance for the
// duration of the test.
func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	prev := Client
	Client = client
	t.Cleanup(func() {
		Client = prev
		_ = client.Close()
	})
	return mr
}

func TestGetSetJSON_Roundtrip(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	var missing payload
	found, err := GetJSON(ctx, "things", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "things", payload{Name: "go", Count: 3}, time.Minute))

	var got payload
	found, err = GetJSON(ctx, "things", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "go", Count: 3}, got)
}

func TestCacheAside_HitSkipsFetch(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	calls := 0
	load := func(dest *[]string) func() error {
		return func() error {
			calls++
			*dest = []string{"from-db"}
			return nil
		}
	}

	var first []string
	require.NoError(t, CacheAside(ctx, "list", &first, time.Minute, load(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"from-db"}, first)

	// Second read is served from Redis without touching the loader.
	var second []string
	require.NoError(t, CacheAside(ctx, "list", &second, time.Minute, load(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"from-db"}, second)
}

func TestCacheAside_FetchErrorNotCached(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	var dest []string
	boom := errors.New("db down")
	err := CacheAside(ctx, "list", &dest, time.Minute, func() error { return boom })
	require.ErrorIs(t, err, boom)

	found, err := GetJSON(ctx, "list", &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate_DropsKey(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, "stale", "v1", time.Minute))
	require.True(t, mr.Exists("stale"))

	Invalidate(ctx, "stale")
	assert.False(t, mr.Exists("stale"))
}

func TestHelpers_NilClientNoops(t *testing.T) {
	prev := Client
	Client = nil
	t.Cleanup(func() { Client = prev })
	ctx := context.Background()

	var dest string
	found, err := GetJSON(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "k", "v", time.Minute))
	Invalidate(ctx, "k")

	calls := 0
	require.NoError(t, CacheAside(ctx, "k", &dest, time.Minute, func() error {
		calls++
		dest = "loaded"
		return nil
	}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "loaded", dest)
}
