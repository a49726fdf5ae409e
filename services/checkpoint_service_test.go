package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"inventory_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCheckpointKey = "inventory:watcher:resume:products_db.products"

func newTestCacheConfig(addr string) *structs.CacheConfig {
	return &structs.CacheConfig{
		Enabled:         true,
		Address:         addr,
		PoolSize:        2,
		DialTimeout:     200 * time.Millisecond,
		ReadTimeout:     200 * time.Millisecond,
		WriteTimeout:    200 * time.Millisecond,
		MaxRetries:      1,
		CheckpointKeyNS: "inventory:watcher:resume",
	}
}

func newTestRedisStore(t *testing.T) (*RedisCheckpointStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := newTestCacheConfig(mr.Addr())
	store := NewRedisCheckpointStore(gecho.NewDefaultLogger(), newRedisClient(cfg), testCheckpointKey, cfg)
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestRedisCheckpointStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, token)

	require.NoError(t, store.Save(ctx, resumeToken(t, "tok-1")))
	assert.True(t, mr.Exists(testCheckpointKey))

	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, resumeToken(t, "tok-1"), token)

	require.NoError(t, store.Save(ctx, resumeToken(t, "tok-2")))
	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, resumeToken(t, "tok-2"), token)
}

func TestRedisCheckpointStoreSaveNilDeletes(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	require.NoError(t, store.Save(ctx, resumeToken(t, "tok-1")))
	require.NoError(t, store.Save(ctx, nil))

	assert.False(t, mr.Exists(testCheckpointKey))

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestRedisCheckpointStoreDiscardsCorruptToken(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	require.NoError(t, mr.Set(testCheckpointKey, "not a bson document"))

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestRedisCheckpointStoreAppliesTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := newTestCacheConfig(mr.Addr())
	cfg.CheckpointTTL = time.Hour
	store := NewRedisCheckpointStore(gecho.NewDefaultLogger(), newRedisClient(cfg), testCheckpointKey, cfg)
	defer store.Close()

	require.NoError(t, store.Save(ctx, resumeToken(t, "tok-1")))
	assert.Equal(t, time.Hour, mr.TTL(testCheckpointKey))
}

func TestRedisCheckpointStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)
	mr.Close()

	_, err := store.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis operation failed after 1 retries")

	assert.Error(t, store.Save(ctx, resumeToken(t, "tok-1")))
}

func TestRedisCheckpointStoreStopsRetryingOnCancel(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewCheckpointStoreSelectsBackend(t *testing.T) {
	logger := gecho.NewDefaultLogger()
	mr := miniredis.RunT(t)

	cfg := &structs.Config{
		Mongo: &structs.MongoConfig{Database: "products_db", Collection: "products"},
		Cache: newTestCacheConfig(mr.Addr()),
	}

	store := NewCheckpointStore(logger, cfg)
	defer store.Close()

	redisStore, ok := store.(*RedisCheckpointStore)
	require.True(t, ok)
	assert.Equal(t, testCheckpointKey, redisStore.key)

	cfg.Cache.Enabled = false
	memStore := NewCheckpointStore(logger, cfg)
	assert.IsType(t, &MemoryCheckpointStore{}, memStore)
	assert.NoError(t, memStore.Close())
}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"key missing", redis.Nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), false},
		{"net error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("boom")}, true},
		{"connection refused", errors.New("dial tcp 127.0.0.1:6379: connection refused"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"wrong type", errors.New("WRONGTYPE Operation against a key holding the wrong kind of value"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryableError(tc.err))
		})
	}
}
