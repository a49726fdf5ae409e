package services

import (
	"context"
	"errors"
	"fmt"
	"inventory_server/lib"
	"inventory_server/structs"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
)

// CheckpointStore keeps the resume token of the last processed change event.
// Saving an empty token clears the checkpoint.
type CheckpointStore interface {
	Load(ctx context.Context) (bson.Raw, error)
	Save(ctx context.Context, token bson.Raw) error
	Close() error
}

// NewCheckpointStore returns a redis backed store when the cache is enabled,
// otherwise an in-process one that only survives stream reconnects.
func NewCheckpointStore(logger *gecho.Logger, cfg *structs.Config) CheckpointStore {
	if !cfg.Cache.Enabled {
		logger.Info("Cache disabled, keeping change stream checkpoints in memory")
		return NewMemoryCheckpointStore()
	}

	key := fmt.Sprintf("%s:%s.%s", cfg.Cache.CheckpointKeyNS, cfg.Mongo.Database, cfg.Mongo.Collection)
	return NewRedisCheckpointStore(logger, newRedisClient(cfg.Cache), key, cfg.Cache)
}

type MemoryCheckpointStore struct {
	mu    sync.Mutex
	token bson.Raw
}

func NewMemoryCheckpointStore() *MemoryCheckpointStore {
	return &MemoryCheckpointStore{}
}

func (ms *MemoryCheckpointStore) Load(_ context.Context) (bson.Raw, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if len(ms.token) == 0 {
		return nil, nil
	}
	return append(bson.Raw(nil), ms.token...), nil
}

func (ms *MemoryCheckpointStore) Save(_ context.Context, token bson.Raw) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.token = append(bson.Raw(nil), token...)
	return nil
}

func (ms *MemoryCheckpointStore) Close() error {
	return nil
}

// RedisCheckpointStore persists the resume token so a restarted process picks
// the feed up where the previous one stopped.
type RedisCheckpointStore struct {
	logger     *gecho.Logger
	client     *redis.Client
	key        string
	ttl        time.Duration
	maxRetries int
}

func NewRedisCheckpointStore(logger *gecho.Logger, client *redis.Client, key string, cfg *structs.CacheConfig) *RedisCheckpointStore {
	return &RedisCheckpointStore{
		logger:     logger,
		client:     client,
		key:        key,
		ttl:        cfg.CheckpointTTL,
		maxRetries: cfg.MaxRetries,
	}
}

func newRedisClient(cfg *structs.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,

		// Connection pool settings
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// Timeouts
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,

		MaxRetries: cfg.MaxRetries,
	})
}

func (rs *RedisCheckpointStore) Load(ctx context.Context) (bson.Raw, error) {
	var token bson.Raw

	err := rs.withRetry(ctx, func() error {
		val, err := rs.client.Get(ctx, rs.key).Bytes()
		if errors.Is(err, redis.Nil) {
			token = nil
			return nil
		}
		if err != nil {
			return err
		}
		token = bson.Raw(val)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(token) > 0 {
		if err := token.Validate(); err != nil {
			rs.logger.Warn("Discarding corrupt resume token", gecho.Field("key", rs.key), gecho.Field("error", err))
			return nil, nil
		}
	}

	return token, nil
}

func (rs *RedisCheckpointStore) Save(ctx context.Context, token bson.Raw) error {
	if len(token) == 0 {
		return rs.withRetry(ctx, func() error {
			return rs.client.Del(ctx, rs.key).Err()
		})
	}

	return rs.withRetry(ctx, func() error {
		return rs.client.Set(ctx, rs.key, []byte(token), rs.ttl).Err()
	})
}

func (rs *RedisCheckpointStore) Close() error {
	return rs.client.Close()
}

// withRetry executes a Redis operation with exponential backoff retry logic
func (rs *RedisCheckpointStore) withRetry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= rs.maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		// Don't retry on the last attempt
		if attempt == rs.maxRetries {
			break
		}

		if !isRetryableError(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lib.Backoff(attempt, 100*time.Millisecond, 2*time.Second)):
		}
	}

	return fmt.Errorf("redis operation failed after %d retries: %w", rs.maxRetries, lastErr)
}

// isRetryableError determines if an error is worth retrying
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Retry on network/connection errors
	errStr := err.Error()
	retryableErrors := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	}

	for _, retryableErr := range retryableErrors {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}
