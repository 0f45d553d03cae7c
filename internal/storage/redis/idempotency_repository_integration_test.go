package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const defaultLocalRedisAddr = "localhost:6379"

func openRedisClientForIntegrationTest(t *testing.T) *goredis.Client {
	t.Helper()

	candidates := []string{
		strings.TrimSpace(os.Getenv("STOREFRONT_REDIS_TEST_ADDR")),
		strings.TrimSpace(os.Getenv("STOREFRONT_REDIS_ADDR")),
		defaultLocalRedisAddr,
	}

	var openErrs []string
	for _, addr := range candidates {
		if addr == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		client, err := NewClient(ctx, Options{Addr: addr})
		cancel()
		if err == nil {
			t.Cleanup(func() {
				_ = client.Close()
			})
			return client
		}
		openErrs = append(openErrs, fmt.Sprintf("%s: %v", addr, err))
	}

	t.Skipf("redis is not available for integration tests: %s", strings.Join(openErrs, " | "))
	return nil
}

func TestIdempotencyRepository_RedisRecord(t *testing.T) {
	client := openRedisClientForIntegrationTest(t)
	repo := NewIdempotencyRepository(client)
	ctx := context.Background()

	key := "it-" + uuid.NewString()
	t.Cleanup(func() {
		_ = client.Del(context.Background(), storageKey(key)).Err()
	})

	stored, err := client.Exists(ctx, storageKey(key)).Result()
	require.NoError(t, err)
	require.Zero(t, stored)

	record, err := repo.Record(ctx, " "+key+" ")
	require.NoError(t, err)
	require.Equal(t, key, record.Key)

	stored, err = client.Exists(ctx, storageKey(key)).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), stored)

	ttl, err := client.TTL(ctx, storageKey(key)).Result()
	require.NoError(t, err)
	require.Equal(t, time.Duration(-1), ttl, "idempotency keys must never expire")

	_, err = repo.Record(ctx, key)
	require.True(t, errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists))
}

func TestIdempotencyRepository_RedisConcurrentRecord(t *testing.T) {
	client := openRedisClientForIntegrationTest(t)
	repo := NewIdempotencyRepository(client)

	key := "it-" + uuid.NewString()
	t.Cleanup(func() {
		_ = client.Del(context.Background(), storageKey(key)).Err()
	})

	const attempts = 32
	var (
		wg       sync.WaitGroup
		admitted atomic.Int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Record(context.Background(), key); err == nil {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), admitted.Load())
}

func TestIdempotencyRepository_RedisBlankKey(t *testing.T) {
	repo := NewIdempotencyRepository(nil)

	_, err := repo.Record(context.Background(), "  ")
	require.True(t, errors.Is(err, domain.ErrIdempotencyKeyRequired))
}

func TestNewClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := NewClient(ctx, Options{Addr: "127.0.0.1:1"})
	require.Error(t, err)
}
