// Package redis содержит журнал ключей идемпотентности поверх Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	opTimeout = 2 * time.Second
	keyPrefix = "storefront:idempotency:"
)

// Options описывает подключение к Redis.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient создаёт клиента и проверяет доступность сервера.
func NewClient(ctx context.Context, opts Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}

	return client, nil
}

type idempotencyRepository struct {
	client *goredis.Client
}

// NewIdempotencyRepository создаёт журнал ключей на SETNX. Ключи хранятся без TTL.
func NewIdempotencyRepository(client *goredis.Client) domain.IdempotencyRepository {
	return &idempotencyRepository{client: client}
}

// Record атомарно занимает ключ командой SETNX; значение хранит время первой записи.
func (r *idempotencyRepository) Record(ctx context.Context, key string) (domain.IdempotencyRecord, error) {
	key = domain.NormalizeIdempotencyKey(key)
	if key == "" {
		return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyRequired
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	record := domain.IdempotencyRecord{Key: key, CreatedAt: time.Now().UTC()}
	ok, err := r.client.SetNX(ctx, storageKey(key), record.CreatedAt.Format(time.RFC3339Nano), 0).Result()
	if err != nil {
		return domain.IdempotencyRecord{}, fmt.Errorf("record idempotency key: %w", err)
	}
	if !ok {
		return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyAlreadyExists
	}

	return record, nil
}

func storageKey(key string) string {
	return keyPrefix + key
}

var _ domain.IdempotencyRepository = (*idempotencyRepository)(nil)
