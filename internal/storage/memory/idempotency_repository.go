package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type idempotencyRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.IdempotencyRecord
}

// NewIdempotencyRepository создаёт in-memory журнал ключей идемпотентности.
func NewIdempotencyRepository() domain.IdempotencyRepository {
	return &idempotencyRepositoryInMemory{
		items: make(map[string]domain.IdempotencyRecord),
	}
}

// Record проверяет и записывает ключ под одной блокировкой.
func (r *idempotencyRepositoryInMemory) Record(_ context.Context, key string) (domain.IdempotencyRecord, error) {
	key = domain.NormalizeIdempotencyKey(key)
	if key == "" {
		return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[key]; ok {
		return existing, domain.ErrIdempotencyKeyAlreadyExists
	}

	record := domain.IdempotencyRecord{
		Key:       key,
		CreatedAt: time.Now().UTC(),
	}
	r.items[key] = record
	return record, nil
}

var _ domain.IdempotencyRepository = (*idempotencyRepositoryInMemory)(nil)
