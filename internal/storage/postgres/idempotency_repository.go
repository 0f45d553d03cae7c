package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type idempotencyRepository struct {
	db *sql.DB
}

// NewIdempotencyRepository создаёт PostgreSQL-журнал ключей идемпотентности.
func NewIdempotencyRepository(store *Store) domain.IdempotencyRepository {
	return &idempotencyRepository{db: store.DB()}
}

// Record вставляет ключ; уникальность обеспечивает первичный ключ таблицы,
// поэтому два параллельных запроса с одним ключом не могут пройти оба.
func (r *idempotencyRepository) Record(ctx context.Context, key string) (domain.IdempotencyRecord, error) {
	key = domain.NormalizeIdempotencyKey(key)
	if key == "" {
		return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyRequired
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	record := domain.IdempotencyRecord{
		Key:       key,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO idempotency_keys (key, created_at)
		VALUES ($1, $2)
	`, record.Key, record.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyAlreadyExists
		}
		return domain.IdempotencyRecord{}, fmt.Errorf("record idempotency key: %w", err)
	}

	return record, nil
}

var _ domain.IdempotencyRepository = (*idempotencyRepository)(nil)
