// Package idempotency допускает мутирующие операции только с новым Idempotency-Key.
package idempotency

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// Guard проверяет и записывает ключи идемпотентности.
type Guard struct {
	repo    domain.IdempotencyRepository
	metrics *metrics.Metrics
	logger  *log.Entry
}

// NewGuard создаёт Guard поверх журнала ключей. metrics и logger могут быть nil.
func NewGuard(repo domain.IdempotencyRepository, m *metrics.Metrics, logger *log.Entry) *Guard {
	if logger == nil {
		logger = log.WithField("component", "idempotency-guard")
	}
	return &Guard{repo: repo, metrics: m, logger: logger}
}

// Admit записывает ключ ровно один раз. Повторный ключ даёт DuplicateKey,
// пустой ключ даёт InvalidKey; проверка и запись выполняются одной атомарной операцией журнала.
func (g *Guard) Admit(ctx context.Context, key string) error {
	key = domain.NormalizeIdempotencyKey(key)
	if key == "" {
		g.metrics.RecordAdmission(metrics.AdmissionInvalid)
		return domain.NewBusinessError(domain.KindInvalidKey, domain.MsgInvalidKey)
	}

	_, err := g.repo.Record(ctx, key)
	switch {
	case err == nil:
		g.metrics.RecordAdmission(metrics.AdmissionAdmitted)
		return nil
	case domain.IsIdempotencyConflict(err):
		g.metrics.RecordAdmission(metrics.AdmissionDuplicate)
		g.logger.WithField("idempotency_key", key).Debug("duplicate idempotency key rejected")
		return domain.NewBusinessError(domain.KindDuplicateKey, domain.MsgDuplicateKey)
	case errors.Is(err, domain.ErrIdempotencyKeyRequired):
		g.metrics.RecordAdmission(metrics.AdmissionInvalid)
		return domain.NewBusinessError(domain.KindInvalidKey, domain.MsgInvalidKey)
	default:
		g.metrics.RecordAdmission(metrics.AdmissionError)
		g.logger.WithError(err).Error("failed to record idempotency key")
		return domain.Internal(err)
	}
}
