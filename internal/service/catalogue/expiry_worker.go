package catalogue

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	defaultExpiryInterval  = 10 * time.Minute
	defaultExpiryBatchSize = 500
)

var (
	newsExpiryRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_news_expiry_runs_total",
		Help: "Total number of expired news sweeps grouped by result.",
	}, []string{"result"})
	newsExpiryDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_news_expiry_deleted_total",
		Help: "Total number of deleted expired news.",
	})
	newsExpiryLastDeleted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_news_expiry_last_deleted",
		Help: "Number of news deleted during the last sweep.",
	})
)

// ExpiryOptions задаёт параметры воркера удаления просроченных новостей.
type ExpiryOptions struct {
	Logger    *log.Entry
	Interval  time.Duration
	BatchSize int
	Now       func() time.Time
}

// ExpiryOption настраивает ExpiryWorker.
type ExpiryOption func(*ExpiryOptions)

// WithLogger задаёт logger воркера.
func WithLogger(logger *log.Entry) ExpiryOption {
	return func(opts *ExpiryOptions) {
		opts.Logger = logger
	}
}

// WithInterval задаёт интервал между проходами.
func WithInterval(interval time.Duration) ExpiryOption {
	return func(opts *ExpiryOptions) {
		opts.Interval = interval
	}
}

// WithBatchSize задаёт размер одной пачки удаления.
func WithBatchSize(batchSize int) ExpiryOption {
	return func(opts *ExpiryOptions) {
		opts.BatchSize = batchSize
	}
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) ExpiryOption {
	return func(opts *ExpiryOptions) {
		opts.Now = now
	}
}

// ExpiryWorker периодически удаляет новости с истёкшей датой окончания.
type ExpiryWorker struct {
	repo      domain.NewsRepository
	logger    *log.Entry
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

// NewExpiryWorker создаёт воркер.
func NewExpiryWorker(repo domain.NewsRepository, options ...ExpiryOption) *ExpiryWorker {
	opts := ExpiryOptions{
		Interval:  defaultExpiryInterval,
		BatchSize: defaultExpiryBatchSize,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "news-expiry-worker")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultExpiryInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultExpiryBatchSize
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}

	return &ExpiryWorker{
		repo:      repo,
		logger:    logger,
		interval:  opts.Interval,
		batchSize: opts.BatchSize,
		now:       opts.Now,
	}
}

// Run выполняет проход сразу и затем на каждом тике до отмены ctx.
func (w *ExpiryWorker) Run(ctx context.Context) {
	if w.repo == nil {
		w.logger.Warn("news expiry worker is disabled: repo is nil")
		return
	}

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	deleted, err := w.DeleteExpired(ctx, w.now())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		newsExpiryRunsTotal.WithLabelValues("error").Inc()
		w.logger.WithError(err).Warn("news expiry sweep failed")
		return
	}

	newsExpiryRunsTotal.WithLabelValues("ok").Inc()
	newsExpiryLastDeleted.Set(float64(deleted))
	if deleted > 0 {
		w.logger.WithField("deleted", deleted).Info("expired news removed")
	}
}

// DeleteExpired удаляет все новости с датой окончания <= before порциями batchSize.
func (w *ExpiryWorker) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	if before.IsZero() {
		before = w.now()
	}

	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		deleted, err := w.repo.DeleteExpired(ctx, before, w.batchSize)
		if err != nil {
			return total, err
		}

		total += deleted
		if deleted > 0 {
			newsExpiryDeletedTotal.Add(float64(deleted))
		}
		if deleted < w.batchSize {
			break
		}
	}

	return total, nil
}
