package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalogue"
	"github.com/vladislavdragonenkov/storefront/internal/service/idempotency"
	"github.com/vladislavdragonenkov/storefront/internal/service/order"
	"github.com/vladislavdragonenkov/storefront/internal/service/validation"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
	"github.com/vladislavdragonenkov/storefront/internal/storage/redis"
)

// runtimeDependencies: хранилища, выбранные конфигурацией, и их проверки здоровья.
type runtimeDependencies struct {
	orders      domain.OrderRepository
	products    domain.ProductRepository
	news        domain.NewsRepository
	timeline    domain.TimelineRepository
	idempotency domain.IdempotencyRepository

	storageChecker healthcheck.Checker
	ledgerChecker  healthcheck.Checker

	closers []func() error
}

func (d *runtimeDependencies) close(logger *log.Entry) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			logger.WithError(err).Warn("failed to close dependency")
		}
	}
	d.closers = nil
}

func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if driver == "" {
		driver = StorageDriverMemory
	}

	deps := &runtimeDependencies{}
	switch driver {
	case StorageDriverMemory:
		deps.orders = memory.NewOrderRepository()
		deps.products = memory.NewProductRepository()
		deps.news = memory.NewNewsRepository()
		deps.timeline = memory.NewTimelineRepository()
		deps.idempotency = memory.NewIdempotencyRepository()
		deps.storageChecker = healthcheck.NewSimpleChecker("storage", func(context.Context) error { return nil })
		logger.Info("using in-memory storage")

	case StorageDriverPostgres:
		dsn := strings.TrimSpace(cfg.PostgresDSN)
		if dsn == "" {
			return nil, errors.New("postgres dsn is required when storage driver is postgres")
		}
		store, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		deps.closers = append(deps.closers, store.Close)

		if cfg.PostgresAutoMigrate {
			if err := store.MigrateUp(ctx, 0); err != nil {
				deps.close(logger)
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
			version, applied, err := store.MigrationStatus(ctx)
			if err != nil {
				deps.close(logger)
				return nil, fmt.Errorf("postgres migration status: %w", err)
			}
			logger.WithFields(log.Fields{"version": version, "applied": applied}).Info("postgres schema is up to date")
		}

		deps.orders = postgres.NewOrderRepository(store)
		deps.products = postgres.NewProductRepository(store)
		deps.news = postgres.NewNewsRepository(store)
		deps.timeline = postgres.NewTimelineRepository(store)
		deps.idempotency = postgres.NewIdempotencyRepository(store)
		deps.storageChecker = healthcheck.NewSimpleChecker("storage", store.Ping)
		logger.Info("using postgres storage")

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	switch backend := strings.ToLower(strings.TrimSpace(cfg.IdempotencyBackend)); backend {
	case "", IdempotencyBackendStorage:
	case IdempotencyBackendRedis:
		client, err := redis.NewClient(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			deps.close(logger)
			return nil, fmt.Errorf("connect idempotency ledger: %w", err)
		}
		deps.closers = append(deps.closers, client.Close)
		deps.idempotency = redis.NewIdempotencyRepository(client)
		deps.ledgerChecker = healthcheck.NewSimpleChecker("idempotency-ledger", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		logger.WithField("addr", cfg.RedisAddr).Info("idempotency keys are recorded in redis")
	default:
		deps.close(logger)
		return nil, fmt.Errorf("unsupported idempotency backend %q", cfg.IdempotencyBackend)
	}

	return deps, nil
}

// services: сценарии приложения поверх выбранных хранилищ.
type services struct {
	orders   *order.Service
	products *catalogue.ProductService
	news     *catalogue.NewsService
	expiry   *catalogue.ExpiryWorker
}

func newServices(cfg Config, deps *runtimeDependencies, m *metrics.Metrics, logger *log.Entry) services {
	guard := idempotency.NewGuard(deps.idempotency, m, logger.WithField("layer", "idempotency"))
	validator := validation.New(guard, deps.orders, deps.products)

	return services{
		orders: order.NewService(validator, deps.orders, deps.products, deps.timeline,
			order.WithMetrics(m),
			order.WithLogger(logger.WithField("layer", "orders")),
		),
		products: catalogue.NewProductService(validator, deps.products, logger.WithField("layer", "products")),
		news:     catalogue.NewNewsService(validator, deps.news, logger.WithField("layer", "news")),
		expiry: catalogue.NewExpiryWorker(deps.news,
			catalogue.WithLogger(logger.WithField("layer", "news-expiry")),
			catalogue.WithInterval(cfg.NewsCleanupInterval),
			catalogue.WithBatchSize(cfg.NewsCleanupBatchSize),
		),
	}
}
