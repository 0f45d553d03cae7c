package app

import (
	"context"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

func TestInitRuntimeDependencies_Memory(t *testing.T) {
	t.Parallel()

	for _, driver := range []string{StorageDriverMemory, "", " MEMORY "} {
		deps, err := initRuntimeDependencies(context.Background(), Config{
			StorageDriver: driver,
		}, log.WithField("test", "memory-storage"))
		if err != nil {
			t.Fatalf("initRuntimeDependencies(%q) failed: %v", driver, err)
		}
		if deps.orders == nil || deps.products == nil || deps.news == nil || deps.timeline == nil || deps.idempotency == nil {
			t.Fatalf("memory repositories must be initialized: %+v", deps)
		}
		if deps.storageChecker == nil {
			t.Fatal("memory storage must have a checker")
		}
		if deps.ledgerChecker != nil {
			t.Fatal("storage ledger must not register a separate checker")
		}
		if check := deps.storageChecker.Check(context.Background()); check.Status != healthcheck.StatusHealthy {
			t.Fatalf("memory storage must be healthy, got %+v", check)
		}
	}
}

func TestInitRuntimeDependencies_PostgresRequiresDSN(t *testing.T) {
	t.Parallel()

	_, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: StorageDriverPostgres,
		PostgresDSN:   "   ",
	}, log.WithField("test", "postgres-missing-dsn"))
	if err == nil || !strings.Contains(err.Error(), "dsn is required") {
		t.Fatalf("expected missing dsn error, got %v", err)
	}
}

func TestInitRuntimeDependencies_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: "sqlite",
	}, log.WithField("test", "unsupported-driver"))
	if err == nil || !strings.Contains(err.Error(), "unsupported storage driver") {
		t.Fatalf("expected unsupported storage driver error, got %v", err)
	}
}

func TestInitRuntimeDependencies_UnsupportedLedger(t *testing.T) {
	t.Parallel()

	_, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver:      StorageDriverMemory,
		IdempotencyBackend: "memcached",
	}, log.WithField("test", "unsupported-ledger"))
	if err == nil || !strings.Contains(err.Error(), "unsupported idempotency backend") {
		t.Fatalf("expected unsupported idempotency backend error, got %v", err)
	}
}

func TestInitRuntimeDependencies_UnreachableRedis(t *testing.T) {
	t.Parallel()

	_, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver:      StorageDriverMemory,
		IdempotencyBackend: IdempotencyBackendRedis,
		RedisAddr:          "127.0.0.1:1",
	}, log.WithField("test", "redis-unreachable"))
	if err == nil || !strings.Contains(err.Error(), "connect idempotency ledger") {
		t.Fatalf("expected redis connection error, got %v", err)
	}
}

func TestNewServices_SharesIdempotencyLedger(t *testing.T) {
	t.Parallel()

	deps, err := initRuntimeDependencies(context.Background(), DefaultConfig(), log.WithField("test", "services"))
	if err != nil {
		t.Fatalf("initRuntimeDependencies failed: %v", err)
	}
	svcs := newServices(DefaultConfig(), deps, nil, log.WithField("test", "services"))

	ctx := context.Background()
	if _, err := svcs.orders.Create(ctx, "shared-key"); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := svcs.products.List(ctx, "", nil, nil); err != nil {
		t.Fatalf("list products: %v", err)
	}
	if _, err := svcs.news.List(ctx, nil, nil); err != nil {
		t.Fatalf("list news: %v", err)
	}
	// Ключ, использованный заказом, занят и для каталога.
	_, err = svcs.products.Add(ctx, "shared-key", domain.ProductInput{Name: "Tea", Price: "1.00"})
	if domain.KindOf(err) != domain.KindDuplicateKey {
		t.Fatalf("expected duplicate key error, got %v", err)
	}

	var m *metrics.Metrics
	_ = newServices(DefaultConfig(), deps, m, log.WithField("test", "services-nil-metrics"))
}
