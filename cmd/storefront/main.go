package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/app"
	"github.com/vladislavdragonenkov/storefront/internal/version"
)

const (
	envHTTPAddr             = "STOREFRONT_HTTP_ADDR"
	envGRPCAddr             = "STOREFRONT_GRPC_ADDR"
	envMetricsAddr          = "STOREFRONT_METRICS_ADDR"
	envStorageDriver        = "STOREFRONT_STORAGE_DRIVER"
	envPostgresDSN          = "STOREFRONT_POSTGRES_DSN"
	envPostgresAutoMigrate  = "STOREFRONT_POSTGRES_AUTO_MIGRATE"
	envIdempotencyBackend   = "STOREFRONT_IDEMPOTENCY_BACKEND"
	envRedisAddr            = "STOREFRONT_REDIS_ADDR"
	envRedisPassword        = "STOREFRONT_REDIS_PASSWORD"
	envRedisDB              = "STOREFRONT_REDIS_DB"
	envAdminUsername        = "STOREFRONT_ADMIN_USERNAME"
	envAdminPassword        = "STOREFRONT_ADMIN_PASSWORD"
	envCustomerUsername     = "STOREFRONT_CUSTOMER_USERNAME"
	envCustomerPassword     = "STOREFRONT_CUSTOMER_PASSWORD"
	envNewsCleanupInterval  = "STOREFRONT_NEWS_CLEANUP_INTERVAL"
	envNewsCleanupBatchSize = "STOREFRONT_NEWS_CLEANUP_BATCH_SIZE"
	envLogLevel             = "STOREFRONT_LOG_LEVEL"
)

type envLookup func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(lookup envLookup) error {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	raw, ok := lookup(envLogLevel)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	level, err := log.ParseLevel(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", envLogLevel, err)
	}
	log.SetLevel(level)
	return nil
}

// readConfigFromEnv накладывает переменные окружения на DefaultConfig.
// Некорректные значения не прерывают запуск: остаётся значение по умолчанию, а ошибка возвращается как предупреждение.
func readConfigFromEnv(lookup envLookup) (app.Config, []error) {
	cfg := app.DefaultConfig()
	var warnings []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	// Пароли не обрезаются: пробелы могут быть частью секрета.
	secret := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(envHTTPAddr, &cfg.HTTPAddr)
	str(envGRPCAddr, &cfg.GRPCAddr)
	str(envMetricsAddr, &cfg.MetricsAddr)
	if v, ok := lookup(envStorageDriver); ok && strings.TrimSpace(v) != "" {
		cfg.StorageDriver = strings.ToLower(strings.TrimSpace(v))
	}
	str(envPostgresDSN, &cfg.PostgresDSN)
	if v, ok := lookup(envIdempotencyBackend); ok && strings.TrimSpace(v) != "" {
		cfg.IdempotencyBackend = strings.ToLower(strings.TrimSpace(v))
	}
	str(envRedisAddr, &cfg.RedisAddr)
	secret(envRedisPassword, &cfg.RedisPassword)
	str(envAdminUsername, &cfg.AdminUsername)
	secret(envAdminPassword, &cfg.AdminPassword)
	str(envCustomerUsername, &cfg.CustomerUsername)
	secret(envCustomerPassword, &cfg.CustomerPassword)

	if v, ok := lookup(envPostgresAutoMigrate); ok {
		parsed, err := parseBool(v)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("%s: %w", envPostgresAutoMigrate, err))
		} else {
			cfg.PostgresAutoMigrate = parsed
		}
	}
	if v, ok := lookup(envRedisDB); ok {
		parsed, err := parseInt(v, func(n int) bool { return n >= 0 }, "must be >= 0")
		if err != nil {
			warnings = append(warnings, fmt.Errorf("%s: %w", envRedisDB, err))
		} else {
			cfg.RedisDB = parsed
		}
	}
	if v, ok := lookup(envNewsCleanupInterval); ok {
		parsed, err := parseDuration(v, func(d time.Duration) bool { return d > 0 }, "must be > 0")
		if err != nil {
			warnings = append(warnings, fmt.Errorf("%s: %w", envNewsCleanupInterval, err))
		} else {
			cfg.NewsCleanupInterval = parsed
		}
	}
	if v, ok := lookup(envNewsCleanupBatchSize); ok {
		parsed, err := parseInt(v, func(n int) bool { return n > 0 }, "must be > 0")
		if err != nil {
			warnings = append(warnings, fmt.Errorf("%s: %w", envNewsCleanupBatchSize, err))
		} else {
			cfg.NewsCleanupBatchSize = parsed
		}
	}

	return cfg, warnings
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool value %q", value)
	}
}

func parseInt(value string, validate func(int) bool, msg string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid int value %q: %w", value, err)
	}
	if validate != nil && !validate(parsed) {
		return 0, fmt.Errorf("invalid int value %q: %s", value, msg)
	}
	return parsed, nil
}

func parseDuration(value string, validate func(time.Duration) bool, msg string) (time.Duration, error) {
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid duration value %q: %w", value, err)
	}
	if validate != nil && !validate(parsed) {
		return 0, fmt.Errorf("invalid duration value %q: %s", value, msg)
	}
	return parsed, nil
}

func main() {
	if err := setupLogger(os.LookupEnv); err != nil {
		log.WithError(err).Warn("invalid log level, using info")
	}
	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	for _, warning := range warnings {
		log.WithError(warning).Warn("invalid configuration value, using default")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":           cfg.HTTPAddr,
		"grpc_addr":           cfg.GRPCAddr,
		"metrics_addr":        cfg.MetricsAddr,
		"storage_driver":      cfg.StorageDriver,
		"idempotency_backend": cfg.IdempotencyBackend,
		"version":             version.String(),
	}).Info("запускаем storefront")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("storefront остановлен")
}
