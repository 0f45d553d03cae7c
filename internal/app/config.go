package app

import (
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/transport/rest"
)

const (
	// StorageDriverMemory хранит данные в памяти процесса.
	StorageDriverMemory = "memory"
	// StorageDriverPostgres хранит данные в PostgreSQL.
	StorageDriverPostgres = "postgres"

	// IdempotencyBackendStorage ведёт журнал ключей в основном хранилище.
	IdempotencyBackendStorage = "storage"
	// IdempotencyBackendRedis ведёт журнал ключей в Redis.
	IdempotencyBackendRedis = "redis"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	IdempotencyBackend string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int

	AdminUsername    string
	AdminPassword    string
	CustomerUsername string
	CustomerPassword string

	NewsCleanupInterval  time.Duration
	NewsCleanupBatchSize int
}

// DefaultConfig возвращает настройки для локального запуска.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:             ":8080",
		GRPCAddr:             ":50051",
		MetricsAddr:          ":9090",
		StorageDriver:        StorageDriverMemory,
		PostgresAutoMigrate:  true,
		IdempotencyBackend:   IdempotencyBackendStorage,
		RedisAddr:            "localhost:6379",
		AdminUsername:        "admin",
		AdminPassword:        "admin",
		CustomerUsername:     "customer",
		CustomerPassword:     "customer",
		NewsCleanupInterval:  10 * time.Minute,
		NewsCleanupBatchSize: 500,
	}
}

// Users возвращает учётные записи Basic-аутентификации.
func (c Config) Users() []rest.Credentials {
	return []rest.Credentials{
		{Username: c.AdminUsername, Password: c.AdminPassword, Role: rest.RoleAdmin},
		{Username: c.CustomerUsername, Password: c.CustomerPassword, Role: rest.RoleCustomer},
	}
}
