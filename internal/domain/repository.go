package domain

import (
	"context"
	"time"
)

// IdempotencyRepository: журнал использованных ключей идемпотентности.
type IdempotencyRepository interface {
	// Record атомарно записывает ключ. Возвращает ErrIdempotencyKeyAlreadyExists,
	// если ключ уже был записан, и ErrIdempotencyKeyRequired для пустого ключа.
	Record(ctx context.Context, key string) (IdempotencyRecord, error)
}

// OrderRepository описывает требования к хранилищу корзин.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ErrOrderAlreadyExists, если ID занят.
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	// Exists сообщает, существует ли заказ.
	Exists(ctx context.Context, id string) (bool, error)
	// Update выполняет read-modify-write заказа: mutate получает актуальное состояние,
	// изменения сохраняются целиком. Для одного id одновременно выполняется не более
	// одного Update. Ошибка mutate отменяет сохранение.
	Update(ctx context.Context, id string, mutate func(*Order) error) (Order, error)
}

// ProductRepository описывает хранилище каталога товаров.
type ProductRepository interface {
	Create(ctx context.Context, input ProductInput) (Product, error)
	// Get возвращает товар или ErrProductNotFound.
	Get(ctx context.Context, id int64) (Product, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Update перезаписывает товар или возвращает ErrProductNotFound.
	Update(ctx context.Context, id int64, input ProductInput) (Product, error)
	// Delete удаляет товар и возвращает удалённую запись.
	Delete(ctx context.Context, id int64) (Product, error)
	// List возвращает страницу товаров, упорядоченных по id.
	List(ctx context.Context, page PageRequest) ([]Product, error)
	// SearchByName возвращает страницу товаров, имя которых содержит подстроку (с учётом регистра).
	SearchByName(ctx context.Context, substring string, page PageRequest) ([]Product, error)
}

// NewsRepository описывает хранилище новостей.
type NewsRepository interface {
	Create(ctx context.Context, input NewsInput) (News, error)
	// List возвращает страницу новостей, упорядоченных по id.
	List(ctx context.Context, page PageRequest) ([]News, error)
	// DeleteExpired удаляет до limit новостей с датой окончания <= before.
	DeleteExpired(ctx context.Context, before time.Time, limit int) (int, error)
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(ctx context.Context, event TimelineEvent) error
	List(ctx context.Context, orderID string) ([]TimelineEvent, error)
}
