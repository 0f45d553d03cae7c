// Package order реализует сценарии корзины: создание, добавление товара и итог.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/service/validation"
)

const (
	operationCreate     = "create"
	operationAddProduct = "add_product"
	operationSummarize  = "summarize"

	// maxUpdateAttempts ограничивает повторы сохранения при конфликте версий.
	maxUpdateAttempts = 3
)

// Service управляет корзинами покупателей.
type Service struct {
	validator *validation.Validator
	orders    domain.OrderRepository
	products  domain.ProductRepository
	timeline  domain.TimelineRepository
	metrics   *metrics.Metrics
	logger    *log.Entry

	now   func() time.Time
	newID func() string
}

// Option настраивает Service.
type Option func(*Service)

// WithMetrics подключает Prometheus-метрики.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger задаёт logger сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock подменяет источник времени создания заказа.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator подменяет генератор идентификаторов заказа.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService конструирует сервис заказов. timeline может быть nil.
func NewService(
	validator *validation.Validator,
	orders domain.OrderRepository,
	products domain.ProductRepository,
	timeline domain.TimelineRepository,
	opts ...Option,
) *Service {
	s := &Service{
		validator: validator,
		orders:    orders,
		products:  products,
		timeline:  timeline,
		logger:    log.WithField("component", "order-service"),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create создаёт пустую корзину и возвращает её итог.
func (s *Service) Create(ctx context.Context, idempotencyKey string) (domain.Summary, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveOperation(operationCreate, time.Since(started)) }()

	if err := s.validator.ValidateOrderCreate(ctx, idempotencyKey); err != nil {
		return domain.Summary{}, err
	}

	order := domain.NewOrder(s.newID(), s.now())
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("create order failed")
		return domain.Summary{}, domain.Internal(fmt.Errorf("create order %s: %w", order.ID, err))
	}

	s.metrics.RecordOrderCreated()
	s.appendTimeline(ctx, order.ID, domain.TimelineEventOrderCreated, "order created")
	s.logger.WithField("order_id", order.ID).Info("order created")

	return s.summarize(order)
}

// AddProduct добавляет товар в корзину или увеличивает количество существующей позиции.
// Чтение, слияние и сохранение выполняются под сериализацией репозитория по id заказа.
func (s *Service) AddProduct(ctx context.Context, idempotencyKey, orderID string, productID, count int64) (domain.Summary, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveOperation(operationAddProduct, time.Since(started)) }()

	if err := s.validator.ValidateOrderAddProduct(ctx, idempotencyKey, orderID, productID, count); err != nil {
		return domain.Summary{}, err
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return domain.Summary{}, domain.NewBusinessError(domain.KindProductNotFound, domain.MsgOrderProductNotFound)
		}
		return domain.Summary{}, domain.Internal(fmt.Errorf("load product %d: %w", productID, err))
	}

	updated, err := s.mergeLine(ctx, orderID, product, count)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			return domain.Summary{}, domain.NewBusinessError(domain.KindOrderNotFound, domain.MsgOrderNotFound)
		case errors.Is(err, domain.ErrCountOverflow):
			return domain.Summary{}, domain.NewBusinessError(domain.KindInvalidCount, domain.MsgCountTooLarge)
		}
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   orderID,
			"product_id": productID,
		}).Error("add product to order failed")
		return domain.Summary{}, domain.Internal(fmt.Errorf("update order %s: %w", orderID, err))
	}

	s.metrics.RecordProductAdded()
	s.appendTimeline(ctx, orderID, domain.TimelineEventProductAdded, fmt.Sprintf("product %d x%d", productID, count))
	s.logger.WithFields(log.Fields{
		"order_id":   orderID,
		"product_id": productID,
		"count":      count,
		"version":    updated.Version,
	}).Debug("product added to order")

	return s.summarize(updated)
}

// mergeLine сохраняет позицию в заказе, повторяя попытку при конфликте версий.
func (s *Service) mergeLine(ctx context.Context, orderID string, product domain.Product, count int64) (domain.Order, error) {
	var (
		updated domain.Order
		err     error
	)
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		updated, err = s.orders.Update(ctx, orderID, func(o *domain.Order) error {
			return o.AddOrMerge(product, count)
		})
		if !domain.IsVersionConflict(err) {
			return updated, err
		}
		s.logger.WithFields(log.Fields{
			"order_id": orderID,
			"attempt":  attempt,
		}).Warn("order version conflict, retrying")
	}
	return updated, err
}

// Summarize возвращает итог корзины без изменения состояния.
func (s *Service) Summarize(ctx context.Context, orderID string) (domain.Summary, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveOperation(operationSummarize, time.Since(started)) }()

	if err := s.validator.ValidateOrderSummary(ctx, orderID); err != nil {
		return domain.Summary{}, err
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return domain.Summary{}, domain.NewBusinessError(domain.KindOrderNotFound, domain.MsgOrderNotFound)
		}
		return domain.Summary{}, domain.Internal(fmt.Errorf("load order %s: %w", orderID, err))
	}

	return s.summarize(order)
}

// Timeline возвращает события заказа в хронологическом порядке.
func (s *Service) Timeline(ctx context.Context, orderID string) ([]domain.TimelineEvent, error) {
	if err := s.validator.ValidateOrderSummary(ctx, orderID); err != nil {
		return nil, err
	}
	if s.timeline == nil {
		return []domain.TimelineEvent{}, nil
	}

	events, err := s.timeline.List(ctx, orderID)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("list timeline for %s: %w", orderID, err))
	}
	return events, nil
}

func (s *Service) summarize(order domain.Order) (domain.Summary, error) {
	summary, err := order.Summary()
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("order summary failed")
		return domain.Summary{}, domain.Internal(err)
	}
	return summary, nil
}

// appendTimeline только логирует ошибку записи и не прерывает сценарий.
func (s *Service) appendTimeline(ctx context.Context, orderID, eventType, reason string) {
	if s.timeline == nil {
		return
	}

	event := domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Reason:   reason,
		Occurred: s.now(),
	}
	if err := s.timeline.Append(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"type":     eventType,
		}).Warn("append timeline event failed")
		return
	}
	s.metrics.RecordTimelineEvent()
}
