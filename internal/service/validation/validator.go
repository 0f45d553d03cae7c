// Package validation проверяет предусловия сценариев и возвращает типизированные бизнес-ошибки.
package validation

import (
	"context"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Admitter: проверка ключа идемпотентности.
type Admitter interface {
	Admit(ctx context.Context, key string) error
}

// OrderChecker сообщает, существует ли заказ.
type OrderChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ProductChecker сообщает, существует ли товар.
type ProductChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Validator объединяет проверки всех мутирующих и читающих сценариев.
type Validator struct {
	guard    Admitter
	orders   OrderChecker
	products ProductChecker
	now      func() time.Time
}

// Option настраивает Validator.
type Option func(*Validator)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// New создаёт Validator.
func New(guard Admitter, orders OrderChecker, products ProductChecker, opts ...Option) *Validator {
	v := &Validator{
		guard:    guard,
		orders:   orders,
		products: products,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateOrderCreate допускает создание заказа.
func (v *Validator) ValidateOrderCreate(ctx context.Context, key string) error {
	return v.guard.Admit(ctx, key)
}

// ValidateOrderAddProduct проверяет ключ, заказ, товар и количество именно в таком порядке.
func (v *Validator) ValidateOrderAddProduct(ctx context.Context, key, orderID string, productID, count int64) error {
	if err := v.guard.Admit(ctx, key); err != nil {
		return err
	}
	if err := v.orderExists(ctx, orderID); err != nil {
		return err
	}
	if err := v.productExists(ctx, productID, domain.MsgOrderProductNotFound); err != nil {
		return err
	}
	if count < 0 {
		return domain.NewBusinessError(domain.KindInvalidCount, domain.MsgInvalidCount)
	}
	return nil
}

// ValidateOrderSummary проверяет существование заказа.
func (v *Validator) ValidateOrderSummary(ctx context.Context, orderID string) error {
	return v.orderExists(ctx, orderID)
}

// ValidateProductCreate проверяет ключ и поля товара.
func (v *Validator) ValidateProductCreate(ctx context.Context, key string, input domain.ProductInput) error {
	if err := v.guard.Admit(ctx, key); err != nil {
		return err
	}
	return validateProductInput(input)
}

// ValidateProductUpdate проверяет ключ, существование товара и поля.
func (v *Validator) ValidateProductUpdate(ctx context.Context, key string, id int64, input domain.ProductInput) error {
	if err := v.guard.Admit(ctx, key); err != nil {
		return err
	}
	if err := v.productExists(ctx, id, domain.MsgProductNotFound); err != nil {
		return err
	}
	return validateProductInput(input)
}

// ValidateProductDelete проверяет ключ и существование товара.
func (v *Validator) ValidateProductDelete(ctx context.Context, key string, id int64) error {
	if err := v.guard.Admit(ctx, key); err != nil {
		return err
	}
	return v.productExists(ctx, id, domain.MsgProductNotFound)
}

// ValidateNewsCreate проверяет ключ, заголовок и дату окончания (не раньше текущего момента).
func (v *Validator) ValidateNewsCreate(ctx context.Context, key string, input domain.NewsInput) error {
	if err := v.guard.Admit(ctx, key); err != nil {
		return err
	}
	if strings.TrimSpace(input.Title) == "" {
		return domain.NewBusinessError(domain.KindInvalidRequest, domain.MsgInvalidNewsTitle)
	}
	if input.ExpiryDate.IsZero() || input.ExpiryDate.Before(v.now()) {
		return domain.NewBusinessError(domain.KindInvalidExpiryDate, domain.MsgInvalidExpiryDate)
	}
	return nil
}

// ValidatePage отклоняет отрицательные номер и размер страницы.
func (v *Validator) ValidatePage(pageNo, pageSize *int) error {
	if pageNo != nil && *pageNo < 0 {
		return domain.NewBusinessError(domain.KindInvalidPagination, domain.MsgInvalidPageNo)
	}
	if pageSize != nil && *pageSize < 0 {
		return domain.NewBusinessError(domain.KindInvalidPagination, domain.MsgInvalidPageSize)
	}
	return nil
}

func (v *Validator) orderExists(ctx context.Context, orderID string) error {
	exists, err := v.orders.Exists(ctx, orderID)
	if err != nil {
		return domain.Internal(err)
	}
	if !exists {
		return domain.NewBusinessError(domain.KindOrderNotFound, domain.MsgOrderNotFound)
	}
	return nil
}

func (v *Validator) productExists(ctx context.Context, id int64, msg string) error {
	exists, err := v.products.Exists(ctx, id)
	if err != nil {
		return domain.Internal(err)
	}
	if !exists {
		return domain.NewBusinessError(domain.KindProductNotFound, msg)
	}
	return nil
}

func validateProductInput(input domain.ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domain.NewBusinessError(domain.KindInvalidRequest, domain.MsgInvalidProductName)
	}
	if err := domain.ValidatePrice(input.Price); err != nil {
		return domain.NewBusinessError(domain.KindInvalidRequest, domain.MsgInvalidProductPrice)
	}
	return nil
}
