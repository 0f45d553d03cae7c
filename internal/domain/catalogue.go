package domain

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product: позиция каталога. Цена хранится текстом, чтобы не терять точность.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       string
}

// ProductInput: данные для создания или обновления товара.
type ProductInput struct {
	Name        string
	Description string
	Price       string
}

// ValidatePrice проверяет, что цена является неотрицательным десятичным числом.
func ValidatePrice(price string) error {
	value, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return ErrInvalidPrice
	}
	if value.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// News: новость или предложение с датой окончания показа.
type News struct {
	ID          int64
	Title       string
	Description string
	ExpiryDate  time.Time
}

// NewsInput: данные для публикации новости.
type NewsInput struct {
	Title       string
	Description string
	ExpiryDate  time.Time
}

const (
	// DefaultPageSize используется, если размер страницы не задан.
	DefaultPageSize = 10
	// MaxPageSize ограничивает размер страницы.
	MaxPageSize = 100
)

// PageRequest описывает страницу выборки, упорядоченной по id.
type PageRequest struct {
	PageNo   int
	PageSize int
}

// NewPageRequest подставляет значения по умолчанию для незаданных параметров.
// Отрицательные значения должны быть отсеяны валидатором до вызова.
func NewPageRequest(pageNo, pageSize *int) PageRequest {
	page := PageRequest{PageNo: 0, PageSize: DefaultPageSize}
	if pageNo != nil && *pageNo > 0 {
		page.PageNo = *pageNo
	}
	if pageSize != nil && *pageSize > 0 {
		page.PageSize = *pageSize
	}
	if page.PageSize > MaxPageSize {
		page.PageSize = MaxPageSize
	}
	return page
}

// Offset возвращает количество пропускаемых записей. При переполнении
// возвращается math.MaxInt, то есть заведомо пустая страница.
func (p PageRequest) Offset() int {
	if p.PageNo <= 0 || p.PageSize <= 0 {
		return 0
	}
	if p.PageNo > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return p.PageNo * p.PageSize
}
