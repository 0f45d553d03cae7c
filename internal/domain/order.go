package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// LineItem представляет одну позицию корзины.
type LineItem struct {
	// ProductID: ссылка на товар каталога, только для трассировки.
	ProductID int64
	// Name и Price фиксируются в момент первого добавления товара.
	Name  string
	Price string
	// Count: накопленное количество, при слиянии только увеличивается.
	Count int64
}

// Order агрегирует корзину покупателя и её позиции.
// Инвариант: не более одной позиции на каждый ProductID.
type Order struct {
	ID        string
	Items     []LineItem
	Version   int64
	CreatedAt time.Time
}

// NewOrder создаёт пустую корзину.
func NewOrder(id string, createdAt time.Time) Order {
	return Order{
		ID:        id,
		Items:     []LineItem{},
		CreatedAt: createdAt,
	}
}

// AddOrMerge добавляет товар в корзину: увеличивает количество существующей позиции
// или дописывает новую позицию в конец со снимком имени и цены.
// Если накопленное количество не помещается в int64, корзина не меняется и
// возвращается ErrCountOverflow.
func (o *Order) AddOrMerge(product Product, count int64) error {
	for i := range o.Items {
		if o.Items[i].ProductID == product.ID {
			if count > math.MaxInt64-o.Items[i].Count {
				return ErrCountOverflow
			}
			o.Items[i].Count += count
			return nil
		}
	}

	o.Items = append(o.Items, LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Count:     count,
	})
	return nil
}

// Clone возвращает копию заказа, не разделяющую слайс позиций.
func (o Order) Clone() Order {
	dst := o
	dst.Items = append([]LineItem(nil), o.Items...)
	if dst.Items == nil {
		dst.Items = []LineItem{}
	}
	return dst
}

// LineView: позиция в итоговом представлении корзины.
type LineView struct {
	ProductID  int64
	Name       string
	Price      string
	Count      int64
	TotalPrice string
}

// Summary: итоговое представление корзины с суммами.
type Summary struct {
	OrderID    string
	CreatedAt  time.Time
	Items      []LineView
	TotalPrice string
}

// Summary считает суммы по позициям и общий итог в точной десятичной арифметике.
// Сумма позиции форматируется с точностью цены, итог с максимальной точностью среди позиций.
func (o Order) Summary() (Summary, error) {
	views := make([]LineView, 0, len(o.Items))
	total := decimal.Zero
	var totalScale int32

	for _, item := range o.Items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return Summary{}, fmt.Errorf("order %s: product %d: parse price %q: %w", o.ID, item.ProductID, item.Price, err)
		}

		scale := decimalScale(price)
		if scale > totalScale {
			totalScale = scale
		}

		lineTotal := price.Mul(decimal.NewFromInt(item.Count))
		total = total.Add(lineTotal)

		views = append(views, LineView{
			ProductID:  item.ProductID,
			Name:       item.Name,
			Price:      item.Price,
			Count:      item.Count,
			TotalPrice: lineTotal.StringFixed(scale),
		})
	}

	return Summary{
		OrderID:    o.ID,
		CreatedAt:  o.CreatedAt,
		Items:      views,
		TotalPrice: total.StringFixed(totalScale),
	}, nil
}

func decimalScale(d decimal.Decimal) int32 {
	if exp := d.Exponent(); exp < 0 {
		return -exp
	}
	return 0
}
