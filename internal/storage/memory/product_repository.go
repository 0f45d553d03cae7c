package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type productRepositoryInMemory struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]domain.Product
}

// NewProductRepository создаёт in-memory каталог товаров.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[int64]domain.Product),
	}
}

func (r *productRepositoryInMemory) Create(_ context.Context, input domain.ProductInput) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	product := domain.Product{
		ID:          r.nextID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	}
	r.items[product.ID] = product
	return product, nil
}

func (r *productRepositoryInMemory) Get(_ context.Context, id int64) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (r *productRepositoryInMemory) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[id]
	return ok, nil
}

func (r *productRepositoryInMemory) Update(_ context.Context, id int64, input domain.ProductInput) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}

	product := domain.Product{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	}
	r.items[id] = product
	return product, nil
}

func (r *productRepositoryInMemory) Delete(_ context.Context, id int64) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	delete(r.items, id)
	return product, nil
}

func (r *productRepositoryInMemory) List(_ context.Context, page domain.PageRequest) ([]domain.Product, error) {
	return r.page(page, func(domain.Product) bool { return true }), nil
}

func (r *productRepositoryInMemory) SearchByName(_ context.Context, substring string, page domain.PageRequest) ([]domain.Product, error) {
	return r.page(page, func(p domain.Product) bool {
		return strings.Contains(p.Name, substring)
	}), nil
}

func (r *productRepositoryInMemory) page(page domain.PageRequest, match func(domain.Product) bool) []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		if match(product) {
			matched = append(matched, product)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return slicePage(matched, page)
}

// slicePage вырезает страницу из уже отсортированной выборки.
func slicePage[T any](items []T, page domain.PageRequest) []T {
	offset := page.Offset()
	if offset >= len(items) {
		return []T{}
	}
	end := offset + page.PageSize
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[offset:end]...)
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
