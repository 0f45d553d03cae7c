package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type newsRepositoryInMemory struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]domain.News
}

// NewNewsRepository создаёт in-memory хранилище новостей.
func NewNewsRepository() domain.NewsRepository {
	return &newsRepositoryInMemory{
		items: make(map[int64]domain.News),
	}
}

func (r *newsRepositoryInMemory) Create(_ context.Context, input domain.NewsInput) (domain.News, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	news := domain.News{
		ID:          r.nextID,
		Title:       input.Title,
		Description: input.Description,
		ExpiryDate:  input.ExpiryDate.UTC(),
	}
	r.items[news.ID] = news
	return news, nil
}

func (r *newsRepositoryInMemory) List(_ context.Context, page domain.PageRequest) ([]domain.News, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.News, 0, len(r.items))
	for _, news := range r.items {
		all = append(all, news)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	return slicePage(all, page), nil
}

// DeleteExpired удаляет самые старые по сроку новости, начиная с наименьшей даты окончания.
func (r *newsRepositoryInMemory) DeleteExpired(_ context.Context, before time.Time, limit int) (int, error) {
	if before.IsZero() {
		before = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	expired := make([]domain.News, 0)
	for _, news := range r.items {
		if news.ExpiryDate.After(before) {
			continue
		}
		expired = append(expired, news)
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].ExpiryDate.Before(expired[j].ExpiryDate) })

	if limit > 0 && len(expired) > limit {
		expired = expired[:limit]
	}
	for _, news := range expired {
		delete(r.items, news.ID)
	}

	return len(expired), nil
}

var _ domain.NewsRepository = (*newsRepositoryInMemory)(nil)
