package catalogue_test

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalogue"
	"github.com/vladislavdragonenkov/storefront/internal/service/idempotency"
	"github.com/vladislavdragonenkov/storefront/internal/service/validation"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

var now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func newValidator(products domain.ProductRepository) *validation.Validator {
	guard := idempotency.NewGuard(memory.NewIdempotencyRepository(), nil, nil)
	return validation.New(guard, memory.NewOrderRepository(), products, validation.WithClock(func() time.Time { return now }))
}

func intPtr(v int) *int { return &v }

func TestProductService_Lifecycle(t *testing.T) {
	repo := memory.NewProductRepository()
	svc := catalogue.NewProductService(newValidator(repo), repo, nil)
	ctx := context.Background()

	created, err := svc.Add(ctx, "k1", domain.ProductInput{Name: "  Coffee ", Description: "beans", Price: " 10.00 "})
	require.NoError(t, err)
	require.Equal(t, "Coffee", created.Name)
	require.Equal(t, "10.00", created.Price)

	_, err = svc.Add(ctx, "k1", domain.ProductInput{Name: "Tea", Price: "1"})
	require.Equal(t, domain.KindDuplicateKey, domain.KindOf(err))

	updated, err := svc.Update(ctx, "k2", created.ID, domain.ProductInput{Name: "Coffee XL", Price: "12.5"})
	require.NoError(t, err)
	require.Equal(t, "12.5", updated.Price)

	_, err = svc.Update(ctx, "k3", 404, domain.ProductInput{Name: "x", Price: "1"})
	require.Equal(t, domain.KindProductNotFound, domain.KindOf(err))
	require.Equal(t, domain.MsgProductNotFound, domain.AsBusinessError(err).Message)

	deleted, err := svc.Delete(ctx, "k4", created.ID)
	require.NoError(t, err)
	require.Equal(t, updated, deleted)

	_, err = svc.Delete(ctx, "k5", created.ID)
	require.Equal(t, domain.KindProductNotFound, domain.KindOf(err))
}

func TestProductService_ListPagingAndSearch(t *testing.T) {
	repo := memory.NewProductRepository()
	svc := catalogue.NewProductService(newValidator(repo), repo, nil)
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		name := fmt.Sprintf("Item %02d", i)
		if i%4 == 0 {
			name = fmt.Sprintf("Tea %02d", i)
		}
		_, err := svc.Add(ctx, fmt.Sprintf("add-%d", i), domain.ProductInput{Name: name, Price: "1"})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, "", nil, nil)
	require.NoError(t, err)
	require.Len(t, page, domain.DefaultPageSize)
	require.Equal(t, int64(1), page[0].ID)

	// pageSize=0 возвращается к размеру по умолчанию.
	page, err = svc.List(ctx, "", intPtr(1), intPtr(0))
	require.NoError(t, err)
	require.Len(t, page, 2)

	page, err = svc.List(ctx, "  ", intPtr(0), intPtr(1000))
	require.NoError(t, err)
	require.Len(t, page, 12)

	found, err := svc.List(ctx, "Tea", intPtr(0), intPtr(2))
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Equal(t, "Tea 04", found[0].Name)

	found, err = svc.List(ctx, "tea", nil, nil)
	require.NoError(t, err)
	require.Empty(t, found)

	_, err = svc.List(ctx, "", intPtr(-1), nil)
	require.Equal(t, domain.KindInvalidPagination, domain.KindOf(err))

	// Номер страницы, у которой смещение не помещается в int, даёт пустую страницу.
	for _, search := range []string{"", "Tea"} {
		page, err = svc.List(ctx, search, intPtr(math.MaxInt/10+1), intPtr(10))
		require.NoError(t, err)
		require.Empty(t, page)
	}
}

func TestNewsService_AddAndList(t *testing.T) {
	products := memory.NewProductRepository()
	repo := memory.NewNewsRepository()
	svc := catalogue.NewNewsService(newValidator(products), repo, nil)
	ctx := context.Background()

	moscow := time.FixedZone("MSK", 3*60*60)
	news, err := svc.Add(ctx, "n1", domain.NewsInput{
		Title:      " Summer sale ",
		ExpiryDate: now.Add(48 * time.Hour).In(moscow),
	})
	require.NoError(t, err)
	require.Equal(t, "Summer sale", news.Title)
	require.Equal(t, time.UTC, news.ExpiryDate.Location())

	_, err = svc.Add(ctx, "n2", domain.NewsInput{Title: "Old", ExpiryDate: now.Add(-time.Hour)})
	require.Equal(t, domain.KindInvalidExpiryDate, domain.KindOf(err))

	_, err = svc.Add(ctx, "n1", domain.NewsInput{Title: "Dup", ExpiryDate: now.Add(time.Hour)})
	require.Equal(t, domain.KindDuplicateKey, domain.KindOf(err))

	listed, err := svc.List(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, news.ID, listed[0].ID)

	_, err = svc.List(ctx, nil, intPtr(-3))
	require.Equal(t, domain.KindInvalidPagination, domain.KindOf(err))

	listed, err = svc.List(ctx, intPtr(math.MaxInt), intPtr(domain.MaxPageSize))
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestExpiryWorker_RemovesOnlyExpiredNews(t *testing.T) {
	repo := memory.NewNewsRepository()
	ctx := context.Background()

	for _, offset := range []time.Duration{-2 * time.Hour, -time.Minute, time.Hour} {
		_, err := repo.Create(ctx, domain.NewsInput{Title: "n", ExpiryDate: now.Add(offset)})
		require.NoError(t, err)
	}

	worker := catalogue.NewExpiryWorker(repo, catalogue.WithBatchSize(1), catalogue.WithClock(func() time.Time { return now }))
	deleted, err := worker.DeleteExpired(ctx, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 2, deleted)

	left, err := repo.List(ctx, domain.PageRequest{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, left, 1)
}
