package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestProductRepository_PostgresCRUD(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.ProductInput{Name: "Coffee", Description: "beans", Price: "10.00"})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	updated, err := repo.Update(ctx, created.ID, domain.ProductInput{Name: "Coffee XL", Price: "12.50"})
	require.NoError(t, err)
	require.Equal(t, domain.Product{ID: created.ID, Name: "Coffee XL", Price: "12.50"}, updated)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, updated, deleted)

	exists, err := repo.Exists(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, exists)

	_, err = repo.Get(ctx, created.ID)
	require.True(t, errors.Is(err, domain.ErrProductNotFound))
	_, err = repo.Update(ctx, created.ID, domain.ProductInput{Name: "x", Price: "1"})
	require.True(t, errors.Is(err, domain.ErrProductNotFound))
	_, err = repo.Delete(ctx, created.ID)
	require.True(t, errors.Is(err, domain.ErrProductNotFound))
}

func TestProductRepository_PostgresListAndSearch(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)
	ctx := context.Background()

	for _, name := range []string{"Green tea", "Black tea", "Coffee", "Tea set", "100%_pure"} {
		_, err := repo.Create(ctx, domain.ProductInput{Name: name, Price: "1"})
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, domain.PageRequest{PageNo: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "Coffee", page[0].Name)
	require.Equal(t, "Tea set", page[1].Name)

	found, err := repo.SearchByName(ctx, "tea", domain.PageRequest{PageNo: 0, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, found, 2)

	// Символы шаблона LIKE ищутся буквально.
	found, err = repo.SearchByName(ctx, "%_", domain.PageRequest{PageNo: 0, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "100%_pure", found[0].Name)
}

func TestNewsRepository_PostgresCreateListAndDeleteExpired(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewNewsRepository(store)
	ctx := context.Background()
	now := time.Now().UTC().Round(time.Microsecond)

	for _, offset := range []time.Duration{-3 * time.Hour, -2 * time.Hour, -time.Hour, time.Hour} {
		_, err := repo.Create(ctx, domain.NewsInput{Title: "news", ExpiryDate: now.Add(offset)})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, domain.PageRequest{PageNo: 0, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.True(t, all[0].ExpiryDate.Equal(now.Add(-3*time.Hour)))

	removed, err := repo.DeleteExpired(ctx, now, 2)
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	removed, err = repo.DeleteExpired(ctx, now, 10)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	removed, err = repo.DeleteExpired(ctx, now, 0)
	require.NoError(t, err)
	require.Zero(t, removed)

	left, err := repo.List(ctx, domain.PageRequest{PageNo: 0, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, left, 1)
	require.Equal(t, int64(4), left[0].ID)
}
