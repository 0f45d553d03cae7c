package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type newsRepository struct {
	db *sql.DB
}

// NewNewsRepository создаёт PostgreSQL-реализацию хранилища новостей.
func NewNewsRepository(store *Store) domain.NewsRepository {
	return &newsRepository{db: store.DB()}
}

func (r *newsRepository) Create(ctx context.Context, input domain.NewsInput) (domain.News, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	news := domain.News{
		Title:       input.Title,
		Description: input.Description,
		ExpiryDate:  input.ExpiryDate.UTC(),
	}
	if err := r.db.QueryRowContext(ctx, `
		INSERT INTO news (title, description, expiry_date)
		VALUES ($1, $2, $3)
		RETURNING id
	`, news.Title, news.Description, news.ExpiryDate).Scan(&news.ID); err != nil {
		return domain.News{}, fmt.Errorf("insert news: %w", err)
	}
	return news, nil
}

func (r *newsRepository) List(ctx context.Context, page domain.PageRequest) ([]domain.News, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, expiry_date
		FROM news
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	defer rows.Close()

	items := make([]domain.News, 0)
	for rows.Next() {
		var n domain.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Description, &n.ExpiryDate); err != nil {
			return nil, fmt.Errorf("scan news row: %w", err)
		}
		n.ExpiryDate = n.ExpiryDate.UTC()
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate news rows: %w", err)
	}
	return items, nil
}

// DeleteExpired удаляет пачку самых старых просроченных новостей.
func (r *newsRepository) DeleteExpired(ctx context.Context, before time.Time, limit int) (int, error) {
	if limit <= 0 {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM news
		WHERE id IN (
			SELECT id
			FROM news
			WHERE expiry_date <= $1
			ORDER BY expiry_date ASC
			LIMIT $2
		)
	`, before.UTC(), limit)
	if err != nil {
		return 0, fmt.Errorf("delete expired news: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

var _ domain.NewsRepository = (*newsRepository)(nil)
