package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// timelineRepository хранит историю заказа в order_events.
// Порядок событий задаёт seq, а не время: у соседних событий оно может совпасть.
type timelineRepository struct {
	db *sql.DB
}

// NewTimelineRepository создаёт PostgreSQL-реализацию TimelineRepository.
func NewTimelineRepository(store *Store) domain.TimelineRepository {
	return &timelineRepository{db: store.DB()}
}

const insertOrderEvent = `
	INSERT INTO order_events (order_id, event_type, details, occurred_at)
	VALUES ($1, $2, $3, $4)
`

const selectOrderEvents = `
	SELECT event_type, details, occurred_at
	FROM order_events
	WHERE order_id = $1
	ORDER BY seq
`

func (r *timelineRepository) Append(ctx context.Context, event domain.TimelineEvent) error {
	occurred := event.Occurred
	if occurred.IsZero() {
		occurred = time.Now()
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, insertOrderEvent, event.OrderID, event.Type, event.Reason, occurred.UTC())
	if err != nil {
		return fmt.Errorf("append %s event for order %s: %w", event.Type, event.OrderID, err)
	}
	return nil
}

func (r *timelineRepository) List(ctx context.Context, orderID string) ([]domain.TimelineEvent, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, selectOrderEvents, orderID)
	if err != nil {
		return nil, fmt.Errorf("query events of order %s: %w", orderID, err)
	}
	defer rows.Close()

	return scanOrderEvents(rows, orderID)
}

func scanOrderEvents(rows *sql.Rows, orderID string) ([]domain.TimelineEvent, error) {
	events := []domain.TimelineEvent{}
	for rows.Next() {
		event := domain.TimelineEvent{OrderID: orderID}
		if err := rows.Scan(&event.Type, &event.Reason, &event.Occurred); err != nil {
			return nil, fmt.Errorf("scan order event: %w", err)
		}
		event.Occurred = event.Occurred.UTC()
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read order events: %w", err)
	}
	return events, nil
}

var _ domain.TimelineRepository = (*timelineRepository)(nil)
