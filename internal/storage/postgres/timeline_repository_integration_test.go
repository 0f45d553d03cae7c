package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestTimelineRepository_PostgresAppendAndList(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orderRepo := NewOrderRepository(store)
	timelineRepo := NewTimelineRepository(store)
	ctx := context.Background()

	createdAt := time.Now().UTC().Add(-time.Minute).Round(time.Microsecond)
	order := domain.NewOrder("timeline-order", createdAt)
	if err := orderRepo.Create(ctx, order); err != nil {
		t.Fatalf("create order for timeline: %v", err)
	}

	// Нулевое время заполняется автоматически.
	if err := timelineRepo.Append(ctx, domain.TimelineEvent{
		OrderID: order.ID,
		Type:    domain.TimelineEventOrderCreated,
		Reason:  "created",
	}); err != nil {
		t.Fatalf("append timeline event with zero occurred: %v", err)
	}

	if err := timelineRepo.Append(ctx, domain.TimelineEvent{
		OrderID:  order.ID,
		Type:     domain.TimelineEventProductAdded,
		Reason:   "product 1 x2",
		Occurred: time.Now().UTC().Add(10 * time.Second),
	}); err != nil {
		t.Fatalf("append timeline event with explicit occurred: %v", err)
	}

	events, err := timelineRepo.List(ctx, order.ID)
	if err != nil {
		t.Fatalf("list timeline events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 timeline events, got %d", len(events))
	}
	if events[0].Type != domain.TimelineEventOrderCreated || events[1].Type != domain.TimelineEventProductAdded {
		t.Fatalf("events should come back in append order: %+v", events)
	}
	for _, event := range events {
		if event.OrderID != order.ID || event.Occurred.IsZero() {
			t.Fatalf("event is not fully populated: %+v", event)
		}
	}
}

func TestTimelineRepository_PostgresMissingOrder(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	timelineRepo := NewTimelineRepository(store)
	ctx := context.Background()

	if err := timelineRepo.Append(ctx, domain.TimelineEvent{
		OrderID: "missing-order",
		Type:    domain.TimelineEventOrderCreated,
	}); err == nil {
		t.Fatal("expected append error for missing order due FK constraint")
	}

	events, err := timelineRepo.List(ctx, "missing-order")
	if err != nil {
		t.Fatalf("list for missing order should not fail: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events for missing order, got %d", len(events))
	}
}
