// Package orders keeps the append-only order log and the outbox that
// mirrors completed orders to an optional event export.
package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/domain"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/events"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/store"
)

// OutboxEvent is one queued export of a completed order.
type OutboxEvent struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId"`
	EventType string          `json:"eventType"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

const eventTypeOrderCompleted = "order-completed"

type Repository struct {
	store store.Store
	bus   *events.Bus

	mu sync.Mutex
}

func NewRepository(st store.Store, bus *events.Bus) *Repository {
	return &Repository{store: st, bus: bus}
}

// Append writes the order to the log. Orders are write-once: nothing
// here ever mutates or removes a logged order. The matching outbox
// event is best-effort; the log entry is the authority.
func (r *Repository) Append(ctx context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.loadOrders(ctx)
	entries = append(entries, order)
	if err := r.store.Set(ctx, store.KeyOrders, entries); err != nil {
		return fmt.Errorf("persist order %s: %w", order.ID, err)
	}

	if err := r.queueOutboxEvent(ctx, order); err != nil {
		log.Printf("orders: outbox queue failed for %s: %v", order.ID, err)
	}

	r.bus.Publish(events.TopicOrderCompleted, order)
	return nil
}

// List returns a copy of the full order log, oldest first.
func (r *Repository) List(ctx context.Context) []domain.Order {
	orders := r.loadOrders(ctx)
	out := make([]domain.Order, len(orders))
	copy(out, orders)
	return out
}

// PendingEvents returns the queued outbox events awaiting export.
func (r *Repository) PendingEvents(ctx context.Context) []OutboxEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadOutbox(ctx)
}

// MarkExported removes the given events from the outbox queue.
func (r *Repository) MarkExported(ctx context.Context, eventIDs ...string) error {
	if len(eventIDs) == 0 {
		return nil
	}
	exported := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		exported[id] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	queue := r.loadOutbox(ctx)
	kept := queue[:0:0]
	for _, event := range queue {
		if !exported[event.ID] {
			kept = append(kept, event)
		}
	}
	if kept == nil {
		kept = []OutboxEvent{}
	}
	if err := r.store.Set(ctx, store.KeyOrderOutbox, kept); err != nil {
		return fmt.Errorf("persist outbox: %w", err)
	}
	return nil
}

func (r *Repository) queueOutboxEvent(ctx context.Context, order domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order payload: %w", err)
	}

	queue := r.loadOutbox(ctx)
	queue = append(queue, OutboxEvent{
		ID:        uuid.NewString(),
		OrderID:   order.ID,
		EventType: eventTypeOrderCompleted,
		Payload:   payload,
		CreatedAt: time.Now(),
	})
	if err := r.store.Set(ctx, store.KeyOrderOutbox, queue); err != nil {
		return fmt.Errorf("persist outbox: %w", err)
	}
	return nil
}

func (r *Repository) loadOrders(ctx context.Context) []domain.Order {
	var orders []domain.Order
	found, err := r.store.Get(ctx, store.KeyOrders, &orders)
	if err != nil {
		log.Printf("orders: read failed, treating as empty: %v", err)
		return nil
	}
	if !found {
		return nil
	}
	return orders
}

func (r *Repository) loadOutbox(ctx context.Context) []OutboxEvent {
	var queue []OutboxEvent
	found, err := r.store.Get(ctx, store.KeyOrderOutbox, &queue)
	if err != nil {
		log.Printf("orders: outbox read failed, treating as empty: %v", err)
		return nil
	}
	if !found {
		return nil
	}
	return queue
}
