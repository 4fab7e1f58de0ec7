// Package cart owns the shopping cart collection: an insertion-ordered
// set of line items unique by product id, persisted as a whole on every
// mutation. The store is the source of truth; the manager never keeps
// an authoritative in-memory copy.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/domain"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/events"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/store"
)

// ErrInvalidProduct rejects products without a usable id. The cart is
// keyed by id; an item without one could never be merged or removed.
var ErrInvalidProduct = errors.New("product id is required")

type Manager struct {
	store store.Store
	bus   *events.Bus

	// mu keeps each read-modify-write plus its event publish
	// uninterruptible, so no view ever renders a pre-write state.
	mu  sync.Mutex
	sfg singleflight.Group
}

func NewManager(st store.Store, bus *events.Bus) *Manager {
	return &Manager{store: st, bus: bus}
}

// Items returns the persisted collection. A cart that was never written
// is empty; it is never seeded with defaults.
func (m *Manager) Items(ctx context.Context) []domain.LineItem {
	return m.load(ctx)
}

// AddItem merges by product id: an existing line gains the incoming
// quantity, a new product is appended. Quantity defaults to 1.
func (m *Manager) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if product.ID == "" {
		log.Printf("cart: rejected add with empty product id (name=%q)", product.Name)
		return ErrInvalidProduct
	}
	if quantity < 1 {
		quantity = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.load(ctx)
	merged := false
	for i := range items {
		if items[i].ID == product.ID {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, domain.LineItem{
			ID:        product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Image:     product.Image,
			Quantity:  quantity,
		})
	}

	return m.save(ctx, items)
}

// RemoveItem deletes the line with the given id. Removing an absent id
// is a no-op: the second of two identical removals changes nothing.
func (m *Manager) RemoveItem(ctx context.Context, productID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(ctx, productID)
}

func (m *Manager) removeLocked(ctx context.Context, productID string) (bool, error) {
	items := m.load(ctx)
	kept := items[:0:0]
	for _, item := range items {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	return true, m.save(ctx, kept)
}

// UpdateQuantity overwrites a line's quantity. A quantity of zero or
// below removes the line entirely; the collection never stores one.
func (m *Manager) UpdateQuantity(ctx context.Context, productID string, quantity int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if quantity <= 0 {
		return m.removeLocked(ctx, productID)
	}

	items := m.load(ctx)
	for i := range items {
		if items[i].ID == productID {
			items[i].Quantity = quantity
			return true, m.save(ctx, items)
		}
	}
	return false, nil
}

// Clear replaces the collection with an empty one.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(ctx, store.KeyCart, []domain.LineItem{}); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	m.bus.Publish(events.TopicCartCleared, nil)
	return nil
}

// ItemCount is the sum of line quantities.
func (m *Manager) ItemCount(ctx context.Context) int {
	count := 0
	for _, item := range m.load(ctx) {
		count += item.Quantity
	}
	return count
}

// Subtotal is recomputed fresh from the stored collection on every call.
func (m *Manager) Subtotal(ctx context.Context) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range m.load(ctx) {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

// Total currently equals the subtotal; shipping and tax would extend it.
func (m *Manager) Total(ctx context.Context) decimal.Decimal {
	return m.Subtotal(ctx)
}

// Snapshot derives the full cart view. Concurrent snapshot reads
// collapse into one store round trip.
func (m *Manager) Snapshot(ctx context.Context) domain.CartSnapshot {
	v, _, _ := m.sfg.Do(store.KeyCart, func() (any, error) {
		return domain.NewCartSnapshot(m.load(ctx)), nil
	})
	return v.(domain.CartSnapshot)
}

func (m *Manager) load(ctx context.Context) []domain.LineItem {
	var items []domain.LineItem
	found, err := m.store.Get(ctx, store.KeyCart, &items)
	if err != nil {
		log.Printf("cart: read failed, treating as empty: %v", err)
		return nil
	}
	if !found {
		return nil
	}
	return items
}

// save persists the full collection, then notifies views. On write
// failure nothing is published: the UI must keep projecting the last
// persisted state.
func (m *Manager) save(ctx context.Context, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	if err := m.store.Set(ctx, store.KeyCart, items); err != nil {
		log.Printf("cart: persist failed: %v", err)
		return fmt.Errorf("persist cart: %w", err)
	}

	payload := make([]domain.LineItem, len(items))
	copy(payload, items)
	m.bus.Publish(events.TopicCartUpdated, payload)
	return nil
}
