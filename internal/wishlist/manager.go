// Package wishlist owns the saved-products collection. Unlike the
// cart, membership is boolean: adding an already-saved product is a
// duplicate, not a quantity bump.
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/cart"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/domain"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/events"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/store"
)

var (
	ErrInvalidProduct = errors.New("product id is required")

	// ErrDuplicate is informational: the product is already saved and
	// the collection is left unchanged.
	ErrDuplicate = errors.New("product already in wishlist")

	ErrNotFound = errors.New("item not in wishlist")

	// ErrCartUnavailable aborts a move before the wishlist is touched.
	ErrCartUnavailable = errors.New("cart manager unavailable")
)

type Manager struct {
	store store.Store
	bus   *events.Bus
	cart  *cart.Manager

	mu sync.Mutex
}

// NewManager builds the wishlist over the shared store. The cart
// collaborator may be nil; MoveToCart then fails without side effects.
func NewManager(st store.Store, bus *events.Bus, cartManager *cart.Manager) *Manager {
	return &Manager{store: st, bus: bus, cart: cartManager}
}

// Items returns the persisted list, empty when nothing was ever saved.
func (m *Manager) Items(ctx context.Context) []domain.WishlistItem {
	return m.load(ctx)
}

// Has reports membership by product id.
func (m *Manager) Has(ctx context.Context, productID string) bool {
	for _, item := range m.load(ctx) {
		if item.ID == productID {
			return true
		}
	}
	return false
}

// Add saves a product. A product already on the list is rejected with
// ErrDuplicate and the collection length stays unchanged.
func (m *Manager) Add(ctx context.Context, product domain.Product) error {
	if product.ID == "" {
		log.Printf("wishlist: rejected add with empty product id (name=%q)", product.Name)
		return ErrInvalidProduct
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addLocked(ctx, product)
}

func (m *Manager) addLocked(ctx context.Context, product domain.Product) error {
	items := m.load(ctx)
	for _, item := range items {
		if item.ID == product.ID {
			return ErrDuplicate
		}
	}

	items = append(items, domain.WishlistItem{
		ID:        product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Image:     product.Image,
		AddedAt:   time.Now(),
	})
	return m.save(ctx, items)
}

// Remove deletes by id; absent ids are a silent no-op.
func (m *Manager) Remove(ctx context.Context, productID string) (bool, error) {
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

// Toggle adds the product if absent and removes it if present,
// reporting which action occurred. The membership check and the
// mutation run under one lock, so concurrent toggles of the same
// product alternate instead of racing.
func (m *Manager) Toggle(ctx context.Context, product domain.Product) (added bool, err error) {
	if product.ID == "" {
		return false, ErrInvalidProduct
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range m.load(ctx) {
		if item.ID == product.ID {
			_, err = m.removeLocked(ctx, product.ID)
			return false, err
		}
	}
	return true, m.addLocked(ctx, product)
}

// Clear replaces the list with an empty one.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(ctx, store.KeyWishlist, []domain.WishlistItem{}); err != nil {
		return fmt.Errorf("persist wishlist: %w", err)
	}
	m.bus.Publish(events.TopicWishlistCleared, nil)
	return nil
}

// Count is the number of saved products.
func (m *Manager) Count(ctx context.Context) int {
	return len(m.load(ctx))
}

// MoveToCart hands a saved product to the cart and then removes it
// from the wishlist. The move is atomic in effect: if the cart
// collaborator is missing or refuses the item, the wishlist entry
// stays put.
func (m *Manager) MoveToCart(ctx context.Context, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found *domain.WishlistItem
	for _, item := range m.load(ctx) {
		if item.ID == productID {
			found = &item
			break
		}
	}
	if found == nil {
		return ErrNotFound
	}
	if m.cart == nil {
		return ErrCartUnavailable
	}

	product := domain.Product{ID: found.ID, Name: found.Name, Price: found.UnitPrice, Image: found.Image}
	if err := m.cart.AddItem(ctx, product, 1); err != nil {
		return fmt.Errorf("move to cart: %w", err)
	}

	_, err := m.removeLocked(ctx, productID)
	return err
}

func (m *Manager) load(ctx context.Context) []domain.WishlistItem {
	var items []domain.WishlistItem
	found, err := m.store.Get(ctx, store.KeyWishlist, &items)
	if err != nil {
		log.Printf("wishlist: read failed, treating as empty: %v", err)
		return nil
	}
	if !found {
		return nil
	}
	return items
}

func (m *Manager) save(ctx context.Context, items []domain.WishlistItem) error {
	if items == nil {
		items = []domain.WishlistItem{}
	}
	if err := m.store.Set(ctx, store.KeyWishlist, items); err != nil {
		log.Printf("wishlist: persist failed: %v", err)
		return fmt.Errorf("persist wishlist: %w", err)
	}

	payload := make([]domain.WishlistItem, len(items))
	copy(payload, items)
	m.bus.Publish(events.TopicWishlistUpdated, payload)
	return nil
}
