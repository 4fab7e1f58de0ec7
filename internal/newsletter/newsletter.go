// Package newsletter keeps the footer signup list.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/events"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/pricing"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/store"
)

var (
	ErrInvalidEmail = errors.New("please enter a valid email address")
	// ErrAlreadySubscribed is informational: the address is on the list
	// either way.
	ErrAlreadySubscribed = errors.New("this email is already subscribed")
)

type Manager struct {
	store store.Store
	bus   *events.Bus
	mu    sync.Mutex
}

func NewManager(st store.Store, bus *events.Bus) *Manager {
	return &Manager{store: st, bus: bus}
}

// Subscribe adds a normalized address to the list once.
func (m *Manager) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !pricing.ValidateEmail(email) {
		return ErrInvalidEmail
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	subscribers := m.load(ctx)
	for _, s := range subscribers {
		if s == email {
			return ErrAlreadySubscribed
		}
	}

	if err := m.store.Set(ctx, store.KeyNewsletter, append(subscribers, email)); err != nil {
		return fmt.Errorf("failed to save subscriber: %w", err)
	}
	m.bus.Publish(events.TopicNewsletterSignup, email)
	return nil
}

// Subscribers returns the current list in signup order.
func (m *Manager) Subscribers(ctx context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx)
}

func (m *Manager) load(ctx context.Context) []string {
	var subscribers []string
	if _, err := m.store.Get(ctx, store.KeyNewsletter, &subscribers); err != nil {
		log.Printf("newsletter: failed to read subscribers: %v", err)
	}
	return subscribers
}
