// Package events is the in-process notification bus that decouples
// state mutation from view refresh. Managers publish after every
// successful persist; renderers and other components subscribe.
package events

import (
	"log"
	"sync"
)

// Topics published by the storefront managers.
const (
	TopicCartUpdated      = "cart:updated"
	TopicCartCleared      = "cart:cleared"
	TopicWishlistUpdated  = "wishlist:updated"
	TopicWishlistCleared  = "wishlist:cleared"
	TopicAuthLogin        = "auth:login"
	TopicAuthLogout       = "auth:logout"
	TopicOrderCompleted   = "order:completed"
	TopicNewsletterSignup = "newsletter:subscribed"
)

// Handler receives the payload published with an event. Payloads are
// fire-and-forget copies; handlers must not assume exclusive ownership.
type Handler func(payload any)

type subscriber struct {
	id      int
	handler Handler
}

// Bus dispatches synchronously in subscription order. A panicking
// subscriber is logged and skipped so one broken view cannot take the
// publisher down with it.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]subscriber
}

func New() *Bus {
	return &Bus{subs: map[string][]subscriber{}}
}

// Subscribe registers a handler for a topic and returns the matching
// unsubscribe func.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[topic]
		for i, s := range list {
			if s.id == id {
				b.subs[topic] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers payload to every subscriber of topic.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	list := make([]subscriber, len(b.subs[topic]))
	copy(list, b.subs[topic])
	b.mu.RUnlock()

	for _, s := range list {
		b.dispatch(topic, s, payload)
	}
}

func (b *Bus) dispatch(topic string, s subscriber, payload any) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("events: subscriber panic on %q: %v", topic, r)
		}
	}()
	s.handler(payload)
}
