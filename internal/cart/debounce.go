package cart

import (
	"context"
	"log"
	"sync"
	"time"
)

// QuantityEditor coalesces rapid quantity edits so only the settled
// value for each product commits. Each edit restarts that product's
// timer; when the window elapses the last value wins.
type QuantityEditor struct {
	manager *Manager
	delay   time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewQuantityEditor(manager *Manager, delay time.Duration) *QuantityEditor {
	return &QuantityEditor{
		manager: manager,
		delay:   delay,
		timers:  map[string]*time.Timer{},
	}
}

// Edit schedules a quantity change for productID. Non-positive input
// from a garbled field is floored to 1 before scheduling; an explicit
// zero still reaches the manager through UpdateQuantity directly.
func (e *QuantityEditor) Edit(productID string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if timer, ok := e.timers[productID]; ok {
		timer.Stop()
	}
	e.timers[productID] = time.AfterFunc(e.delay, func() {
		e.mu.Lock()
		delete(e.timers, productID)
		e.mu.Unlock()

		if _, err := e.manager.UpdateQuantity(context.Background(), productID, quantity); err != nil {
			log.Printf("cart: debounced quantity update failed for %q: %v", productID, err)
		}
	})
}

// Close cancels all pending edits without committing them.
func (e *QuantityEditor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, timer := range e.timers {
		timer.Stop()
		delete(e.timers, id)
	}
}
