// Package store is the durable key-value layer every storefront
// collection lives behind. Values are JSON-serializable blobs; the
// store is the single source of truth and managers re-read it on every
// operation rather than caching authoritative state in memory.
package store

import "context"

// Persisted keys. The names are stable: they are the storage schema.
const (
	KeyAuth        = "esthetical_auth"
	KeyUsers       = "esthetical_users"
	KeyCart        = "esthetical_cart"
	KeyWishlist    = "esthetical_wishlist"
	KeyNewsletter  = "esthetical_newsletter_subscribers"
	KeyOrders      = "esthetical_orders"
	KeyOrderOutbox = "esthetical_order_outbox"
)

// Store is defined here for its consumers; backends implement it.
//
// Get decodes the value at key into dest and reports whether a usable
// value existed. A missing key or a corrupt payload is not an error:
// both report false and leave dest untouched, so callers fall back to
// their defaults. Set persists the full value for the key and returns
// an error on write failure; callers must not update any derived state
// when Set fails.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}
