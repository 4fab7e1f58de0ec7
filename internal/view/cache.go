package view

import (
	"context"
	"log"
	"sync"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/cart"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/events"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/wishlist"
)

// FragmentCache keeps every surface rendered and current. It
// subscribes to the mutation topics and fully re-derives the badge,
// mini-cart, cart and wishlist fragments on each event, so reads are
// always cache hits.
type FragmentCache struct {
	cart     *cart.Manager
	wishlist *wishlist.Manager
	renderer *Renderer

	mu        sync.RWMutex
	fragments map[string]string

	unsubscribe []func()
}

func NewFragmentCache(bus *events.Bus, cartManager *cart.Manager, wishlistManager *wishlist.Manager) *FragmentCache {
	c := &FragmentCache{
		cart:      cartManager,
		wishlist:  wishlistManager,
		renderer:  NewRenderer(),
		fragments: map[string]string{},
	}

	refreshCart := func(any) { c.refreshCart(context.Background()) }
	refreshWishlist := func(any) { c.refreshWishlist(context.Background()) }
	c.unsubscribe = []func(){
		bus.Subscribe(events.TopicCartUpdated, refreshCart),
		bus.Subscribe(events.TopicCartCleared, refreshCart),
		bus.Subscribe(events.TopicWishlistUpdated, refreshWishlist),
		bus.Subscribe(events.TopicWishlistCleared, refreshWishlist),
	}

	c.refreshCart(context.Background())
	c.refreshWishlist(context.Background())
	return c
}

// Fragment returns the current rendering of the named surface.
func (c *FragmentCache) Fragment(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	html, ok := c.fragments[name]
	return html, ok
}

// Close detaches the cache from the bus.
func (c *FragmentCache) Close() {
	for _, u := range c.unsubscribe {
		u()
	}
}

func (c *FragmentCache) refreshCart(ctx context.Context) {
	snapshot := c.cart.Snapshot(ctx)
	c.render(FragmentBadge, BuildCartView(snapshot).Badge)
	c.render(FragmentMiniCart, BuildMiniCart(snapshot))
	c.render(FragmentCart, BuildCartView(snapshot))
}

func (c *FragmentCache) refreshWishlist(ctx context.Context) {
	c.render(FragmentWishlist, BuildWishlistView(c.wishlist.Items(ctx)))
}

func (c *FragmentCache) render(name string, data any) {
	html, err := c.renderer.Render(name, data)
	if err != nil {
		log.Printf("view: failed to render %s: %v", name, err)
		return
	}
	c.mu.Lock()
	c.fragments[name] = html
	c.mu.Unlock()
}
