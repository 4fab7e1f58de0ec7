package view

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/cart"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/domain"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/events"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/store"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/wishlist"
)

func TestBadgeText(t *testing.T) {
	assert.Equal(t, "", BadgeText(0))
	assert.Equal(t, "", BadgeText(-1))
	assert.Equal(t, "1", BadgeText(1))
	assert.Equal(t, "99", BadgeText(99))
	assert.Equal(t, "99+", BadgeText(100))
	assert.Equal(t, "99+", BadgeText(250))
}

func sampleSnapshot() domain.CartSnapshot {
	return domain.NewCartSnapshot([]domain.LineItem{
		{ID: "a", Name: "Shea Butter", UnitPrice: decimal.NewFromInt(5000), Quantity: 2},
		{ID: "b", Name: "Body Oil", UnitPrice: decimal.NewFromInt(305000), Quantity: 1},
	})
}

func TestBuildCartView(t *testing.T) {
	v := BuildCartView(sampleSnapshot())

	assert.False(t, v.Empty)
	require.Len(t, v.Lines, 2)
	assert.Equal(t, "₦5,000", v.Lines[0].UnitPrice)
	assert.Equal(t, "₦10,000", v.Lines[0].LineTotal)
	assert.Equal(t, "₦315,000", v.Subtotal)
	assert.Equal(t, "₦315,000", v.Total)
	assert.Equal(t, "3", v.Badge)
}

func TestBuildCartView_Empty(t *testing.T) {
	v := BuildCartView(domain.NewCartSnapshot(nil))

	assert.True(t, v.Empty)
	assert.Empty(t, v.Lines)
	assert.Equal(t, "₦0", v.Subtotal)
	assert.Equal(t, "", v.Badge)
}

func TestBuildWishlistView(t *testing.T) {
	v := BuildWishlistView([]domain.WishlistItem{
		{ID: "a", Name: "Shea Butter", UnitPrice: decimal.NewFromInt(5000)},
	})

	assert.False(t, v.Empty)
	require.Len(t, v.Rows, 1)
	assert.True(t, v.Rows[0].Saved)
	assert.Equal(t, "1", v.Badge)

	assert.True(t, BuildWishlistView(nil).Empty)
}

func TestRenderer_EmptyStates(t *testing.T) {
	r := NewRenderer()

	html, err := r.Render(FragmentCart, BuildCartView(domain.NewCartSnapshot(nil)))
	require.NoError(t, err)
	assert.Contains(t, html, "Your cart is empty")

	html, err = r.Render(FragmentWishlist, BuildWishlistView(nil))
	require.NoError(t, err)
	assert.Contains(t, html, "Your wishlist is empty")

	html, err = r.Render(FragmentBadge, BadgeText(0))
	require.NoError(t, err)
	assert.Empty(t, html)
}

func TestRenderer_CartTable(t *testing.T) {
	r := NewRenderer()

	html, err := r.Render(FragmentCart, BuildCartView(sampleSnapshot()))
	require.NoError(t, err)

	assert.Contains(t, html, `data-id="a"`)
	assert.Contains(t, html, "₦315,000")
	assert.Contains(t, html, `value="2"`)
	assert.Contains(t, html, "cart-clear")
}

func TestFragmentCache_TracksMutations(t *testing.T) {
	st := store.NewMemory()
	bus := events.New()
	cartManager := cart.NewManager(st, bus)
	wishlistManager := wishlist.NewManager(st, bus, cartManager)
	ctx := context.Background()

	c := NewFragmentCache(bus, cartManager, wishlistManager)
	defer c.Close()

	badge, ok := c.Fragment(FragmentBadge)
	require.True(t, ok)
	assert.Empty(t, badge)

	p := domain.Product{ID: "a", Name: "Shea Butter", Price: decimal.NewFromInt(5000)}
	require.NoError(t, cartManager.AddItem(ctx, p, 2))

	badge, _ = c.Fragment(FragmentBadge)
	assert.Contains(t, badge, ">2<")

	mini, _ := c.Fragment(FragmentMiniCart)
	assert.Contains(t, mini, "Shea Butter")
	assert.Contains(t, mini, "₦10,000")

	require.NoError(t, wishlistManager.Add(ctx, p))
	wl, _ := c.Fragment(FragmentWishlist)
	assert.Contains(t, wl, "is-saved")

	require.NoError(t, cartManager.Clear(ctx))
	full, _ := c.Fragment(FragmentCart)
	assert.Contains(t, full, "Your cart is empty")
}
