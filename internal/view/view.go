// Package view derives the page surfaces from storefront state. The
// builders are pure: snapshot in, view model out. Rendering to HTML
// fragments happens separately, and the FragmentCache re-renders every
// surface whenever the underlying collections change.
package view

import (
	"strconv"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/domain"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/pricing"
)

const badgeCap = 99

// BadgeText renders a header badge count. Zero hides the badge; counts
// above the cap collapse to "99+" so the badge never widens the header.
func BadgeText(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > badgeCap:
		return "99+"
	default:
		return strconv.Itoa(count)
	}
}

// CartLine is one rendered row of the cart table or mini-cart.
type CartLine struct {
	ID        string
	Name      string
	Image     string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// CartView is the full cart page model.
type CartView struct {
	Empty    bool
	Lines    []CartLine
	Subtotal string
	Total    string
	Badge    string
}

// MiniCartView is the header aside: a compact line list with a running
// subtotal and per-line remove affordances.
type MiniCartView struct {
	Empty    bool
	Lines    []CartLine
	Subtotal string
	Badge    string
}

// WishlistRow is one rendered row of the wishlist table.
type WishlistRow struct {
	ID        string
	Name      string
	Image     string
	UnitPrice string
	Saved     bool
}

// WishlistView is the wishlist page model.
type WishlistView struct {
	Empty bool
	Rows  []WishlistRow
	Badge string
}

func cartLines(items []domain.LineItem) []CartLine {
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLine{
			ID:        item.ID,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			UnitPrice: pricing.FormatNaira(item.UnitPrice),
			LineTotal: pricing.FormatNaira(item.LineTotal()),
		})
	}
	return lines
}

// BuildCartView renders a cart snapshot into the cart page model.
func BuildCartView(snapshot domain.CartSnapshot) CartView {
	return CartView{
		Empty:    len(snapshot.Items) == 0,
		Lines:    cartLines(snapshot.Items),
		Subtotal: pricing.FormatNaira(snapshot.Subtotal),
		Total:    pricing.FormatNaira(snapshot.Total),
		Badge:    BadgeText(snapshot.ItemCount),
	}
}

// BuildMiniCart renders a cart snapshot into the header aside model.
func BuildMiniCart(snapshot domain.CartSnapshot) MiniCartView {
	return MiniCartView{
		Empty:    len(snapshot.Items) == 0,
		Lines:    cartLines(snapshot.Items),
		Subtotal: pricing.FormatNaira(snapshot.Subtotal),
		Badge:    BadgeText(snapshot.ItemCount),
	}
}

// BuildWishlistView renders the saved items into the wishlist page
// model. Every row is saved by definition, so its heart renders filled.
func BuildWishlistView(items []domain.WishlistItem) WishlistView {
	rows := make([]WishlistRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, WishlistRow{
			ID:        item.ID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: pricing.FormatNaira(item.UnitPrice),
			Saved:     true,
		})
	}
	return WishlistView{
		Empty: len(items) == 0,
		Rows:  rows,
		Badge: BadgeText(len(items)),
	}
}
