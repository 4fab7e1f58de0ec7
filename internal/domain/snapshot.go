package domain

import "github.com/shopspring/decimal"

// Currency is the only currency the storefront trades in.
const Currency = "NGN"

// CartSnapshot is the derived view of a cart collection. It is always
// recomputed from the items and never persisted on its own.
type CartSnapshot struct {
	Items     []LineItem      `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
}

// NewCartSnapshot computes the snapshot for a cart collection. The
// total currently equals the subtotal; shipping and tax would land
// here.
func NewCartSnapshot(items []LineItem) CartSnapshot {
	snapshot := CartSnapshot{
		Items:    make([]LineItem, len(items)),
		Subtotal: decimal.Zero,
		Currency: Currency,
	}
	copy(snapshot.Items, items)

	for _, item := range items {
		snapshot.ItemCount += item.Quantity
		snapshot.Subtotal = snapshot.Subtotal.Add(item.LineTotal())
	}
	snapshot.Total = snapshot.Subtotal
	return snapshot
}
