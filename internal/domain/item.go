package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one cart entry. Identity is ID; two items with the same
// ID are the same product and are merged, never duplicated.
type LineItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is unit price times quantity.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// WishlistItem is a quantity-less saved product. Membership is boolean:
// a product is either on the list or it is not.
type WishlistItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	AddedAt   time.Time       `json:"addedAt"`
}

// Product is a catalog entry as rendered into the storefront pages.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}
