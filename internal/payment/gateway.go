// Package payment adapts the storefront to the Paystack hosted
// checkout. The adapter resolves the charge amount, opens the
// transaction through a circuit-breaker-wrapped gateway call, and
// routes the widget's success/close callbacks back into the order
// flow.
package payment

import "context"

// ChargeRequest is everything the gateway needs to open a transaction.
// Amounts are in kobo, the NGN minor unit.
type ChargeRequest struct {
	MerchantKey string
	Email       string
	AmountKobo  int64
	Currency    string
	Reference   string
}

// Handoff points the shopper at the gateway's hosted payment page.
type Handoff struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// Gateway opens a transaction with the external payment provider.
type Gateway interface {
	Initialize(ctx context.Context, req ChargeRequest) (*Handoff, error)
}
