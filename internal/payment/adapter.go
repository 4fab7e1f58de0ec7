package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/cart"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/domain"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/pricing"
)

var (
	ErrGatewayUnavailable = errors.New("payment gateway is not configured")
	ErrInvalidEmail       = errors.New("a valid email is required to start payment")
	ErrNoFinalizer        = errors.New("no order finalizer bound to the payment adapter")
	ErrAlreadyHandled     = errors.New("payment callback already handled")
)

// OrderFinalizer receives the gateway's verdict. The checkout
// orchestrator implements it; the binding happens at composition time
// because both sides need to exist first.
type OrderFinalizer interface {
	FinalizeGatewayOrder(ctx context.Context, reference string) (*domain.Order, error)
	HandleCancelled()
}

// Config carries merchant identity and the amount fallbacks used when
// the live cart cannot supply a total.
type Config struct {
	MerchantKey string
	// AmountKobo is an explicit charge override in kobo.
	AmountKobo int64
	// AmountNaira is a charge override in naira, converted to kobo.
	AmountNaira decimal.Decimal
	// DisplayedTotal is the last resort: the formatted total string
	// shown on the page, e.g. "₦315,000".
	DisplayedTotal string
}

// Adapter starts gateway charges for the checkout flow and funnels the
// widget callbacks back into it.
type Adapter struct {
	cart    *cart.Manager
	gateway Gateway
	breaker *gobreaker.CircuitBreaker[*Handoff]
	cfg     Config

	mu        sync.Mutex
	finalizer OrderFinalizer
	handoff   *Handoff
	reference string
	handled   bool
}

func NewAdapter(cartManager *cart.Manager, gateway Gateway, cfg Config) *Adapter {
	settings := gobreaker.Settings{
		Name:    "paystack",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &Adapter{
		cart:    cartManager,
		gateway: gateway,
		breaker: gobreaker.NewCircuitBreaker[*Handoff](settings),
		cfg:     cfg,
	}
}

// SetFinalizer binds the order flow that consumes the success and
// close callbacks.
func (a *Adapter) SetFinalizer(f OrderFinalizer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.finalizer = f
}

// NewReference builds a fresh transaction reference.
func NewReference() string {
	return fmt.Sprintf("ORDER_%d_%06d", time.Now().UnixMilli(), rand.Intn(1_000_000))
}

// Charge opens a transaction for the given email. The charge amount
// comes from the live cart when it has one, otherwise from the
// configured overrides.
func (a *Adapter) Charge(ctx context.Context, email string) error {
	if a.gateway == nil {
		return ErrGatewayUnavailable
	}
	if !pricing.ValidateEmail(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	req := ChargeRequest{
		MerchantKey: a.cfg.MerchantKey,
		Email:       email,
		AmountKobo:  a.amountKobo(ctx),
		Currency:    domain.Currency,
		Reference:   NewReference(),
	}

	handoff, err := a.breaker.Execute(func() (*Handoff, error) {
		return a.gateway.Initialize(ctx, req)
	})
	if err != nil {
		return fmt.Errorf("failed to initialize transaction %s: %w", req.Reference, err)
	}

	a.mu.Lock()
	a.handoff = handoff
	a.reference = handoff.Reference
	a.handled = false
	a.mu.Unlock()

	log.Printf("payment: transaction %s initialized for %s", handoff.Reference, email)
	return nil
}

// amountKobo resolves the charge amount: live cart total first, then
// the explicit kobo override, the naira override, and finally whatever
// total string the page displayed.
func (a *Adapter) amountKobo(ctx context.Context) int64 {
	if total := a.cart.Total(ctx); total.IsPositive() {
		return pricing.ToKobo(total)
	}
	if a.cfg.AmountKobo > 0 {
		return a.cfg.AmountKobo
	}
	if a.cfg.AmountNaira.IsPositive() {
		return pricing.ToKobo(a.cfg.AmountNaira)
	}
	return pricing.ToKobo(pricing.ParseAmount(a.cfg.DisplayedTotal))
}

// Handoff returns the most recent gateway handoff, if any.
func (a *Adapter) Handoff() *Handoff {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handoff
}

// HandleSuccess is the gateway success callback. It forwards the
// reference to the bound finalizer at most once; a failed finalize
// re-arms the guard so the callback can be retried.
func (a *Adapter) HandleSuccess(ctx context.Context, reference string) (*domain.Order, error) {
	a.mu.Lock()
	if a.finalizer == nil {
		a.mu.Unlock()
		return nil, ErrNoFinalizer
	}
	if a.handled {
		a.mu.Unlock()
		return nil, ErrAlreadyHandled
	}
	a.handled = true
	finalizer := a.finalizer
	a.mu.Unlock()

	order, err := finalizer.FinalizeGatewayOrder(ctx, reference)
	if err != nil {
		a.mu.Lock()
		a.handled = false
		a.mu.Unlock()
		return nil, err
	}

	log.Printf("payment: transaction %s finalized as order %s", reference, order.ID)
	return order, nil
}

// HandleClose is the widget's close/cancel callback. Informational
// only: it never fires the success path and leaves the cart untouched.
func (a *Adapter) HandleClose() {
	a.mu.Lock()
	finalizer := a.finalizer
	reference := a.reference
	a.mu.Unlock()

	log.Printf("payment: widget closed for transaction %q", reference)
	if finalizer != nil {
		finalizer.HandleCancelled()
	}
}
