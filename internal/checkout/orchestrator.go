// Package checkout drives the order placement flow as a small state
// machine: select one of two payment methods, validate the billing
// form, then hand off to pay-on-delivery or the Paystack adapter. The
// order record is created exactly once, inside the success path of
// exactly one handler.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/cart"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/domain"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/orders"
)

var (
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
	ErrNoMethodSelected    = errors.New("no payment method selected")
	ErrUnknownMethod       = errors.New("unknown payment method")
	ErrIllegalTransition   = errors.New("illegal transition of checkout status")
	ErrAlreadyCompleted    = errors.New("checkout already completed")
	ErrGatewayStartFailure = errors.New("could not start gateway payment")
)

// PaymentStarter opens the external gateway handoff. The orchestrator
// stays in SUBMITTING until the adapter reports back through
// FinalizeGatewayOrder or HandleCancelled.
type PaymentStarter interface {
	Charge(ctx context.Context, email string) error
}

// Result tells the page what happened and where to go next.
type Result struct {
	Status          Status        `json:"status"`
	Order           *domain.Order `json:"order,omitempty"`
	Redirect        string        `json:"redirect,omitempty"`
	PendingExternal bool          `json:"pendingExternal,omitempty"`
}

type Orchestrator struct {
	cart    *cart.Manager
	orders  *orders.Repository
	payment PaymentStarter

	mu        sync.Mutex
	status    Status
	method    domain.PaymentMethod
	form      Form
	finalized bool
}

func NewOrchestrator(cartManager *cart.Manager, repo *orders.Repository, payment PaymentStarter) *Orchestrator {
	return &Orchestrator{
		cart:    cartManager,
		orders:  repo,
		payment: payment,
		status:  StatusNoMethod,
	}
}

// Begin is the entry guard: an empty cart never enters the machine.
// Beginning after a completed order re-arms the machine for a fresh
// flow, so one session can place any number of orders.
func (o *Orchestrator) Begin(ctx context.Context) error {
	if o.cart.ItemCount(ctx) == 0 {
		return ErrEmptyCart
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status.IsTerminal() {
		o.resetLocked()
	}
	return nil
}

// SelectMethod activates one of the two offered methods. Selecting one
// deselects the other; the last selection wins.
func (o *Orchestrator) SelectMethod(method domain.PaymentMethod) error {
	if method != domain.MethodPaystack && method != domain.MethodPayOnDelivery {
		return fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// Selecting a method after a completed order starts a fresh flow.
	if o.status.IsTerminal() {
		o.resetLocked()
	}

	if !CanTransitionTo(o.status, StatusMethodSelected) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.status, StatusMethodSelected)
	}
	o.status = StatusMethodSelected
	o.method = method
	return nil
}

// Submit validates the form and dispatches to the selected method's
// handler. Validation failure keeps the machine in METHOD_SELECTED;
// nothing is persisted and no handler runs.
func (o *Orchestrator) Submit(ctx context.Context, form Form) (*Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cart.ItemCount(ctx) == 0 {
		return nil, ErrEmptyCart
	}
	if o.method == "" {
		return nil, ErrNoMethodSelected
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if !CanTransitionTo(o.status, StatusSubmitting) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.status, StatusSubmitting)
	}

	o.status = StatusSubmitting
	o.form = form

	switch o.method {
	case domain.MethodPayOnDelivery:
		return o.completePayOnDelivery(ctx)
	default:
		return o.startGatewayPayment(ctx)
	}
}

// completePayOnDelivery builds the pending order synchronously: the
// sale is agreed now, payment happens at the door.
func (o *Orchestrator) completePayOnDelivery(ctx context.Context) (*Result, error) {
	order := o.buildOrder(ctx, domain.MethodPayOnDelivery, domain.OrderStatusPending, nil)
	if err := o.orders.Append(ctx, order); err != nil {
		o.status = StatusFailed
		return nil, err
	}
	if err := o.cart.Clear(ctx); err != nil {
		log.Printf("checkout: cart clear after order %s failed: %v", order.ID, err)
	}

	o.status = StatusCompleted
	o.finalized = true
	return &Result{
		Status:   StatusCompleted,
		Order:    &order,
		Redirect: "index.html?order=success&id=" + order.ID,
	}, nil
}

// startGatewayPayment hands off to the external widget. No order
// exists yet; it is created only when the success callback arrives.
func (o *Orchestrator) startGatewayPayment(ctx context.Context) (*Result, error) {
	if o.payment == nil {
		o.status = StatusFailed
		return nil, fmt.Errorf("%w: payment adapter not configured", ErrGatewayStartFailure)
	}
	if err := o.payment.Charge(ctx, o.form.Email); err != nil {
		o.status = StatusFailed
		return nil, fmt.Errorf("%w: %v", ErrGatewayStartFailure, err)
	}
	return &Result{Status: StatusSubmitting, PendingExternal: true}, nil
}

// FinalizeGatewayOrder is the gateway success path: called by the
// payment adapter with the transaction reference. It creates the paid
// order exactly once and only then clears the cart.
func (o *Orchestrator) FinalizeGatewayOrder(ctx context.Context, reference string) (*domain.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.finalized {
		return nil, ErrAlreadyCompleted
	}
	if !CanTransitionTo(o.status, StatusCompleted) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.status, StatusCompleted)
	}

	order := o.buildOrder(ctx, domain.MethodPaystack, domain.OrderStatusPaid, &reference)
	if err := o.orders.Append(ctx, order); err != nil {
		return nil, err
	}
	if err := o.cart.Clear(ctx); err != nil {
		log.Printf("checkout: cart clear after order %s failed: %v", order.ID, err)
	}

	o.status = StatusCompleted
	o.finalized = true
	return &order, nil
}

// HandleCancelled records that the user closed the payment widget.
// Idempotent, never fires the success path, leaves the cart untouched.
func (o *Orchestrator) HandleCancelled() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status == StatusSubmitting {
		o.status = StatusFailed
	}
}

// resetLocked re-arms the machine once the previous order has been
// handed off. The finalized guard stays up until then, so a late
// duplicate gateway callback still cannot complete twice.
func (o *Orchestrator) resetLocked() {
	o.status = StatusNoMethod
	o.method = ""
	o.form = Form{}
	o.finalized = false
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Orchestrator) Method() domain.PaymentMethod {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.method
}

func (o *Orchestrator) buildOrder(ctx context.Context, method domain.PaymentMethod, status domain.OrderStatus, reference *string) domain.Order {
	snapshot := o.cart.Snapshot(ctx)
	return domain.Order{
		ID:               domain.NewOrderID(),
		Items:            snapshot.Items,
		Total:            snapshot.Total,
		PaymentMethod:    method,
		PaymentReference: reference,
		Status:           status,
		Customer:         o.form.Customer(),
		CreatedAt:        time.Now(),
	}
}
