package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodPaystack      PaymentMethod = "paystack"
	MethodPayOnDelivery PaymentMethod = "pay_on_delivery"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// Customer carries the contact and address fields captured at checkout.
type Customer struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	OrderNotes string `json:"orderNotes"`
}

// Order is written exactly once per completed checkout and appended to
// the orders log. It is never mutated or removed afterwards.
type Order struct {
	ID               string          `json:"id"`
	Items            []LineItem      `json:"items"`
	Total            decimal.Decimal `json:"total"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
	PaymentReference *string         `json:"paymentReference"`
	Status           OrderStatus     `json:"status"`
	Customer         Customer        `json:"customer"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// NewOrderID builds a time-derived order id with a short random suffix
// so two checkouts in the same millisecond cannot collide.
func NewOrderID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("ORDER_%d_%s", time.Now().UnixMilli(), suffix)
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// WithoutPassword returns a copy safe to persist as the current
// session record.
func (u User) WithoutPassword() User {
	u.PasswordHash = ""
	return u
}
