package checkout

import (
	"fmt"
	"strings"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/domain"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/pricing"
)

// Form carries the billing details captured on the checkout page.
type Form struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	OrderNotes  string `json:"orderNotes"`
	AcceptTerms bool   `json:"acceptTerms"`
}

// ValidationError names the first field that failed, so the page can
// focus it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks required input and reports the first failing field.
func (f Form) Validate() error {
	email := strings.TrimSpace(f.Email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "please enter your email address"}
	}
	if !pricing.ValidateEmail(email) {
		return &ValidationError{Field: "email", Message: "please enter a valid email address"}
	}
	if !f.AcceptTerms {
		return &ValidationError{Field: "terms", Message: "please agree to the terms and conditions"}
	}
	return nil
}

// Customer converts the form into the order's customer record.
func (f Form) Customer() domain.Customer {
	return domain.Customer{
		Email:      strings.TrimSpace(f.Email),
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Phone:      f.Phone,
		Address:    f.Address,
		City:       f.City,
		Country:    f.Country,
		OrderNotes: f.OrderNotes,
	}
}
