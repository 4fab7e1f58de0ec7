// Package pricing holds the money and identity helpers shared by the
// cart, wishlist, checkout and payment packages: naira formatting and
// parsing, kobo conversion for the payment gateway, product slug
// derivation and email validation.
package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const koboPerNaira = 100

var (
	nonAmount   = regexp.MustCompile(`[^0-9.]`)
	nonSlug     = regexp.MustCompile(`[^a-z0-9]+`)
	emailFormat = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FormatNaira renders an amount as a whole-naira string, e.g. "₦315,000".
// Fractions are rounded away; invalid input renders as "₦0".
func FormatNaira(amount decimal.Decimal) string {
	digits := amount.Round(0).BigInt().String()

	negative := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}

	if negative {
		return "-₦" + b.String()
	}
	return "₦" + b.String()
}

// ParseAmount extracts a numeric amount from a displayed price string
// such as "₦315,000" or "315000". Unparseable input yields zero.
func ParseAmount(text string) decimal.Decimal {
	cleaned := nonAmount.ReplaceAllString(text, "")
	if cleaned == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// ToKobo converts a naira amount to the gateway's minor currency unit.
func ToKobo(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(koboPerNaira)).Round(0).IntPart()
}

// Slugify derives a stable product id from a product name:
// "Shea Butter Cream 250ml" -> "shea-butter-cream-250ml".
func Slugify(name string) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 50 {
		slug = slug[:50]
	}
	return slug
}

// ValidateEmail reports whether the address looks deliverable.
func ValidateEmail(email string) bool {
	return emailFormat.MatchString(strings.TrimSpace(email))
}
