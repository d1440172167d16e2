package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidPrice marks input that does not parse to a positive finite
// number. The HTTP layer maps it to a 400 response.
var ErrInvalidPrice = errors.New("invalid price")

// ParsePrice parses a price coming from a form or JSON body. A decimal comma
// is accepted ("12,50" reads as 12.50) because the storefront's audience
// types prices that way; it is normalized to a decimal point before parsing.
func ParsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidPrice)
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	if d.Sign() <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidPrice, raw)
	}

	f, _ := d.Float64()
	return f, nil
}

// ParseOptionalPrice parses a promo price. Unlike ParsePrice it never fails:
// absent, malformed, or non-positive input normalizes to nil (no promotion),
// matching how the storefront treats a cleared promo field.
func ParseOptionalPrice(raw string) *float64 {
	f, err := ParsePrice(raw)
	if err != nil {
		return nil
	}
	return &f
}
