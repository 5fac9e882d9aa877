// Package money is the boundary between string-encoded decimal amounts and
// the fixed-precision arithmetic used internally. Amounts cross the API as
// strings so no binary floating-point representation ever touches them.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount indicates an unparseable or malformed decimal string.
var ErrInvalidAmount = errors.New("invalid amount")

const (
	// AmountScale is the fixed scale for entry amounts.
	AmountScale = 2
	// RateScale is the fixed scale for exchange rates.
	RateScale = 6
)

// balanceTolerance is the legacy-compatibility epsilon used only when
// comparing debit and credit totals of a candidate entry. Upstream producers
// historically computed amounts in floating point; their rounding residue is
// tolerated up to one minor unit. All other arithmetic is exact.
var balanceTolerance = decimal.New(1, -2) // 0.01

// ParseAmount parses a decimal amount string at AmountScale.
// It rejects malformed input and input with more than two decimal places.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount string", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, s)
	}
	if d.Exponent() < -AmountScale {
		return decimal.Zero, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, s, AmountScale)
	}
	return d, nil
}

// ParseRate parses an exchange-rate string at RateScale. An empty string
// defaults to 1 (entry currency == account currency). Rates must be positive.
func ParseRate(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.NewFromInt(1), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, s)
	}
	if d.Exponent() < -RateScale {
		return decimal.Zero, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, s, RateScale)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: exchange rate %q must be positive", ErrInvalidAmount, s)
	}
	return d, nil
}

// WithinTolerance reports whether a and b differ by at most the legacy
// balance tolerance (0.01).
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(balanceTolerance)
}

// Format renders an amount as a fixed two-decimal string, the only
// representation amounts leave the system in.
func Format(d decimal.Decimal) string {
	return d.StringFixed(AmountScale)
}
