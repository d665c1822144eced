package config

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var maxAtomic = decimal.NewFromUint64(math.MaxUint64)

// ToAtomic converts a human-readable token amount to atomic units under the
// configured precision. The amount must be non-negative and must not carry
// more fractional digits than Decimals allows.
func (c *Config) ToAtomic(amount decimal.Decimal) (uint64, error) {
	shifted := amount.Shift(c.Decimals)
	if shifted.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", ErrInvalidAmount, amount)
	}
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, amount, c.Decimals)
	}
	if shifted.GreaterThan(maxAtomic) {
		return 0, fmt.Errorf("%w: %s exceeds 64-bit range", ErrInvalidAmount, amount)
	}
	return shifted.BigInt().Uint64(), nil
}

// FromAtomic converts atomic units back to a human-readable amount.
func (c *Config) FromAtomic(atomic uint64) decimal.Decimal {
	return decimal.NewFromUint64(atomic).Shift(-c.Decimals)
}

// AtomicString formats a human-readable amount as the atomic-unit decimal
// string carried in the token envelope. Amounts on the wire are always
// integer strings, never floating point.
func (c *Config) AtomicString(amount decimal.Decimal) (string, error) {
	atomic, err := c.ToAtomic(amount)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", atomic), nil
}
