package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// MaxDecimalDigits bounds the length of integers accepted from callers.
const MaxDecimalDigits = 10000

// ErrInputTooLarge is returned for integers longer than MaxDecimalDigits.
var ErrInputTooLarge = fmt.Errorf("%w: integer exceeds %d digits", ErrInvalidInput, MaxDecimalDigits)

// ParseDecimal parses a base-10 integer with an optional sign, ignoring
// surrounding whitespace. Every failure wraps ErrInvalidInput.
func ParseDecimal(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > MaxDecimalDigits {
		return nil, fmt.Errorf("%w: size=%d", ErrInputTooLarge, len(digits))
	}
	if len(s)-len(digits) > 1 {
		return nil, fmt.Errorf("%q is not a decimal integer: %w", s, ErrInvalidInput)
	}
	// big.Int.SetString also accepts underscores; callers must send plain digits.
	for _, r := range digits {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("%q is not a decimal integer: %w", truncate(s), ErrInvalidInput)
		}
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%q is not a decimal integer: %w", truncate(s), ErrInvalidInput)
	}
	return n, nil
}

// ParseDecimals parses every value, failing on the first invalid one.
func ParseDecimals(vals ...string) ([]*big.Int, error) {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		n, err := ParseDecimal(v)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// truncate keeps error messages short for oversized or garbled input.
func truncate(s string) string {
	const max = 32
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
