package domain

import "errors"

// ErrInvalidInput is returned when an operation's precondition is violated
// (even or too small search target, modulus < 1, negative exponent, witnesses < 1).
var ErrInvalidInput = errors.New("invalid input")
