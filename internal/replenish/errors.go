// Package replenish converts historical unit-sales data into pack-constrained,
// buffer-adjusted reorder quantities and urgency classifications. Every
// function is a pure transformation of its inputs; the package holds no state
// and performs no I/O.
package replenish

import "errors"

// ErrInvalidFrequency is returned when an order frequency is zero, negative,
// or outside the allowed multiplier set. The affected request aborts; other
// items are unaffected.
var ErrInvalidFrequency = errors.New("order frequency must be one of the allowed weeks-multipliers")
