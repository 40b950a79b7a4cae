package replenish

import "math"

// ApplyBuffers inflates a per-day recommended quantity by a general safety
// percentage and, on designated delivery days, an additional percentage.
// The result always rounds up: under-buffering costs more than slight
// over-ordering. Percentages default to 0 and are per-invocation, never item
// state.
func ApplyBuffers(base float64, isDeliveryDay bool, generalPct, deliveryPct float64) int {
	if base <= 0 {
		return 0
	}
	if generalPct < 0 {
		generalPct = 0
	}
	if deliveryPct < 0 {
		deliveryPct = 0
	}

	buffered := base * (1 + generalPct/100)
	if isDeliveryDay {
		buffered *= 1 + deliveryPct/100
	}

	return int(math.Ceil(buffered))
}
