package domain

// OrderFrequency is how often, in weeks, a reorder cycle recurs. Only the
// enumerated values below are accepted; the order sheets were never meant to
// take arbitrary multipliers.
type OrderFrequency float64

const (
	FreqTwiceWeekly OrderFrequency = 0.5
	FreqWeekly      OrderFrequency = 1
	FreqBiweekly    OrderFrequency = 2
	FreqTriweekly   OrderFrequency = 3
	FreqMonthly     OrderFrequency = 4
	FreqSixWeeks    OrderFrequency = 6
	FreqBimonthly   OrderFrequency = 8
	FreqQuarterly   OrderFrequency = 12
	FreqBiannual    OrderFrequency = 26
)

var allowedFrequencies = map[OrderFrequency]struct{}{
	FreqTwiceWeekly: {},
	FreqWeekly:      {},
	FreqBiweekly:    {},
	FreqTriweekly:   {},
	FreqMonthly:     {},
	FreqSixWeeks:    {},
	FreqBimonthly:   {},
	FreqQuarterly:   {},
	FreqBiannual:    {},
}

// Valid reports whether the frequency is one of the allowed multipliers.
func (f OrderFrequency) Valid() bool {
	_, ok := allowedFrequencies[f]
	return ok
}

// Weeks returns the multiplier as a plain float for arithmetic.
func (f OrderFrequency) Weeks() float64 {
	return float64(f)
}

// OrderFrequencies lists the allowed multipliers in ascending order.
func OrderFrequencies() []OrderFrequency {
	return []OrderFrequency{
		FreqTwiceWeekly,
		FreqWeekly,
		FreqBiweekly,
		FreqTriweekly,
		FreqMonthly,
		FreqSixWeeks,
		FreqBimonthly,
		FreqQuarterly,
		FreqBiannual,
	}
}
