package replenish

import (
	"math"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

// Velocity carries the unrounded daily and weekly sales rates for one item.
// Downstream multiplication must use these raw values; rounding happens only
// at presentation boundaries, otherwise the drift compounds.
type Velocity struct {
	AvgDaily  float64
	AvgWeekly float64
}

// VelocityFor derives sales rates from an aggregated summary. A zero-day
// period yields zero velocity, not an error.
func VelocityFor(s domain.SalesSummary) Velocity {
	if s.PeriodDays <= 0 {
		return Velocity{}
	}

	daily := s.TotalUnits / float64(s.PeriodDays)
	return Velocity{
		AvgDaily:  daily,
		AvgWeekly: daily * 7,
	}
}

// RoundForDisplay rounds a rate to one decimal place for presentation.
func RoundForDisplay(v float64) float64 {
	return math.Round(v*10) / 10
}
