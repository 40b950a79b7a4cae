package replenish

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

func TestVelocityFor(t *testing.T) {
	v := VelocityFor(domain.SalesSummary{TotalUnits: 28, PeriodDays: 14})
	assert.InDelta(t, 2.0, v.AvgDaily, 1e-9)
	assert.InDelta(t, 14.0, v.AvgWeekly, 1e-9)
}

func TestVelocityForZeroPeriodIsZeroNotError(t *testing.T) {
	v := VelocityFor(domain.SalesSummary{TotalUnits: 100, PeriodDays: 0})
	assert.Zero(t, v.AvgDaily)
	assert.Zero(t, v.AvgWeekly)
}

func TestVelocityRetainsUnroundedValue(t *testing.T) {
	// 10 units over 3 days: the raw rate must stay 3.333..., not 3.3.
	v := VelocityFor(domain.SalesSummary{TotalUnits: 10, PeriodDays: 3})
	assert.InDelta(t, 10.0/3.0, v.AvgDaily, 1e-12)
	assert.InDelta(t, 3.3, RoundForDisplay(v.AvgDaily), 1e-9)
}

func TestRoundForDisplay(t *testing.T) {
	assert.Equal(t, 2.5, RoundForDisplay(2.46))
	assert.Equal(t, 0.0, RoundForDisplay(0.04))
	assert.Equal(t, 14.3, RoundForDisplay(14.2857142857))
}
