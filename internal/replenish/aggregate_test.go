package replenish

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateMergesNormalizedItemNames(t *testing.T) {
	w := Window{Start: day(2024, 3, 1), End: day(2024, 3, 28), PeriodDays: 28}

	records := []domain.SalesRecord{
		{ItemName: "Sourdough Loaf", Date: day(2024, 3, 4), QuantitySold: 10, Revenue: 80},
		{ItemName: "  sourdough   loaf ", Date: day(2024, 3, 5), QuantitySold: 4, Revenue: 32},
		{ItemName: "Baguette", Date: day(2024, 3, 6), QuantitySold: 6, Revenue: 24},
	}

	summaries := Aggregate(records, w, nil)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Baguette", summaries[0].ItemName)
	assert.Equal(t, 6.0, summaries[0].TotalUnits)

	assert.Equal(t, "Sourdough Loaf", summaries[1].ItemName)
	assert.Equal(t, 14.0, summaries[1].TotalUnits)
	assert.Equal(t, 112.0, summaries[1].TotalRevenue)
	assert.Equal(t, 28, summaries[1].PeriodDays)
}

func TestAggregateExcludesRecordsOutsideWindow(t *testing.T) {
	w := Window{Start: day(2024, 3, 1), End: day(2024, 3, 7), PeriodDays: 7}

	records := []domain.SalesRecord{
		{ItemName: "Rye", Date: day(2024, 2, 28), QuantitySold: 99},
		{ItemName: "Rye", Date: day(2024, 3, 1), QuantitySold: 3},
		{ItemName: "Rye", Date: day(2024, 3, 7), QuantitySold: 2},
		{ItemName: "Rye", Date: day(2024, 3, 8), QuantitySold: 50},
	}

	summaries := Aggregate(records, w, nil)
	require.Len(t, summaries, 1)
	assert.Equal(t, 5.0, summaries[0].TotalUnits)
}

func TestAggregateZeroFillsRequestedItems(t *testing.T) {
	w := Window{Start: day(2024, 3, 1), End: day(2024, 3, 28), PeriodDays: 28}

	summaries := Aggregate(nil, w, []string{"Croissant", "Baguette"})
	require.Len(t, summaries, 2)

	for _, s := range summaries {
		assert.Zero(t, s.TotalUnits)
		assert.Zero(t, s.TotalRevenue)
		assert.Equal(t, 28, s.PeriodDays)
	}
}

func TestAggregateUsesCallerAssertedPeriod(t *testing.T) {
	// Four weeks of records analyzed as a six-week period.
	w := Window{Start: day(2024, 3, 1), End: day(2024, 3, 28), PeriodDays: 42}

	records := []domain.SalesRecord{
		{ItemName: "Ciabatta", Date: day(2024, 3, 10), QuantitySold: 42},
	}

	summaries := Aggregate(records, w, nil)
	require.Len(t, summaries, 1)
	assert.Equal(t, 42, summaries[0].PeriodDays)

	v := VelocityFor(summaries[0])
	assert.InDelta(t, 1.0, v.AvgDaily, 1e-9)
}

func TestAggregateWarnsOnBlankItemNames(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = orig }()

	w := Window{Start: day(2024, 3, 1), End: day(2024, 3, 7), PeriodDays: 7}

	records := []domain.SalesRecord{
		{ItemName: "   ", Date: day(2024, 3, 2), QuantitySold: 9},
		{ItemName: "Rye", Date: day(2024, 3, 3), QuantitySold: 4},
	}

	summaries := Aggregate(records, w, nil)
	require.Len(t, summaries, 1)
	assert.Equal(t, 4.0, summaries[0].TotalUnits)

	// The unkeyable record is skipped loudly, not silently.
	assert.Contains(t, buf.String(), "blank item name")
	assert.Contains(t, buf.String(), "2024-03-02")
}

func TestNormalizeItemName(t *testing.T) {
	assert.Equal(t, "whole wheat loaf", NormalizeItemName("  Whole   Wheat\tLoaf "))
	assert.Equal(t, "", NormalizeItemName("   "))
}
