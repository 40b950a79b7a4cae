package service

import (
	"bytes"
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopops/opsdash/backend-go/internal/cache"
	"github.com/shopops/opsdash/backend-go/internal/config"
	"github.com/shopops/opsdash/backend-go/internal/domain"
	"github.com/shopops/opsdash/backend-go/internal/replenish"
	"github.com/shopops/opsdash/backend-go/internal/repository/memory"
)

var asOf = time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC) // a Tuesday

func testSettings() *config.ReplenishSettings {
	return &config.ReplenishSettings{
		OrderFrequencyWeeks: 2,
		AnalysisDays:        7,
		DefaultBoxSize:      12,
	}
}

func seedRepos(t *testing.T) (*memory.SalesRepository, *memory.StockRepository) {
	t.Helper()
	ctx := context.Background()

	sales := memory.NewSalesRepository()
	stock := memory.NewStockRepository()

	reorderPoint := 10.0
	levels := []domain.StockLevel{
		{ItemName: "Croissant", VendorName: "Patisserie Supply", Category: "pastry", CurrentStock: 5, PackSize: 6, UnitCost: 0.8, UnitPrice: 2.5},
		{ItemName: "Flour 25kg", VendorName: "Mill Co", Category: "dry goods", CurrentStock: 0},
		{ItemName: "Butter Block", VendorName: "Hillside Dairy", Category: "dairy", CurrentStock: 8, ReorderPoint: &reorderPoint},
	}
	for _, level := range levels {
		require.NoError(t, stock.SaveStockLevel(ctx, level))
	}

	// One week of croissant sales at 10 units/week.
	var records []domain.SalesRecord
	for i := 0; i < 5; i++ {
		records = append(records, domain.SalesRecord{
			ItemName:     "Croissant",
			Date:         asOf.AddDate(0, 0, -i),
			QuantitySold: 2,
			Revenue:      5,
		})
	}
	require.NoError(t, sales.SaveSales(ctx, records))

	return sales, stock
}

func TestBuildOrderSheet(t *testing.T) {
	sales, stock := seedRepos(t)
	svc := NewReplenishmentService(sales, stock, testSettings())

	items, err := svc.BuildOrderSheet(context.Background(), OrderSheetRequest{AsOf: asOf})
	require.NoError(t, err)
	require.Len(t, items, 3)

	byName := make(map[string]domain.ReplenishmentItem)
	for _, item := range items {
		byName[item.ItemName] = item
	}

	croissant := byName["Croissant"]
	assert.Equal(t, 10.0, croissant.AvgWeekly)
	// ceil(10 × 2) − 5 = 15, pack-rounded to 18.
	assert.Equal(t, 18, croissant.SuggestedOrder)
	assert.Nil(t, croissant.OrderQuantity)

	// No sales in the window: zero velocity, no suggestion.
	flour := byName["Flour 25kg"]
	assert.Zero(t, flour.AvgWeekly)
	assert.Zero(t, flour.SuggestedOrder)
}

func TestBuildOrderSheetVendorFilter(t *testing.T) {
	sales, stock := seedRepos(t)
	svc := NewReplenishmentService(sales, stock, testSettings())

	items, err := svc.BuildOrderSheet(context.Background(), OrderSheetRequest{AsOf: asOf, Vendor: "mill co"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Flour 25kg", items[0].ItemName)
}

func TestBuildOrderSheetRejectsInvalidFrequency(t *testing.T) {
	sales, stock := seedRepos(t)
	svc := NewReplenishmentService(sales, stock, testSettings())

	_, err := svc.BuildOrderSheet(context.Background(), OrderSheetRequest{AsOf: asOf, Frequency: 5})
	assert.ErrorIs(t, err, replenish.ErrInvalidFrequency)
}

func TestBuildVendorOrderSheets(t *testing.T) {
	sales, stock := seedRepos(t)
	svc := NewReplenishmentService(sales, stock, testSettings())

	sheets, err := svc.BuildVendorOrderSheets(context.Background(), OrderSheetRequest{AsOf: asOf})
	require.NoError(t, err)
	require.Len(t, sheets, 3)
	assert.Len(t, sheets["Patisserie Supply"], 1)
}

func TestLowStockAlertsSortedByUrgency(t *testing.T) {
	sales, stock := seedRepos(t)
	svc := NewAlertService(sales, stock, cache.NewNoopAlertCache(), testSettings())

	alerts, err := svc.computeLowStock(context.Background(), "", asOf)
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	assert.Equal(t, domain.PriorityCritical, alerts[0].Priority)

	reasons := make(map[string]string)
	for _, alert := range alerts {
		reasons[alert.ItemName] = alert.Reason
	}
	assert.Equal(t, "out of stock", reasons["Flour 25kg"])
	assert.Equal(t, "below reorder point", reasons["Butter Block"])
	// 5 on hand at 10/week is 3.5 days of runway.
	assert.Equal(t, "under 7 days of stock", reasons["Croissant"])
}

func TestDigestGroupsByVendor(t *testing.T) {
	sales, stock := seedRepos(t)
	svc := NewAlertService(sales, stock, cache.NewNoopAlertCache(), testSettings())

	digest, err := svc.Digest(context.Background())
	require.NoError(t, err)
	assert.Contains(t, digest, "Mill Co:")
	assert.Contains(t, digest, "Hillside Dairy:")
	assert.Contains(t, digest, "[critical] Flour 25kg")
}

func TestPlanDeliveries(t *testing.T) {
	sales, stock := seedRepos(t)
	settings := testSettings()
	settings.DeliveryWindows = []domain.DeliveryWindow{
		{
			Name:         "midweek",
			OrderDay:     time.Monday,
			DeliveryDay:  time.Tuesday,
			CoverageDays: []time.Weekday{time.Tuesday, time.Wednesday},
		},
	}

	svc := NewDeliveryService(sales, stock, settings)
	sheets, err := svc.PlanDeliveries(context.Background(), asOf, replenish.ModePerWindow)
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	require.Len(t, sheets[0].Lines, 3)

	for _, line := range sheets[0].Lines {
		if line.VariationName != "Croissant" {
			continue
		}
		// avgDaily 10/7 buffers to ceil twice: 2 + 2 = 4 needed, 5 on hand.
		assert.Equal(t, 4, line.TotalNeeded)
		assert.Zero(t, line.NetNeeded)
	}
}

func TestDueTodayFiltersAndSorts(t *testing.T) {
	settings := testSettings()
	settings.VendorDeadlines = []domain.VendorDeadline{
		{VendorName: "Hillside Dairy", OrderDay: time.Tuesday, Deadline: "12:15 PM"},
		{VendorName: "Mill Co", OrderDay: time.Tuesday, Deadline: "1:30 PM"},
		{VendorName: "Patisserie Supply", OrderDay: time.Friday, Deadline: "9:00 AM"},
	}

	svc := NewReminderService(settings)
	reminders := svc.DueToday(asOf)

	require.Len(t, reminders, 2)
	assert.Equal(t, "Hillside Dairy", reminders[0].VendorName)
	assert.Equal(t, domain.UrgencyUrgent, reminders[0].Urgency)
	assert.Equal(t, "Mill Co", reminders[1].VendorName)
	assert.Equal(t, domain.UrgencySoon, reminders[1].Urgency)
}

func TestDueTodayWarnsOnUnparseableDeadline(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = orig }()

	settings := testSettings()
	settings.VendorDeadlines = []domain.VendorDeadline{
		{VendorName: "Hillside Dairy", OrderDay: time.Tuesday, Deadline: "25:99"},
		{VendorName: "Mill Co", OrderDay: time.Tuesday},
	}

	reminders := NewReminderService(settings).DueToday(asOf)
	require.Len(t, reminders, 2)

	// Both degrade to no-deadline behavior.
	for _, r := range reminders {
		assert.True(t, math.IsInf(r.MinutesUntilDeadline, 1))
		assert.Equal(t, domain.UrgencyToday, r.Urgency)
		assert.False(t, r.IsOverdue)
	}

	logged := buf.String()
	assert.Contains(t, logged, "Hillside Dairy")
	assert.Contains(t, logged, "25:99")
	// A vendor with no deadline configured is not a data-quality problem.
	assert.NotContains(t, logged, "Mill Co")
}
