package service

import (
	"context"
	"time"

	"github.com/shopops/opsdash/backend-go/internal/config"
	"github.com/shopops/opsdash/backend-go/internal/domain"
	"github.com/shopops/opsdash/backend-go/internal/replenish"
	"github.com/shopops/opsdash/backend-go/internal/repository"
)

// DeliveryService plans multi-day delivery-window orders: buffered per-day
// needs summed across each window's coverage days and converted to whole
// vendor boxes.
type DeliveryService struct {
	sales    repository.SalesRepository
	stock    repository.StockRepository
	settings *config.ReplenishSettings
}

func NewDeliveryService(sales repository.SalesRepository, stock repository.StockRepository, settings *config.ReplenishSettings) *DeliveryService {
	return &DeliveryService{sales: sales, stock: stock, settings: settings}
}

// PlanDeliveries builds one order sheet per configured delivery window.
// ModePerWindow evaluates windows independently (overlapping coverage days
// are double-counted, matching the original sheets); ModeExclusive assigns
// each day to the first window that covers it.
func (s *DeliveryService) PlanDeliveries(ctx context.Context, asOf time.Time, mode replenish.WindowMode) ([]domain.WindowOrderSheet, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}

	levels, err := s.stock.ListStock(ctx)
	if err != nil {
		return nil, err
	}

	window := replenish.Window{
		Start:      asOf.AddDate(0, 0, -(s.settings.AnalysisDays - 1)),
		End:        asOf,
		PeriodDays: s.settings.AnalysisDays,
	}

	records, err := s.sales.ListSales(ctx, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	variations := make([]string, 0, len(levels))
	stockByKey := make(map[string]float64, len(levels))
	for _, level := range levels {
		variations = append(variations, level.ItemName)
		stockByKey[replenish.NormalizeItemName(level.ItemName)] = level.CurrentStock
	}

	dailyByKey := make(map[string]float64)
	for _, summary := range replenish.Aggregate(records, window, variations) {
		velocity := replenish.VelocityFor(summary)
		dailyByKey[replenish.NormalizeItemName(summary.ItemName)] = velocity.AvgDaily
	}

	sheets := replenish.PlanWindows(replenish.WindowPlan{
		Windows:    s.settings.DeliveryWindows,
		Variations: variations,
		DailyNeed: func(variation string, _ time.Weekday) float64 {
			return dailyByKey[replenish.NormalizeItemName(variation)]
		},
		CurrentStock: func(variation string) float64 {
			return stockByKey[replenish.NormalizeItemName(variation)]
		},
		GeneralPct:  s.settings.GeneralBufferPct,
		DeliveryPct: s.settings.DeliveryBufferPct,
		Sizing: replenish.BoxSizing{
			Keywords: s.settings.BoxSizeKeywords,
			Default:  s.settings.DefaultBoxSize,
		},
		Mode: mode,
	})

	return sheets, nil
}
