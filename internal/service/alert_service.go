package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shopops/opsdash/backend-go/internal/cache"
	"github.com/shopops/opsdash/backend-go/internal/config"
	"github.com/shopops/opsdash/backend-go/internal/domain"
	"github.com/shopops/opsdash/backend-go/internal/replenish"
	"github.com/shopops/opsdash/backend-go/internal/repository"
)

// AlertService classifies items by replenishment urgency and renders the
// vendor-grouped digest used for the daily reminder message.
type AlertService struct {
	sales    repository.SalesRepository
	stock    repository.StockRepository
	cache    cache.AlertCache
	settings *config.ReplenishSettings
}

func NewAlertService(sales repository.SalesRepository, stock repository.StockRepository, cacheImpl cache.AlertCache, settings *config.ReplenishSettings) *AlertService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopAlertCache()
	}
	return &AlertService{sales: sales, stock: stock, cache: cacheImpl, settings: settings}
}

// LowStock returns the alert list for all items (or one vendor), sorted by
// priority rank and then days of stock remaining.
func (s *AlertService) LowStock(ctx context.Context, vendor string) ([]domain.LowStockAlert, error) {
	if alerts, ok, err := s.cache.GetAlerts(ctx, vendor); err == nil && ok {
		return alerts, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("alerts: cache get failed")
	}

	alerts, err := s.computeLowStock(ctx, vendor, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetAlerts(ctx, vendor, alerts); err != nil {
		log.Warn().Err(err).Msg("alerts: cache set failed")
	}

	return alerts, nil
}

func (s *AlertService) computeLowStock(ctx context.Context, vendor string, asOf time.Time) ([]domain.LowStockAlert, error) {
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

	include := make([]string, 0, len(levels))
	for _, level := range levels {
		include = append(include, level.ItemName)
	}

	velocityByKey := make(map[string]replenish.Velocity)
	for _, summary := range replenish.Aggregate(records, window, include) {
		velocityByKey[replenish.NormalizeItemName(summary.ItemName)] = replenish.VelocityFor(summary)
	}

	frequency := domain.OrderFrequency(s.settings.OrderFrequencyWeeks)

	alerts := make([]domain.LowStockAlert, 0, len(levels))
	for _, level := range levels {
		if vendor != "" && !strings.EqualFold(level.VendorName, vendor) {
			continue
		}

		velocity := velocityByKey[replenish.NormalizeItemName(level.ItemName)]
		priority, reason, runway := replenish.Classify(level.CurrentStock, level.ReorderPoint, velocity.AvgDaily)
		if priority == domain.PriorityOK {
			continue
		}

		suggested, err := replenish.SuggestedOrder(velocity.AvgWeekly, frequency, level.CurrentStock)
		if err != nil {
			return nil, err
		}

		alerts = append(alerts, domain.LowStockAlert{
			ItemName:             level.ItemName,
			VendorName:           level.VendorName,
			CurrentStock:         level.CurrentStock,
			AvgDailySales:        replenish.RoundForDisplay(velocity.AvgDaily),
			DaysOfStockRemaining: runway,
			Priority:             priority,
			Reason:               reason,
			SuggestedReorderQty:  replenish.RoundToPackSize(suggested, level.PackSize),
		})
	}

	replenish.SortAlerts(alerts)
	return alerts, nil
}

// Digest renders the alert list as a condensed human-readable message grouped
// by vendor, most urgent vendors first.
func (s *AlertService) Digest(ctx context.Context) (string, error) {
	alerts, err := s.LowStock(ctx, "")
	if err != nil {
		return "", err
	}

	if len(alerts) == 0 {
		return "All tracked items are healthy.", nil
	}

	byVendor := make(map[string][]domain.LowStockAlert)
	for _, alert := range alerts {
		vendor := alert.VendorName
		if vendor == "" {
			vendor = "Unassigned"
		}
		byVendor[vendor] = append(byVendor[vendor], alert)
	}

	vendors := make([]string, 0, len(byVendor))
	for vendor := range byVendor {
		vendors = append(vendors, vendor)
	}
	// Alerts are already priority-sorted, so a vendor's first alert is its
	// most urgent one.
	sort.Slice(vendors, func(i, j int) bool {
		a, b := byVendor[vendors[i]][0], byVendor[vendors[j]][0]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return vendors[i] < vendors[j]
	})

	var sb strings.Builder
	for _, vendor := range vendors {
		fmt.Fprintf(&sb, "%s:\n", vendor)
		for _, alert := range byVendor[vendor] {
			line := fmt.Sprintf("  [%s] %s: %.0f on hand", alert.Priority, alert.ItemName, alert.CurrentStock)
			if alert.DaysOfStockRemaining != nil {
				line += fmt.Sprintf(", ~%.1f days left", *alert.DaysOfStockRemaining)
			}
			if alert.SuggestedReorderQty > 0 {
				line += fmt.Sprintf(", reorder %d", alert.SuggestedReorderQty)
			}
			sb.WriteString(line + "\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}
