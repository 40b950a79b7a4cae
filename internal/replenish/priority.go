package replenish

import (
	"sort"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

// Runway thresholds, in days of stock remaining.
const (
	criticalRunwayDays = 3
	warningRunwayDays  = 7
	watchRunwayDays    = 14
)

// DaysOfStock estimates how many days the current stock lasts at the current
// sales rate. Nil when there is no recent velocity: an item with stock but no
// sales cannot have its runway estimated.
func DaysOfStock(currentStock, avgDaily float64) *float64 {
	if avgDaily <= 0 {
		return nil
	}
	if currentStock < 0 {
		currentStock = 0
	}

	days := currentStock / avgDaily
	return &days
}

// Classify assigns the urgency tier for one item. Rules fire in strict
// precedence order; the first match wins. Items without a runway estimate can
// only be flagged by the stock rules, never on runway grounds.
func Classify(currentStock float64, reorderPoint *float64, avgDaily float64) (domain.Priority, string, *float64) {
	runway := DaysOfStock(currentStock, avgDaily)

	switch {
	case currentStock <= 0:
		return domain.PriorityCritical, "out of stock", runway
	case reorderPoint != nil && currentStock <= *reorderPoint:
		return domain.PriorityCritical, "below reorder point", runway
	case runway != nil && *runway < criticalRunwayDays:
		return domain.PriorityCritical, "under 3 days of stock", runway
	case runway != nil && *runway < warningRunwayDays:
		return domain.PriorityWarning, "under 7 days of stock", runway
	case runway != nil && *runway < watchRunwayDays:
		return domain.PriorityWatch, "under 14 days of stock", runway
	default:
		return domain.PriorityOK, "", runway
	}
}

// SortAlerts orders an alert list for display: priority rank ascending, then
// days-of-stock-remaining ascending with unknown runways last.
func SortAlerts(alerts []domain.LowStockAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}

		switch {
		case a.DaysOfStockRemaining == nil && b.DaysOfStockRemaining == nil:
			return a.ItemName < b.ItemName
		case a.DaysOfStockRemaining == nil:
			return false
		case b.DaysOfStockRemaining == nil:
			return true
		default:
			return *a.DaysOfStockRemaining < *b.DaysOfStockRemaining
		}
	})
}
