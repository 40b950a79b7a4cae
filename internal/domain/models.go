// backend-go/internal/domain/models.go
package domain

import (
	"encoding/json"
	"math"
	"time"
)

// SalesRecord is one row of unit-sales history, either a single transaction
// or a daily rollup produced by the POS export.
type SalesRecord struct {
	ItemName      string    `json:"item_name" db:"item_name"`
	VariationName string    `json:"variation_name,omitempty" db:"variation_name"`
	Date          time.Time `json:"date" db:"sale_date"`
	QuantitySold  float64   `json:"quantity_sold" db:"quantity_sold"`
	Revenue       float64   `json:"revenue" db:"revenue"`
}

// SalesSummary is the per-item reduction of sales history over an analysis
// window. It is recomputed on every run and never persisted.
type SalesSummary struct {
	ItemName     string  `json:"item_name"`
	TotalUnits   float64 `json:"total_units"`
	TotalRevenue float64 `json:"total_revenue"`
	PeriodDays   int     `json:"period_days"`
}

// StockLevel is the current inventory truth for one item, supplied by the
// owning store. The engine only ever reads it; writes go through
// StockRepository.UpdateStock.
type StockLevel struct {
	ItemName     string    `json:"item_name" db:"item_name"`
	VendorName   string    `json:"vendor_name" db:"vendor_name"`
	Category     string    `json:"category" db:"category"`
	CurrentStock float64   `json:"current_stock" db:"current_stock"`
	ReorderPoint *float64  `json:"reorder_point,omitempty" db:"reorder_point"`
	PackSize     int       `json:"pack_size,omitempty" db:"pack_size"`
	UnitCost     float64   `json:"unit_cost" db:"unit_cost"`
	UnitPrice    float64   `json:"unit_price" db:"unit_price"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ReplenishmentItem is the per-item recommendation on an order sheet.
// SuggestedOrder is always derived and recomputable; OrderQuantity is a user
// override that the engine initializes once and never touches again.
type ReplenishmentItem struct {
	ItemName       string  `json:"item_name"`
	VendorName     string  `json:"vendor_name"`
	Category       string  `json:"category"`
	TotalUnits     float64 `json:"total_units"`
	AvgWeekly      float64 `json:"avg_weekly"`
	CurrentStock   float64 `json:"current_stock"`
	PackSize       int     `json:"pack_size,omitempty"`
	UnitCost       float64 `json:"unit_cost"`
	UnitPrice      float64 `json:"unit_price"`
	SuggestedOrder int     `json:"suggested_order"`
	OrderQuantity  *int    `json:"order_quantity,omitempty"`
}

// Margin returns the unit margin for the item, or 0 when no price is known.
func (r ReplenishmentItem) Margin() float64 {
	if r.UnitPrice <= 0 {
		return 0
	}
	return r.UnitPrice - r.UnitCost
}

// DeliveryWindow describes which calendar days a single delivery must supply
// before the next one arrives. Static configuration, never derived.
type DeliveryWindow struct {
	Name         string         `json:"name"`
	OrderDay     time.Weekday   `json:"order_day"`
	DeliveryDay  time.Weekday   `json:"delivery_day"`
	CoverageDays []time.Weekday `json:"coverage_days"`
}

// WindowOrderLine is the per-variation result of planning one delivery window.
type WindowOrderLine struct {
	VariationName string  `json:"variation_name"`
	TotalNeeded   int     `json:"total_needed"`
	CurrentStock  float64 `json:"current_stock"`
	NetNeeded     int     `json:"net_needed"`
	BoxSize       int     `json:"box_size"`
	BoxesNeeded   int     `json:"boxes_needed"`
	TotalOrdered  int     `json:"total_ordered"`
}

// WindowOrderSheet is the full order for one delivery window plus aggregate
// totals across all variations.
type WindowOrderSheet struct {
	WindowName        string            `json:"window_name"`
	OrderDay          time.Weekday      `json:"order_day"`
	DeliveryDay       time.Weekday      `json:"delivery_day"`
	CoveredDays       []time.Weekday    `json:"covered_days"`
	Lines             []WindowOrderLine `json:"lines"`
	TotalBoxes        int               `json:"total_boxes"`
	TotalUnitsOrdered int               `json:"total_units_ordered"`
}

// LowStockAlert is an output-only urgency flag for one item, recomputed on
// every run.
type LowStockAlert struct {
	ItemName             string   `json:"item_name"`
	VendorName           string   `json:"vendor_name"`
	CurrentStock         float64  `json:"current_stock"`
	AvgDailySales        float64  `json:"avg_daily_sales"`
	DaysOfStockRemaining *float64 `json:"days_of_stock_remaining,omitempty"`
	Priority             Priority `json:"priority"`
	Reason               string   `json:"reason"`
	SuggestedReorderQty  int      `json:"suggested_reorder_qty"`
}

// VendorDeadline is the static ordering cadence for one vendor. The derived
// minutes-until-deadline and overdue flag live on DeadlineReminder and are
// never stored.
type VendorDeadline struct {
	VendorName  string        `json:"vendor_name"`
	OrderDay    time.Weekday  `json:"order_day"`
	Deadline    string        `json:"deadline,omitempty"`
	DeliveryDay *time.Weekday `json:"delivery_day,omitempty"`
}

// DeadlineReminder is the evaluated state of a VendorDeadline at a point in
// time. MinutesUntilDeadline is +Inf when the vendor has no parseable
// deadline.
type DeadlineReminder struct {
	VendorName           string          `json:"vendor_name"`
	OrderDay             time.Weekday    `json:"order_day"`
	Deadline             string          `json:"deadline,omitempty"`
	DeliveryDay          *time.Weekday   `json:"delivery_day,omitempty"`
	MinutesUntilDeadline float64         `json:"-"`
	IsOverdue            bool            `json:"is_overdue"`
	Urgency              DeadlineUrgency `json:"urgency"`
}

// MarshalJSON renders an infinite minutes-until-deadline as null so the
// "no deadline" case survives JSON encoding.
func (r DeadlineReminder) MarshalJSON() ([]byte, error) {
	type alias DeadlineReminder
	payload := struct {
		alias
		MinutesUntilDeadline *float64 `json:"minutes_until_deadline"`
	}{alias: alias(r)}

	if !math.IsInf(r.MinutesUntilDeadline, 0) {
		payload.MinutesUntilDeadline = &r.MinutesUntilDeadline
	}

	return json.Marshal(payload)
}
