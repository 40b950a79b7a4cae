package replenish

import (
	"math"
	"strings"
	"time"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

// BoxSizing resolves the vendor carton size for a variation. Variations whose
// name contains one of the configured keywords (case-insensitive substring
// match) use that keyword's size; everything else uses Default.
type BoxSizing struct {
	Keywords map[string]int
	Default  int
}

// SizeFor returns the box size for a variation name, never less than 1.
func (b BoxSizing) SizeFor(variation string) int {
	lower := strings.ToLower(variation)
	for keyword, size := range b.Keywords {
		if size > 0 && strings.Contains(lower, strings.ToLower(keyword)) {
			return size
		}
	}

	if b.Default > 0 {
		return b.Default
	}

	return 1
}

// WindowMode selects how overlapping delivery windows treat shared coverage
// days.
type WindowMode int

const (
	// ModePerWindow evaluates every window independently. Two windows
	// covering the same calendar day will both claim that day's demand;
	// reconciling the overlap is the caller's judgment call.
	ModePerWindow WindowMode = iota

	// ModeExclusive assigns each calendar day to the first window (in
	// configuration order) that covers it, so demand is counted once.
	ModeExclusive
)

// WindowPlan parameterizes PlanWindows.
type WindowPlan struct {
	Windows    []domain.DeliveryWindow
	Variations []string
	// DailyNeed returns the base recommended quantity for a variation on one
	// covered day, before buffers.
	DailyNeed func(variation string, day time.Weekday) float64
	// CurrentStock returns the on-hand quantity for a variation.
	CurrentStock func(variation string) float64
	GeneralPct   float64
	DeliveryPct  float64
	Sizing       BoxSizing
	Mode         WindowMode
}

// PlanWindows builds one order sheet per delivery window: buffered per-day
// recommendations summed across the window's coverage days, netted against
// current stock, and converted to whole boxes.
func PlanWindows(plan WindowPlan) []domain.WindowOrderSheet {
	claimed := make(map[time.Weekday]int)
	if plan.Mode == ModeExclusive {
		for i, w := range plan.Windows {
			for _, day := range w.CoverageDays {
				if _, taken := claimed[day]; !taken {
					claimed[day] = i
				}
			}
		}
	}

	sheets := make([]domain.WindowOrderSheet, 0, len(plan.Windows))
	for i, w := range plan.Windows {
		covered := make([]time.Weekday, 0, len(w.CoverageDays))
		for _, day := range w.CoverageDays {
			if plan.Mode == ModeExclusive && claimed[day] != i {
				continue
			}
			covered = append(covered, day)
		}

		sheet := domain.WindowOrderSheet{
			WindowName:  w.Name,
			OrderDay:    w.OrderDay,
			DeliveryDay: w.DeliveryDay,
			CoveredDays: covered,
			Lines:       make([]domain.WindowOrderLine, 0, len(plan.Variations)),
		}

		for _, variation := range plan.Variations {
			line := planLine(plan, w, covered, variation)
			sheet.Lines = append(sheet.Lines, line)
			sheet.TotalBoxes += line.BoxesNeeded
			sheet.TotalUnitsOrdered += line.TotalOrdered
		}

		sheets = append(sheets, sheet)
	}

	return sheets
}

func planLine(plan WindowPlan, w domain.DeliveryWindow, covered []time.Weekday, variation string) domain.WindowOrderLine {
	totalNeeded := 0
	for _, day := range covered {
		base := plan.DailyNeed(variation, day)
		totalNeeded += ApplyBuffers(base, day == w.DeliveryDay, plan.GeneralPct, plan.DeliveryPct)
	}

	stock := plan.CurrentStock(variation)
	if stock < 0 {
		stock = 0
	}

	netNeeded := 0
	if float64(totalNeeded) > stock {
		netNeeded = int(math.Ceil(float64(totalNeeded) - stock))
	}

	boxSize := plan.Sizing.SizeFor(variation)
	boxesNeeded := 0
	if netNeeded > 0 {
		boxesNeeded = int(math.Ceil(float64(netNeeded) / float64(boxSize)))
	}

	return domain.WindowOrderLine{
		VariationName: variation,
		TotalNeeded:   totalNeeded,
		CurrentStock:  stock,
		NetNeeded:     netNeeded,
		BoxSize:       boxSize,
		BoxesNeeded:   boxesNeeded,
		TotalOrdered:  boxesNeeded * boxSize,
	}
}
