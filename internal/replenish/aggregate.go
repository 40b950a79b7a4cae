package replenish

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

// Window bounds an analysis run. Start and End are inclusive calendar dates.
// PeriodDays is the number of days the caller declares as analyzed; it may be
// longer than the span of records actually present (e.g. treat 4 weeks of CSV
// as a 6-week period) and is never inferred from the data.
type Window struct {
	Start      time.Time
	End        time.Time
	PeriodDays int
}

// Contains reports whether d falls inside the window, comparing calendar
// dates only.
func (w Window) Contains(d time.Time) bool {
	day := truncateDay(d)
	return !day.Before(truncateDay(w.Start)) && !day.After(truncateDay(w.End))
}

// NormalizeItemName collapses case and whitespace so "Baguette " and
// "baguette" aggregate under one key.
func NormalizeItemName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Aggregate reduces raw sales records inside the window into one SalesSummary
// per distinct item key. Records with a blank item name cannot be keyed and
// are skipped with a warning; everything else inside the window is counted.
// Items listed in include that have no sales receive a zero-filled summary so
// downstream stages still see them.
func Aggregate(records []domain.SalesRecord, w Window, include []string) []domain.SalesSummary {
	type bucket struct {
		display string
		units   float64
		revenue float64
	}

	buckets := make(map[string]*bucket)

	ensure := func(name string) *bucket {
		key := NormalizeItemName(name)
		if key == "" {
			return nil
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{display: strings.TrimSpace(name)}
			buckets[key] = b
		}
		return b
	}

	for _, name := range include {
		ensure(name)
	}

	for _, rec := range records {
		if !w.Contains(rec.Date) {
			continue
		}
		b := ensure(rec.ItemName)
		if b == nil {
			// Blank item names cannot be keyed; surface the drop instead of
			// losing the units without a trace.
			log.Warn().
				Str("date", rec.Date.Format("2006-01-02")).
				Float64("quantity", rec.QuantitySold).
				Msg("aggregate: record with blank item name skipped")
			continue
		}
		b.units += rec.QuantitySold
		b.revenue += rec.Revenue
	}

	summaries := make([]domain.SalesSummary, 0, len(buckets))
	for _, b := range buckets {
		summaries = append(summaries, domain.SalesSummary{
			ItemName:     b.display,
			TotalUnits:   b.units,
			TotalRevenue: b.revenue,
			PeriodDays:   w.PeriodDays,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return NormalizeItemName(summaries[i].ItemName) < NormalizeItemName(summaries[j].ItemName)
	})

	return summaries
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
