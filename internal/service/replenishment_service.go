package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/shopops/opsdash/backend-go/internal/config"
	"github.com/shopops/opsdash/backend-go/internal/domain"
	"github.com/shopops/opsdash/backend-go/internal/replenish"
	"github.com/shopops/opsdash/backend-go/internal/repository"
)

// ReplenishmentService assembles per-vendor order sheets from sales history
// and the current stock snapshot.
type ReplenishmentService struct {
	sales    repository.SalesRepository
	stock    repository.StockRepository
	settings *config.ReplenishSettings
}

func NewReplenishmentService(sales repository.SalesRepository, stock repository.StockRepository, settings *config.ReplenishSettings) *ReplenishmentService {
	return &ReplenishmentService{sales: sales, stock: stock, settings: settings}
}

// OrderSheetRequest parameterizes one order-sheet run.
type OrderSheetRequest struct {
	// Vendor filters the sheet to one vendor; empty means all vendors.
	Vendor string
	// Frequency is the reorder cycle in weeks. Zero falls back to the
	// configured default.
	Frequency domain.OrderFrequency
	// AsOf is the last day of the analysis window; zero means today.
	AsOf time.Time
	// AnalysisDays overrides the configured window length when positive.
	AnalysisDays int
}

func (r OrderSheetRequest) normalize(settings *config.ReplenishSettings) OrderSheetRequest {
	if r.Frequency == 0 {
		r.Frequency = domain.OrderFrequency(settings.OrderFrequencyWeeks)
	}
	if r.AsOf.IsZero() {
		r.AsOf = time.Now()
	}
	if r.AnalysisDays <= 0 {
		r.AnalysisDays = settings.AnalysisDays
	}
	return r
}

// BuildOrderSheet computes one recommendation per stocked item. Items with no
// sales in the window still appear, with zero velocity and a suggestion
// driven purely by stock rules. OrderQuantity is left unset; it belongs to
// the user.
func (s *ReplenishmentService) BuildOrderSheet(ctx context.Context, req OrderSheetRequest) ([]domain.ReplenishmentItem, error) {
	req = req.normalize(s.settings)

	levels, err := s.stock.ListStock(ctx)
	if err != nil {
		return nil, err
	}

	if req.Vendor != "" {
		filtered := levels[:0]
		for _, level := range levels {
			if strings.EqualFold(level.VendorName, req.Vendor) {
				filtered = append(filtered, level)
			}
		}
		levels = filtered
	}

	window := replenish.Window{
		Start:      req.AsOf.AddDate(0, 0, -(req.AnalysisDays - 1)),
		End:        req.AsOf,
		PeriodDays: req.AnalysisDays,
	}

	records, err := s.sales.ListSales(ctx, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	include := make([]string, 0, len(levels))
	for _, level := range levels {
		include = append(include, level.ItemName)
	}

	summaries := replenish.Aggregate(records, window, include)
	summaryByKey := make(map[string]domain.SalesSummary, len(summaries))
	for _, summary := range summaries {
		summaryByKey[replenish.NormalizeItemName(summary.ItemName)] = summary
	}

	items := make([]domain.ReplenishmentItem, 0, len(levels))
	for _, level := range levels {
		summary := summaryByKey[replenish.NormalizeItemName(level.ItemName)]
		velocity := replenish.VelocityFor(summary)

		suggested, err := replenish.SuggestedOrder(velocity.AvgWeekly, req.Frequency, level.CurrentStock)
		if err != nil {
			return nil, err
		}

		items = append(items, domain.ReplenishmentItem{
			ItemName:       level.ItemName,
			VendorName:     level.VendorName,
			Category:       level.Category,
			TotalUnits:     summary.TotalUnits,
			AvgWeekly:      replenish.RoundForDisplay(velocity.AvgWeekly),
			CurrentStock:   level.CurrentStock,
			PackSize:       level.PackSize,
			UnitCost:       level.UnitCost,
			UnitPrice:      level.UnitPrice,
			SuggestedOrder: replenish.RoundToPackSize(suggested, level.PackSize),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].VendorName != items[j].VendorName {
			return items[i].VendorName < items[j].VendorName
		}
		return items[i].ItemName < items[j].ItemName
	})

	return items, nil
}

// BuildVendorOrderSheets computes order sheets for every vendor concurrently.
// Vendors whose sheets fail abort the whole run; partial sheets are worse
// than no sheets when someone is about to place orders.
func (s *ReplenishmentService) BuildVendorOrderSheets(ctx context.Context, req OrderSheetRequest) (map[string][]domain.ReplenishmentItem, error) {
	levels, err := s.stock.ListStock(ctx)
	if err != nil {
		return nil, err
	}

	vendors := make(map[string]struct{})
	for _, level := range levels {
		if level.VendorName != "" {
			vendors[level.VendorName] = struct{}{}
		}
	}

	var (
		mu     sync.Mutex
		sheets = make(map[string][]domain.ReplenishmentItem, len(vendors))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for vendor := range vendors {
		g.Go(func() error {
			vendorReq := req
			vendorReq.Vendor = vendor

			items, err := s.BuildOrderSheet(gctx, vendorReq)
			if err != nil {
				return err
			}

			mu.Lock()
			sheets[vendor] = items
			mu.Unlock()

			log.Debug().Str("vendor", vendor).Int("items", len(items)).Msg("order sheet built")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sheets, nil
}

// UpdateOrderQuantity applies a user-entered override to an item on a sheet,
// rounded to the item's pack size.
func (s *ReplenishmentService) UpdateOrderQuantity(item *domain.ReplenishmentItem, quantity int) {
	replenish.SetOrderQuantity(item, quantity)
}

// UpdatePackSize reassigns an item's pack size and re-rounds the suggested
// order and any existing override.
func (s *ReplenishmentService) UpdatePackSize(item *domain.ReplenishmentItem, packSize int) {
	replenish.SetPackSize(item, packSize)
}
