package repository

import (
	"context"
	"time"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

// SalesRepository reads and stores the unit-sales history the engine analyzes.
type SalesRepository interface {
	// ListSales returns all records with a sale date between from and to,
	// inclusive.
	ListSales(ctx context.Context, from, to time.Time) ([]domain.SalesRecord, error)

	// SaveSales appends a batch of records, typically one ingested snapshot.
	SaveSales(ctx context.Context, records []domain.SalesRecord) error

	// DeleteSalesForDate removes all records for one calendar day so a
	// snapshot can be re-ingested without double counting.
	DeleteSalesForDate(ctx context.Context, date time.Time) error
}
