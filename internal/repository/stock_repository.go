package repository

import (
	"context"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

// StockRepository owns the current-stock truth. The replenishment engine only
// reads through this interface; stock writes are a separate caller-owned path
// and are never issued from inside a computation.
type StockRepository interface {
	ListStock(ctx context.Context) ([]domain.StockLevel, error)

	GetStock(ctx context.Context, itemName string) (*domain.StockLevel, error)

	// UpdateStock sets the on-hand quantity for one item. Negative values are
	// manual-entry mistakes and are clamped to zero by implementations.
	UpdateStock(ctx context.Context, itemName string, currentStock float64) error

	// SaveStockLevel inserts or replaces a full item row (catalog seeding).
	SaveStockLevel(ctx context.Context, level domain.StockLevel) error
}
