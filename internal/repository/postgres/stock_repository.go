package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/shopops/opsdash/backend-go/internal/domain"
	"github.com/shopops/opsdash/backend-go/internal/repository"
)

// StockRepository is the Postgres-backed current-stock store.
type StockRepository struct {
	db *DB
}

func NewStockRepository(db *DB) *StockRepository {
	return &StockRepository{db: db}
}

var _ repository.StockRepository = (*StockRepository)(nil)

const stockColumns = `
	item_name, COALESCE(vendor_name, '') AS vendor_name,
	COALESCE(category, '') AS category, current_stock, reorder_point,
	COALESCE(pack_size, 0) AS pack_size, COALESCE(unit_cost, 0) AS unit_cost,
	COALESCE(unit_price, 0) AS unit_price, updated_at`

func (r *StockRepository) ListStock(ctx context.Context) ([]domain.StockLevel, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_levels ORDER BY item_name`

	var levels []domain.StockLevel
	if err := r.db.SelectContext(ctx, &levels, query); err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}

	return levels, nil
}

func (r *StockRepository) GetStock(ctx context.Context, itemName string) (*domain.StockLevel, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_levels WHERE lower(item_name) = lower($1)`

	var level domain.StockLevel
	if err := r.db.GetContext(ctx, &level, query, itemName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock for %s: %w", itemName, err)
	}

	return &level, nil
}

func (r *StockRepository) UpdateStock(ctx context.Context, itemName string, currentStock float64) error {
	if currentStock < 0 {
		log.Warn().Str("item", itemName).Float64("stock", currentStock).
			Msg("negative stock input clamped to zero")
		currentStock = 0
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE stock_levels SET current_stock = $2, updated_at = NOW()
		WHERE lower(item_name) = lower($1)`, itemName, currentStock)
	if err != nil {
		return fmt.Errorf("update stock for %s: %w", itemName, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update stock for %s: %w", itemName, err)
	}
	if rows == 0 {
		return fmt.Errorf("update stock: unknown item %s", itemName)
	}

	return nil
}

func (r *StockRepository) SaveStockLevel(ctx context.Context, level domain.StockLevel) error {
	if level.CurrentStock < 0 {
		level.CurrentStock = 0
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stock_levels
			(item_name, vendor_name, category, current_stock, reorder_point, pack_size, unit_cost, unit_price, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (item_name) DO UPDATE SET
			vendor_name = EXCLUDED.vendor_name,
			category = EXCLUDED.category,
			current_stock = EXCLUDED.current_stock,
			reorder_point = EXCLUDED.reorder_point,
			pack_size = EXCLUDED.pack_size,
			unit_cost = EXCLUDED.unit_cost,
			unit_price = EXCLUDED.unit_price,
			updated_at = NOW()`,
		level.ItemName, level.VendorName, level.Category, level.CurrentStock,
		level.ReorderPoint, level.PackSize, level.UnitCost, level.UnitPrice)
	if err != nil {
		return fmt.Errorf("save stock level for %s: %w", level.ItemName, err)
	}

	return nil
}
