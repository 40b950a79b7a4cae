package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopops/opsdash/backend-go/internal/domain"
	"github.com/shopops/opsdash/backend-go/internal/repository"
)

// SalesRepository is the Postgres-backed sales history store.
type SalesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *SalesRepository {
	return &SalesRepository{db: db}
}

var _ repository.SalesRepository = (*SalesRepository)(nil)

func (r *SalesRepository) ListSales(ctx context.Context, from, to time.Time) ([]domain.SalesRecord, error) {
	query := `
		SELECT item_name, COALESCE(variation_name, '') AS variation_name,
		       sale_date, quantity_sold, revenue
		FROM sales_records
		WHERE sale_date >= $1 AND sale_date <= $2
		ORDER BY sale_date, item_name`

	var records []domain.SalesRecord
	if err := r.db.SelectContext(ctx, &records, query, from, to); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	return records, nil
}

func (r *SalesRepository) SaveSales(ctx context.Context, records []domain.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO sales_records (item_name, variation_name, sale_date, quantity_sold, revenue)
			VALUES ($1, $2, $3, $4, $5)`)
		if err != nil {
			return fmt.Errorf("prepare insert sales: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			variation := sql.NullString{String: rec.VariationName, Valid: rec.VariationName != ""}
			if _, err := stmt.ExecContext(ctx, rec.ItemName, variation, rec.Date, rec.QuantitySold, rec.Revenue); err != nil {
				return fmt.Errorf("insert sales record %s: %w", rec.ItemName, err)
			}
		}

		return nil
	})
}

func (r *SalesRepository) DeleteSalesForDate(ctx context.Context, date time.Time) error {
	day := date.Format("2006-01-02")
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sales_records WHERE sale_date::date = $1`, day); err != nil {
		return fmt.Errorf("delete sales for %s: %w", day, err)
	}

	return nil
}
