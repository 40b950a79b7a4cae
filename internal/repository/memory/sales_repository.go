// Package memory provides in-memory repository implementations used by the
// CLI's file-driven runs and by tests. All implementations are safe for
// concurrent use.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopops/opsdash/backend-go/internal/domain"
	"github.com/shopops/opsdash/backend-go/internal/repository"
)

// SalesRepository keeps sales history in memory.
type SalesRepository struct {
	mu      sync.RWMutex
	records []domain.SalesRecord
}

func NewSalesRepository() *SalesRepository {
	return &SalesRepository{}
}

var _ repository.SalesRepository = (*SalesRepository)(nil)

func (r *SalesRepository) ListSales(_ context.Context, from, to time.Time) ([]domain.SalesRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fromDay := dayOf(from)
	toDay := dayOf(to)

	var result []domain.SalesRecord
	for _, rec := range r.records {
		day := dayOf(rec.Date)
		if day.Before(fromDay) || day.After(toDay) {
			continue
		}
		result = append(result, rec)
	}

	return result, nil
}

func (r *SalesRepository) SaveSales(_ context.Context, records []domain.SalesRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, records...)
	return nil
}

func (r *SalesRepository) DeleteSalesForDate(_ context.Context, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := dayOf(date)
	kept := r.records[:0]
	for _, rec := range r.records {
		if !dayOf(rec.Date).Equal(day) {
			kept = append(kept, rec)
		}
	}
	r.records = kept

	return nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
