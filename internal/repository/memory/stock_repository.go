package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopops/opsdash/backend-go/internal/domain"
	"github.com/shopops/opsdash/backend-go/internal/repository"
)

// StockRepository keeps current stock levels in memory, keyed by
// case-insensitive item name.
type StockRepository struct {
	mu     sync.RWMutex
	levels map[string]domain.StockLevel
}

func NewStockRepository() *StockRepository {
	return &StockRepository{levels: make(map[string]domain.StockLevel)}
}

var _ repository.StockRepository = (*StockRepository)(nil)

func (r *StockRepository) ListStock(_ context.Context) ([]domain.StockLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	levels := make([]domain.StockLevel, 0, len(r.levels))
	for _, level := range r.levels {
		levels = append(levels, level)
	}

	sort.Slice(levels, func(i, j int) bool {
		return strings.ToLower(levels[i].ItemName) < strings.ToLower(levels[j].ItemName)
	})

	return levels, nil
}

func (r *StockRepository) GetStock(_ context.Context, itemName string) (*domain.StockLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	level, ok := r.levels[stockKey(itemName)]
	if !ok {
		return nil, nil
	}

	return &level, nil
}

func (r *StockRepository) UpdateStock(_ context.Context, itemName string, currentStock float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := stockKey(itemName)
	level, ok := r.levels[key]
	if !ok {
		return fmt.Errorf("update stock: unknown item %s", itemName)
	}

	if currentStock < 0 {
		currentStock = 0
	}

	level.CurrentStock = currentStock
	level.UpdatedAt = time.Now()
	r.levels[key] = level

	return nil
}

func (r *StockRepository) SaveStockLevel(_ context.Context, level domain.StockLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if level.CurrentStock < 0 {
		level.CurrentStock = 0
	}
	if level.UpdatedAt.IsZero() {
		level.UpdatedAt = time.Now()
	}

	r.levels[stockKey(level.ItemName)] = level
	return nil
}

func stockKey(itemName string) string {
	return strings.ToLower(strings.TrimSpace(itemName))
}
