package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

func TestStockRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewStockRepository()

	require.NoError(t, repo.SaveStockLevel(ctx, domain.StockLevel{
		ItemName: "Sourdough Loaf", VendorName: "Mill Co", CurrentStock: 12, PackSize: 6,
	}))

	level, err := repo.GetStock(ctx, "sourdough loaf")
	require.NoError(t, err)
	require.NotNil(t, level)
	assert.Equal(t, 12.0, level.CurrentStock)
	assert.Equal(t, 6, level.PackSize)
}

func TestStockRepositoryUpdateClampsNegative(t *testing.T) {
	ctx := context.Background()
	repo := NewStockRepository()

	require.NoError(t, repo.SaveStockLevel(ctx, domain.StockLevel{ItemName: "Rye", CurrentStock: 5}))
	require.NoError(t, repo.UpdateStock(ctx, "Rye", -3))

	level, err := repo.GetStock(ctx, "Rye")
	require.NoError(t, err)
	require.NotNil(t, level)
	assert.Zero(t, level.CurrentStock)
}

func TestStockRepositoryUpdateUnknownItem(t *testing.T) {
	repo := NewStockRepository()
	err := repo.UpdateStock(context.Background(), "nope", 3)
	assert.Error(t, err)
}

func TestStockRepositoryMissingItemIsNil(t *testing.T) {
	repo := NewStockRepository()
	level, err := repo.GetStock(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, level)
}
