package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopops/opsdash/backend-go/internal/repository/memory"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSnapshotDate(t *testing.T) {
	date, err := SnapshotDate("sales_2024-03-12.csv")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), date)

	_, err = SnapshotDate("sales_latest.csv")
	assert.Error(t, err)
}

func TestParseSalesCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales_2024-03-12.csv",
		"Item,Variation,Qty Sold,Gross Sales\n"+
			"Croissant,Plain,4,\"$1,200.50\"\n"+
			",Orphan,2,10\n"+
			"Baguette,,notanumber,5\n"+
			"Flour 25kg,,1,30\n")

	snapshot := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	records, err := ParseSalesCSV(path, snapshot)
	require.NoError(t, err)

	// Blank item and bad quantity rows are dropped.
	require.Len(t, records, 2)
	assert.Equal(t, "Croissant", records[0].ItemName)
	assert.Equal(t, "Plain", records[0].VariationName)
	assert.Equal(t, 4.0, records[0].QuantitySold)
	assert.Equal(t, 1200.50, records[0].Revenue)
	assert.Equal(t, snapshot, records[0].Date)
	assert.Equal(t, "Flour 25kg", records[1].ItemName)
}

func TestParseSalesCSVRowDateOverridesSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales_2024-03-12.csv",
		"Date,Item,Quantity\n2024-03-10,Croissant,3\n")

	records, err := ParseSalesCSV(path, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), records[0].Date)
}

func TestParseSalesCSVMissingColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales_2024-03-12.csv", "Foo,Bar\n1,2\n")

	_, err := ParseSalesCSV(path, time.Now())
	assert.Error(t, err)
}

func TestOrchestratorRunIsIdempotentPerDate(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "sales_2024-03-12.csv",
		"Item,Quantity\nCroissant,4\n")
	second := writeFile(t, dir, "sales_2024-03-12_register2.csv",
		"Item,Quantity\nBaguette,2\n")

	sales := memory.NewSalesRepository()
	orch := NewOrchestrator(sales, Config{WorkerCount: 2})

	ctx := context.Background()
	require.NoError(t, orch.Run(ctx, []string{first, second}))
	require.NoError(t, orch.Run(ctx, []string{first, second}))

	from := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	records, err := sales.ListSales(ctx, from, to)
	require.NoError(t, err)

	// Second run replaced the first batch instead of appending to it.
	assert.Len(t, records, 2)
}

func TestOrchestratorRunDirSkipsNonCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sales_2024-03-12.csv", "Item,Quantity\nCroissant,4\n")
	writeFile(t, dir, "notes.txt", "not a sales file")

	sales := memory.NewSalesRepository()
	orch := NewOrchestrator(sales, Config{WorkerCount: 1})

	ctx := context.Background()
	require.NoError(t, orch.RunDir(ctx, dir))

	records, err := sales.ListSales(ctx,
		time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
