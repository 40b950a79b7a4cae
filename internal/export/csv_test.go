package export

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopops/opsdash/backend-go/internal/domain"
	"github.com/shopops/opsdash/backend-go/internal/storage"
)

// captureStorage records uploads so tests can assert the mirrored bytes.
type captureStorage struct {
	uploads map[string][]byte
	err     error
}

func newCaptureStorage() *captureStorage {
	return &captureStorage{uploads: make(map[string][]byte)}
}

func (c *captureStorage) ListObjects(context.Context, string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (c *captureStorage) DownloadObject(context.Context, string, string) error {
	return nil
}

func (c *captureStorage) UploadObject(_ context.Context, key string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.uploads[key] = append([]byte(nil), data...)
	return nil
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportOrderSheet(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(dir, nil)

	override := 24
	items := []domain.ReplenishmentItem{
		{
			ItemName:       "Croissant",
			VendorName:     "Bakehouse Supply",
			Category:       "Pastry",
			TotalUnits:     70,
			AvgWeekly:      10.0,
			CurrentStock:   5,
			PackSize:       6,
			UnitCost:       1.20,
			UnitPrice:      3.50,
			SuggestedOrder: 18,
			OrderQuantity:  &override,
		},
		{ItemName: "Flour 25kg", VendorName: "Dry Goods Co", SuggestedOrder: 2},
	}

	path, err := exporter.OrderSheet(context.Background(), "Bakehouse Supply", items)
	require.NoError(t, err)
	assert.FileExists(t, path)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "Item", rows[0][0])

	croissant := rows[1]
	assert.Equal(t, "Croissant", croissant[0])
	assert.Equal(t, "10.0", croissant[4])
	assert.Equal(t, "2.30", croissant[7]) // margin
	assert.Equal(t, "18", croissant[9])
	assert.Equal(t, "24", croissant[11])

	// No override set leaves the column empty.
	assert.Equal(t, "", rows[2][11])
}

func TestExportWindowSheetsAppendsTotals(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(dir, nil)

	sheets := []domain.WindowOrderSheet{
		{
			WindowName: "Early week",
			Lines: []domain.WindowOrderLine{
				{VariationName: "Plain", TotalNeeded: 10, NetNeeded: 7, BoxSize: 12, BoxesNeeded: 1, TotalOrdered: 12},
			},
			TotalBoxes:        1,
			TotalUnitsOrdered: 12,
		},
	}

	paths, err := exporter.WindowSheets(context.Background(), sheets)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	rows := readCSV(t, paths[0])
	require.Len(t, rows, 3)
	assert.Equal(t, "TOTAL", rows[2][0])
	assert.Equal(t, "12", rows[2][6])
}

func TestExportAlerts(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(dir, nil)

	days := 1.5
	alerts := []domain.LowStockAlert{
		{
			ItemName:            "Butter Block",
			VendorName:          "Dairy Direct",
			CurrentStock:        3,
			AvgDailySales:       2,
			Priority:            domain.PriorityCritical,
			Reason:              "under 3 days of stock",
			SuggestedReorderQty: 12,
		},
	}
	alerts[0].DaysOfStockRemaining = &days

	path, err := exporter.Alerts(context.Background(), alerts)
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "1.5", rows[1][4])
	assert.Equal(t, "critical", rows[1][5])
}

func TestExportMirrorsToObjectStorage(t *testing.T) {
	objects := newCaptureStorage()
	exporter := NewExporter(t.TempDir(), objects)

	items := []domain.ReplenishmentItem{
		{ItemName: "Croissant", VendorName: "Bakehouse Supply", SuggestedOrder: 18},
	}

	path, err := exporter.OrderSheet(context.Background(), "all", items)
	require.NoError(t, err)

	uploaded, ok := objects.uploads["exports/order_sheet_all.csv"]
	require.True(t, ok)

	local, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, local, uploaded)
}

func TestExportKeepsLocalCopyWhenUploadFails(t *testing.T) {
	objects := newCaptureStorage()
	objects.err = errors.New("bucket offline")
	exporter := NewExporter(t.TempDir(), objects)

	path, err := exporter.Alerts(context.Background(), []domain.LowStockAlert{
		{ItemName: "Butter Block", Priority: domain.PriorityCritical},
	})
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Empty(t, objects.uploads)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Bakehouse_Supply", sanitize("Bakehouse Supply"))
	assert.Equal(t, "a-b_c", sanitize("a-b_c"))
}
