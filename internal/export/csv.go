// Package export writes order sheets and alert lists to CSV, optionally
// mirroring them to object storage.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shopops/opsdash/backend-go/internal/domain"
	"github.com/shopops/opsdash/backend-go/internal/storage"
)

// Exporter writes CSV files under exportDir. When objects is non-nil each
// file is also uploaded under the same relative key.
type Exporter struct {
	exportDir string
	objects   storage.ObjectStorage
}

func NewExporter(exportDir string, objects storage.ObjectStorage) *Exporter {
	return &Exporter{exportDir: exportDir, objects: objects}
}

// OrderSheet writes one recommendation row per item. The returned path is the
// local file written.
func (e *Exporter) OrderSheet(ctx context.Context, name string, items []domain.ReplenishmentItem) (string, error) {
	header := []string{
		"Item", "Vendor", "Category", "Total Units", "Avg/Week",
		"Unit Cost", "Unit Price", "Margin", "On Hand", "Suggested Order",
		"Pack Size", "Order Quantity",
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		orderQty := ""
		if item.OrderQuantity != nil {
			orderQty = fmt.Sprintf("%d", *item.OrderQuantity)
		}
		rows = append(rows, []string{
			item.ItemName,
			item.VendorName,
			item.Category,
			fmt.Sprintf("%.0f", item.TotalUnits),
			fmt.Sprintf("%.1f", item.AvgWeekly),
			fmt.Sprintf("%.2f", item.UnitCost),
			fmt.Sprintf("%.2f", item.UnitPrice),
			fmt.Sprintf("%.2f", item.Margin()),
			fmt.Sprintf("%.0f", item.CurrentStock),
			fmt.Sprintf("%d", item.SuggestedOrder),
			fmt.Sprintf("%d", item.PackSize),
			orderQty,
		})
	}

	return e.write(ctx, fmt.Sprintf("order_sheet_%s.csv", sanitize(name)), header, rows)
}

// WindowSheets writes one CSV per delivery window order sheet and returns the
// local paths written.
func (e *Exporter) WindowSheets(ctx context.Context, sheets []domain.WindowOrderSheet) ([]string, error) {
	header := []string{
		"Variation", "Total Needed", "On Hand", "Net Needed",
		"Box Size", "Boxes", "Total Ordered",
	}

	paths := make([]string, 0, len(sheets))
	for _, sheet := range sheets {
		rows := make([][]string, 0, len(sheet.Lines)+1)
		for _, line := range sheet.Lines {
			rows = append(rows, []string{
				line.VariationName,
				fmt.Sprintf("%d", line.TotalNeeded),
				fmt.Sprintf("%.0f", line.CurrentStock),
				fmt.Sprintf("%d", line.NetNeeded),
				fmt.Sprintf("%d", line.BoxSize),
				fmt.Sprintf("%d", line.BoxesNeeded),
				fmt.Sprintf("%d", line.TotalOrdered),
			})
		}
		rows = append(rows, []string{
			"TOTAL", "", "", "", "",
			fmt.Sprintf("%d", sheet.TotalBoxes),
			fmt.Sprintf("%d", sheet.TotalUnitsOrdered),
		})

		path, err := e.write(ctx, fmt.Sprintf("window_%s.csv", sanitize(sheet.WindowName)), header, rows)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Alerts writes the low-stock alert list.
func (e *Exporter) Alerts(ctx context.Context, alerts []domain.LowStockAlert) (string, error) {
	header := []string{
		"Item", "Vendor", "On Hand", "Avg Daily", "Days Remaining",
		"Priority", "Reason", "Suggested Reorder",
	}

	rows := make([][]string, 0, len(alerts))
	for _, alert := range alerts {
		days := ""
		if alert.DaysOfStockRemaining != nil {
			days = fmt.Sprintf("%.1f", *alert.DaysOfStockRemaining)
		}
		rows = append(rows, []string{
			alert.ItemName,
			alert.VendorName,
			fmt.Sprintf("%.0f", alert.CurrentStock),
			fmt.Sprintf("%.2f", alert.AvgDailySales),
			days,
			alert.Priority.String(),
			alert.Reason,
			fmt.Sprintf("%d", alert.SuggestedReorderQty),
		})
	}

	name := fmt.Sprintf("alerts_%s.csv", time.Now().Format("2006-01-02"))
	return e.write(ctx, name, header, rows)
}

func (e *Exporter) write(ctx context.Context, name string, header []string, rows [][]string) (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	path := filepath.Join(e.exportDir, name)
	if err := os.MkdirAll(e.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed creating export directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed writing %s: %w", path, err)
	}

	if e.objects != nil {
		if err := e.objects.UploadObject(ctx, "exports/"+name, buf.Bytes()); err != nil {
			log.Warn().Err(err).Str("key", name).Msg("export: upload failed, local copy kept")
		}
	}

	return path, nil
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == '-' || r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
