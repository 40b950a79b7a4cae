package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

var snapshotDatePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// SnapshotDate extracts the sales date embedded in an export filename such as
// sales_2024-03-12.csv.
func SnapshotDate(filename string) (time.Time, error) {
	match := snapshotDatePattern.FindString(filepath.Base(filename))
	if match == "" {
		return time.Time{}, fmt.Errorf("no snapshot date in filename %q", filename)
	}
	date, err := time.Parse("2006-01-02", match)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad snapshot date in filename %q: %w", filename, err)
	}
	return date, nil
}

// ParseSalesCSV reads one POS sales export. Rows without their own date column
// inherit the snapshot date. Rows with an empty item name or an unparseable
// quantity are skipped, not fatal.
func ParseSalesCSV(path string, snapshot time.Time) ([]domain.SalesRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed reading header of %s: %w", path, err)
	}
	cols := indexColumns(header)
	if cols.item < 0 || cols.quantity < 0 {
		return nil, fmt.Errorf("%s: missing item or quantity column", path)
	}

	var records []domain.SalesRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed reading %s: %w", path, err)
		}

		item := strings.TrimSpace(field(row, cols.item))
		if item == "" {
			continue
		}

		quantity, err := parseNumber(field(row, cols.quantity))
		if err != nil {
			continue
		}

		record := domain.SalesRecord{
			ItemName:     item,
			Date:         snapshot,
			QuantitySold: quantity,
		}
		if cols.variation >= 0 {
			record.VariationName = strings.TrimSpace(field(row, cols.variation))
		}
		if cols.revenue >= 0 {
			if revenue, err := parseNumber(field(row, cols.revenue)); err == nil {
				record.Revenue = revenue
			}
		}
		if cols.date >= 0 {
			if date, err := time.Parse("2006-01-02", strings.TrimSpace(field(row, cols.date))); err == nil {
				record.Date = date
			}
		}

		records = append(records, record)
	}

	return records, nil
}

type columnIndex struct {
	item      int
	variation int
	date      int
	quantity  int
	revenue   int
}

func indexColumns(header []string) columnIndex {
	cols := columnIndex{item: -1, variation: -1, date: -1, quantity: -1, revenue: -1}
	for i, raw := range header {
		switch normalizeHeader(raw) {
		case "item", "item name", "product", "product name":
			cols.item = i
		case "variation", "variation name", "price point name":
			cols.variation = i
		case "date", "sale date":
			cols.date = i
		case "qty", "quantity", "qty sold", "quantity sold", "items sold":
			cols.quantity = i
		case "revenue", "gross sales", "net sales":
			cols.revenue = i
		}
	}
	return cols
}

func normalizeHeader(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff")))
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseNumber(raw string) (float64, error) {
	cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(raw))
	if cleaned == "" {
		return 0, fmt.Errorf("empty number")
	}
	return strconv.ParseFloat(cleaned, 64)
}
