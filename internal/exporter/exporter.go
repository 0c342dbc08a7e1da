// Package exporter renders the current filtered order view as a flat
// CSV file for hand-off to spreadsheet tooling.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/posentinel/sentinel/internal/urgency"
)

// header is the fixed column order of the export file.
var header = []string{
	"PO Number",
	"Urgency",
	"Status",
	"Order Date",
	"Due Date",
	"Vendor",
	"Item Code",
	"Quantity",
	"Pending Qty",
	"Unit Price",
	"Currency",
	"Total",
	"Description",
	"Age",
}

// DefaultFilename names the export after the current date.
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("sentinel_export_%s.csv", now.Format("2006-01-02"))
}

// WriteFile exports the given view to the CSV file at path.
func WriteFile(path string, records []urgency.EvaluatedOrder) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}

	if err := Write(f, records); err != nil {
		f.Close()
		return fmt.Errorf("exporting to %s: %w", path, err)
	}

	return f.Close()
}

// Write renders records as CSV rows in the fixed column order.
func Write(w io.Writer, records []urgency.EvaluatedOrder) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.PONumber,
			r.Urgency,
			string(r.Status),
			r.CreationDate,
			r.DeliveryDate,
			r.Vendor,
			r.ItemCode,
			formatNumber(r.Quantity),
			formatNumber(r.PendingQuantity),
			formatNumber(r.UnitPrice),
			r.Currency,
			formatNumber(r.TotalAmount),
			r.ItemDescription,
			strconv.Itoa(r.Age),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row for %s: %w", r.PONumber, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
