// Package importer parses tabular CSV exports from procurement systems
// into purchase orders. Header names vary wildly between systems, so
// columns are matched through an alias table after normalization.
// Import is all-or-nothing: a malformed file yields zero orders.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/posentinel/sentinel/internal/dates"
	"github.com/posentinel/sentinel/internal/model"
)

// defaultDeliveryOffsetDays fills an absent due date relative to the
// order date.
const defaultDeliveryOffsetDays = 30

// columnAliases maps a canonical field name to the normalized header
// spellings that select it. Headers are normalized by lowercasing and
// stripping spaces, underscores, and hyphens before lookup.
var columnAliases = map[string][]string{
	"po_number":     {"ponumber", "ordernumber", "orderno"},
	"vendor":        {"vendorname", "vendor", "supplier", "suppliername"},
	"creation_date": {"podate", "orderdate", "creationdate", "datecreated"},
	"approve_date":  {"approvedate", "approvaldate"},
	"delivery_date": {"deliverydate", "duedate"},
	"item_code":     {"itemcode", "partnumber", "code"},
	"unit_price":    {"unitprice", "rate"},
	"currency":      {"currency", "curr"},
	"quantity":      {"quantity", "qty"},
	"uom":           {"uom", "unit", "unitofmeasure"},
	"description":   {"itemdescription", "description"},
	"pending_qty":   {"pendingquantity", "pending"},
	"status":        {"status", "state"},
	"priority":      {"priority", "urgency"},
	"notes":         {"notes", "remarks"},
}

// requiredColumns must resolve in the header row for the file to be
// accepted at all.
var requiredColumns = []string{"po_number", "creation_date"}

// ReadFile imports orders from the CSV file at path.
func ReadFile(path string, now time.Time) ([]model.PurchaseOrder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	orders, err := Read(f, now)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	return orders, nil
}

// Read imports orders from CSV data. The first row must be a header;
// every following row becomes one order. Any structural error abandons
// the whole import.
func Read(r io.Reader, now time.Time) ([]model.PurchaseOrder, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header row: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var orders []model.PurchaseOrder
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}
		orders = append(orders, mapRow(record, cols, now))
	}

	return orders, nil
}

// resolveColumns maps canonical field names to header indexes, failing
// when a required column cannot be found under any alias.
func resolveColumns(header []string) (map[string]int, error) {
	byNormalized := make(map[string]int, len(header))
	for i, h := range header {
		byNormalized[normalizeHeader(h)] = i
	}

	cols := make(map[string]int)
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if idx, ok := byNormalized[alias]; ok {
				cols[field] = idx
				break
			}
		}
	}

	for _, field := range requiredColumns {
		if _, ok := cols[field]; !ok {
			return nil, fmt.Errorf("no recognizable %q column in header", field)
		}
	}

	return cols, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
	return h
}

// mapRow converts one data row into an order, substituting defaults
// for everything it cannot make sense of.
func mapRow(record []string, cols map[string]int, now time.Time) model.PurchaseOrder {
	cell := func(field string) string {
		idx, ok := cols[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	poNumber := cell("po_number")
	if poNumber == "" {
		poNumber = "PO-" + uuid.New().String()[:8]
	}

	vendor := cell("vendor")
	if vendor == "" {
		vendor = "Unknown Vendor"
	}

	creationDate := cell("creation_date")
	if creationDate == "" {
		creationDate = now.Format("2006-01-02")
	}

	deliveryDate := cell("delivery_date")
	if deliveryDate == "" {
		if created, ok := dates.Normalize(creationDate); ok {
			deliveryDate = created.AddDate(0, 0, defaultDeliveryOffsetDays).Format("2006-01-02")
		}
	}

	unitPrice := parseNumber(cell("unit_price"))
	quantity := parseNumber(cell("quantity"))

	return model.PurchaseOrder{
		ID:              uuid.New().String(),
		PONumber:        poNumber,
		Vendor:          vendor,
		CreationDate:    creationDate,
		ApproveDate:     cell("approve_date"),
		DeliveryDate:    deliveryDate,
		Status:          parseStatus(cell("status")),
		Priority:        parsePriority(cell("priority")),
		TotalAmount:     unitPrice * quantity,
		ItemCode:        cell("item_code"),
		UnitPrice:       unitPrice,
		Currency:        cell("currency"),
		Quantity:        quantity,
		UOM:             cell("uom"),
		ItemDescription: cell("description"),
		PendingQuantity: parseNumber(cell("pending_qty")),
		Notes:           cell("notes"),
	}
}

// parseNumber coerces a messy numeric cell ("$1,200.50", "12 pcs") to
// a float, keeping only digits, dots, and signs. Failure yields zero.
func parseNumber(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseStatus matches loosely: any cell containing a known status word
// maps to it, anything else defaults to Pending.
func parseStatus(raw string) model.Status {
	lowered := strings.ToLower(raw)
	for _, s := range model.AllStatuses {
		if strings.Contains(lowered, strings.ToLower(string(s))) {
			return s
		}
	}
	return model.StatusPending
}

// parsePriority matches loosely like parseStatus, defaulting to Medium.
func parsePriority(raw string) model.Priority {
	lowered := strings.ToLower(raw)
	switch {
	case strings.Contains(lowered, "high"):
		return model.PriorityHigh
	case strings.Contains(lowered, "low"):
		return model.PriorityLow
	default:
		return model.PriorityMedium
	}
}
