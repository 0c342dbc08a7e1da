package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posentinel/sentinel/internal/model"
)

var importNow = time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)

func TestReadAliasedHeaders(t *testing.T) {
	csvData := strings.Join([]string{
		"Order_No,Supplier Name,PO Date,Due Date,Qty,Rate,Curr,Item Code,Status,Urgency",
		"PO-7001,Acme Supplies,2024-01-15,2024-02-15,10,4.50,USD,W-100,Approved,High",
	}, "\n")

	orders, err := Read(strings.NewReader(csvData), importNow)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "PO-7001", o.PONumber)
	assert.Equal(t, "Acme Supplies", o.Vendor)
	assert.Equal(t, "2024-01-15", o.CreationDate)
	assert.Equal(t, "2024-02-15", o.DeliveryDate)
	assert.Equal(t, model.StatusApproved, o.Status)
	assert.Equal(t, model.PriorityHigh, o.Priority)
	assert.Equal(t, 10.0, o.Quantity)
	assert.Equal(t, 4.5, o.UnitPrice)
	assert.Equal(t, 45.0, o.TotalAmount)
	assert.Equal(t, "USD", o.Currency)
	assert.Equal(t, "W-100", o.ItemCode)
}

func TestReadDefaults(t *testing.T) {
	csvData := strings.Join([]string{
		"PONumber,OrderDate,Vendor,Status,Priority",
		"PO-1,2024-01-01,,,",
	}, "\n")

	orders, err := Read(strings.NewReader(csvData), importNow)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, "Unknown Vendor", o.Vendor)
	assert.Equal(t, model.StatusPending, o.Status)
	assert.Equal(t, model.PriorityMedium, o.Priority)
	// Absent due date is filled with order date plus 30 days.
	assert.Equal(t, "2024-01-31", o.DeliveryDate)
}

func TestReadLooseStatusMatching(t *testing.T) {
	csvData := strings.Join([]string{
		"PONumber,OrderDate,State",
		"PO-1,2024-01-01,was cancelled by vendor",
		"PO-2,2024-01-01,SHIPPED",
		"PO-3,2024-01-01,???",
	}, "\n")

	orders, err := Read(strings.NewReader(csvData), importNow)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, model.StatusCancelled, orders[0].Status)
	assert.Equal(t, model.StatusShipped, orders[1].Status)
	assert.Equal(t, model.StatusPending, orders[2].Status)
}

func TestReadLenientNumbers(t *testing.T) {
	csvData := strings.Join([]string{
		"PONumber,OrderDate,Unit Price,Quantity,Pending",
		"PO-1,2024-01-01,\"$1,200.50\",3,garbage",
	}, "\n")

	orders, err := Read(strings.NewReader(csvData), importNow)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, 1200.5, o.UnitPrice)
	assert.Equal(t, 3.0, o.Quantity)
	assert.Equal(t, 3601.5, o.TotalAmount)
	assert.Equal(t, 0.0, o.PendingQuantity)
}

func TestReadMissingRequiredColumn(t *testing.T) {
	csvData := strings.Join([]string{
		"Vendor,Status",
		"Acme,Pending",
	}, "\n")

	_, err := Read(strings.NewReader(csvData), importNow)
	assert.ErrorContains(t, err, "po_number")
}

func TestReadMalformedRowAbandonsWholeImport(t *testing.T) {
	csvData := strings.Join([]string{
		"PONumber,OrderDate,Vendor",
		"PO-1,2024-01-01,Acme",
		`PO-2,2024-01-02,"unterminated`,
	}, "\n")

	orders, err := Read(strings.NewReader(csvData), importNow)
	assert.Error(t, err)
	assert.Nil(t, orders)
}

func TestReadEmptyFile(t *testing.T) {
	_, err := Read(strings.NewReader(""), importNow)
	assert.ErrorContains(t, err, "empty")
}

func TestReadMissingDatesFallBackToToday(t *testing.T) {
	csvData := strings.Join([]string{
		"PONumber,OrderDate",
		"PO-1,",
	}, "\n")

	orders, err := Read(strings.NewReader(csvData), importNow)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "2024-06-14", orders[0].CreationDate)
	assert.Equal(t, "2024-07-14", orders[0].DeliveryDate)
}
