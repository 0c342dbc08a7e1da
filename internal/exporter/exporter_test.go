package exporter

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/urgency"
)

func TestWriteColumnOrder(t *testing.T) {
	records := []urgency.EvaluatedOrder{
		{
			PurchaseOrder: model.PurchaseOrder{
				PONumber:        "PO-7001",
				Vendor:          "Acme Supplies",
				CreationDate:    "2024-01-15",
				DeliveryDate:    "2024-02-15",
				ItemCode:        "W-100",
				Quantity:        10,
				PendingQuantity: 2,
				UnitPrice:       4.5,
				Currency:        "USD",
				TotalAmount:     45,
				ItemDescription: "Widgets",
			},
			Age:     95,
			Urgency: urgency.LabelDoubleAction,
			Status:  model.StatusOverdue,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"PO Number", "Urgency", "Status", "Order Date", "Due Date",
		"Vendor", "Item Code", "Quantity", "Pending Qty", "Unit Price",
		"Currency", "Total", "Description", "Age",
	}, rows[0])

	assert.Equal(t, []string{
		"PO-7001", "Double Action", "Overdue", "2024-01-15", "2024-02-15",
		"Acme Supplies", "W-100", "10", "2", "4.5",
		"USD", "45", "Widgets", "95",
	}, rows[1])
}

func TestWriteEmptyView(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestDefaultFilename(t *testing.T) {
	now := time.Date(2024, 6, 14, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "sentinel_export_2024-06-14.csv", DefaultFilename(now))
}
