package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/tests/testutil"
)

func order(id, poNumber string) model.PurchaseOrder {
	return model.PurchaseOrder{
		ID:           id,
		PONumber:     poNumber,
		Vendor:       "Acme Supplies",
		CreationDate: "2024-01-15",
		Status:       model.StatusPending,
		Priority:     model.PriorityMedium,
		ItemCode:     "W-100",
		Quantity:     10,
		UnitPrice:    4.5,
		TotalAmount:  45,
		Currency:     "USD",
	}
}

func TestOrderCRUD(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	o := order("o1", "PO-1001")
	o.ItemDescription = "Widgets"
	require.NoError(t, s.CreateOrder(ctx, o))

	got, err := s.GetOrderByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "PO-1001", got.PONumber)
	assert.Equal(t, "Widgets", got.ItemDescription)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, 45.0, got.TotalAmount)

	got.Status = model.StatusApproved
	got.ApproveDate = "2024-01-20"
	require.NoError(t, s.UpdateOrder(ctx, *got))

	got, err = s.GetOrderByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
	assert.Equal(t, "2024-01-20", got.ApproveDate)

	require.NoError(t, s.DeleteOrder(ctx, "o1"))
	_, err = s.GetOrderByID(ctx, "o1")
	assert.Error(t, err)
}

func TestUpdateMissingOrder(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.UpdateOrder(context.Background(), order("nope", "PO-0"))
	assert.ErrorContains(t, err, "not found")

	err = s.DeleteOrder(context.Background(), "nope")
	assert.ErrorContains(t, err, "not found")
}

func TestCreateOrderDefaults(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	o := order("", "PO-2000")
	o.ID = ""
	o.Status = ""
	o.Priority = ""
	require.NoError(t, s.CreateOrder(ctx, o))

	orders, err := s.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.NotEmpty(t, orders[0].ID)
	assert.Equal(t, model.StatusPending, orders[0].Status)
	assert.Equal(t, model.PriorityMedium, orders[0].Priority)
}

func TestAppendOrdersListsAheadInBatchOrder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateOrder(ctx, order("old", "PO-OLD")))

	batch := []model.PurchaseOrder{
		order("a", "PO-A"),
		order("b", "PO-B"),
		order("c", "PO-C"),
	}
	require.NoError(t, s.AppendOrders(ctx, batch))

	orders, err := s.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 4)
	assert.Equal(t, "a", orders[0].ID)
	assert.Equal(t, "b", orders[1].ID)
	assert.Equal(t, "c", orders[2].ID)
	assert.Equal(t, "old", orders[3].ID)
}

func TestReplaceOrders(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateOrder(ctx, order("old1", "PO-1")))
	require.NoError(t, s.CreateOrder(ctx, order("old2", "PO-2")))

	require.NoError(t, s.ReplaceOrders(ctx, []model.PurchaseOrder{
		order("new1", "PO-9"),
	}))

	orders, err := s.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "new1", orders[0].ID)

	// Replacing with nothing empties the table.
	require.NoError(t, s.ReplaceOrders(ctx, nil))
	orders, err = s.GetOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestSaveAlertsPreservesOrder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	history := []model.Alert{
		{ID: "Overdue-o2", OrderID: "o2", PONumber: "PO-2", Title: "Critical Alert: Overdue", Message: "m2", Severity: model.SeverityCritical, CreatedAt: now},
		{ID: "Overdue-o1", OrderID: "o1", PONumber: "PO-1", Title: "Critical Alert: Overdue", Message: "m1", Severity: model.SeverityCritical, CreatedAt: now.Add(-time.Hour)},
	}
	require.NoError(t, s.SaveAlerts(ctx, history))

	got, err := s.GetAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Overdue-o2", got[0].ID)
	assert.Equal(t, "Overdue-o1", got[1].ID)
	assert.False(t, got[0].Read)

	// Saving again replaces wholesale.
	require.NoError(t, s.SaveAlerts(ctx, history[:1]))
	got, err = s.GetAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestMarkAlertRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAlerts(ctx, []model.Alert{
		{ID: "Due-o1", OrderID: "o1", Title: "t", Message: "m", Severity: model.SeverityCritical, CreatedAt: time.Now().UTC()},
	}))

	require.NoError(t, s.MarkAlertRead(ctx, "Due-o1"))

	got, err := s.GetAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Read)
}

func TestClearAlerts(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAlerts(ctx, []model.Alert{
		{ID: "Due-o1", OrderID: "o1", Title: "t", Message: "m", Severity: model.SeverityCritical, CreatedAt: time.Now().UTC()},
	}))
	require.NoError(t, s.ClearAlerts(ctx))

	got, err := s.GetAlerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReminderState(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	last, err := s.GetLastReminder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", last)

	require.NoError(t, s.SetLastReminder(ctx, "2024-06-14"))
	last, err = s.GetLastReminder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-14", last)

	// Overwrites rather than accumulating rows.
	require.NoError(t, s.SetLastReminder(ctx, "2024-06-15"))
	last, err = s.GetLastReminder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", last)
}
