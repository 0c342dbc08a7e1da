package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posentinel/sentinel/internal/alerts"
	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/urgency"
	"github.com/posentinel/sentinel/tests/testutil"
)

// The full path from a stored order to a persisted, deduplicated alert:
// store, evaluation, reconciliation, persistence, re-evaluation.
func TestAgedOrderProducesOneAlert(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	today := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	created := today.AddDate(0, 0, -95).Format("2006-01-02")

	require.NoError(t, s.CreateOrder(ctx, model.PurchaseOrder{
		ID:           "po-aged",
		PONumber:     "PO-7001",
		Vendor:       "Acme Industrial",
		CreationDate: created,
		Status:       model.StatusPending,
	}))

	engine, err := urgency.NewEngine(urgency.DefaultConfig())
	require.NoError(t, err)

	orders, err := s.GetOrders(ctx)
	require.NoError(t, err)
	records := engine.EvaluateAll(orders, today)

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, 95, rec.Age)
	assert.Equal(t, urgency.LabelDoubleAction, rec.Urgency)
	assert.Equal(t, model.StatusOverdue, rec.Status)

	critical := urgency.DefaultCriticalTiers(engine.Table())
	reconciler := alerts.NewReconciler(critical, 0)

	history, created1 := reconciler.Reconcile(records, nil, today)
	require.Len(t, created1, 1)
	assert.Equal(t, "Double Action-po-aged", created1[0].ID)

	require.NoError(t, s.SaveAlerts(ctx, history))

	// A second evaluation pass against the persisted history creates
	// nothing new.
	stored, err := s.GetAlerts(ctx)
	require.NoError(t, err)
	history2, created2 := reconciler.Reconcile(records, stored, today)
	assert.Empty(t, created2)
	assert.Len(t, history2, 1)
}

// A young approved order never reaches the alert path.
func TestHealthyOrderStaysQuiet(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	today := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateOrder(ctx, model.PurchaseOrder{
		ID:           "po-young",
		PONumber:     "PO-7002",
		Vendor:       "Fresh Supply Co",
		CreationDate: today.AddDate(0, 0, -5).Format("2006-01-02"),
		ApproveDate:  today.AddDate(0, 0, -4).Format("2006-01-02"),
		Status:       model.StatusApproved,
	}))

	engine, err := urgency.NewEngine(urgency.DefaultConfig())
	require.NoError(t, err)

	orders, err := s.GetOrders(ctx)
	require.NoError(t, err)
	records := engine.EvaluateAll(orders, today)

	require.Len(t, records, 1)
	assert.Equal(t, urgency.LabelNew, records[0].Urgency)
	assert.Equal(t, model.StatusApproved, records[0].Status)

	reconciler := alerts.NewReconciler(
		urgency.DefaultCriticalTiers(engine.Table()), 0,
	)
	_, created := reconciler.Reconcile(records, nil, today)
	assert.Empty(t, created)
}
