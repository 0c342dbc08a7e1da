package alerts

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/urgency"
)

var now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func criticalRecord(id, tier string, age int) urgency.EvaluatedOrder {
	return urgency.EvaluatedOrder{
		PurchaseOrder: model.PurchaseOrder{
			ID:       id,
			PONumber: "PO-" + id,
			Vendor:   "Acme Supply",
		},
		Age:     age,
		Urgency: tier,
		Status:  model.StatusOverdue,
	}
}

func defaultReconciler() *Reconciler {
	return NewReconciler(urgency.DefaultCriticalTiers(urgency.StandardTable()), 0)
}

func TestReconcileCreatesAlertForOverdue(t *testing.T) {
	r := defaultReconciler()

	history, created := r.Reconcile(
		[]urgency.EvaluatedOrder{criticalRecord("o1", urgency.LabelDoubleAction, 95)},
		nil, now,
	)

	require.Len(t, created, 1)
	require.Len(t, history, 1)
	assert.Equal(t, "Double Action-o1", history[0].ID)
	assert.Equal(t, "o1", history[0].OrderID)
	assert.Equal(t, model.SeverityCritical, history[0].Severity)
	assert.Contains(t, history[0].Message, "95 days")
	assert.False(t, history[0].Read)
}

func TestReconcileSkipsHealthyRecords(t *testing.T) {
	r := defaultReconciler()

	rec := criticalRecord("o1", urgency.LabelNew, 2)
	rec.Status = model.StatusPending

	history, created := r.Reconcile([]urgency.EvaluatedOrder{rec}, nil, now)
	assert.Empty(t, created)
	assert.Empty(t, history)
}

func TestReconcileCriticalTierWithoutOverdueStatus(t *testing.T) {
	r := defaultReconciler()

	rec := criticalRecord("o1", urgency.LabelAction, 65)
	rec.Status = model.StatusApproved

	_, created := r.Reconcile([]urgency.EvaluatedOrder{rec}, nil, now)
	require.Len(t, created, 1)
	assert.Equal(t, "Action-o1", created[0].ID)
}

func TestReconcileIsIdempotent(t *testing.T) {
	r := defaultReconciler()
	records := []urgency.EvaluatedOrder{
		criticalRecord("o1", urgency.LabelDoubleAction, 95),
		criticalRecord("o2", urgency.LabelThreeAction, 200),
	}

	first, created := r.Reconcile(records, nil, now)
	require.Len(t, created, 2)

	// A second pass over the same set returns the history unchanged
	// and creates nothing.
	second, created := r.Reconcile(records, first, now.Add(time.Minute))
	assert.Empty(t, created)
	assert.Equal(t, first, second)
}

func TestReconcileTierChangeAppendsNewAlert(t *testing.T) {
	r := defaultReconciler()

	history, _ := r.Reconcile(
		[]urgency.EvaluatedOrder{criticalRecord("o1", urgency.LabelAction, 61)},
		nil, now,
	)

	// The order ages into the next tier: the old alert stays, a new
	// one with a new identifier is prepended.
	history, created := r.Reconcile(
		[]urgency.EvaluatedOrder{criticalRecord("o1", urgency.LabelDoubleAction, 91)},
		history, now.Add(30*24*time.Hour),
	)

	require.Len(t, created, 1)
	require.Len(t, history, 2)
	assert.Equal(t, "Double Action-o1", history[0].ID)
	assert.Equal(t, "Action-o1", history[1].ID)
}

func TestReconcileHistoryBound(t *testing.T) {
	r := defaultReconciler()

	var history []model.Alert
	for i := 0; i < 60; i++ {
		rec := criticalRecord(fmt.Sprintf("o%02d", i), urgency.LabelThreeAction, 200+i)
		var created []model.Alert
		history, created = r.Reconcile(
			[]urgency.EvaluatedOrder{rec}, history, now.Add(time.Duration(i)*time.Minute),
		)
		require.Len(t, created, 1)
		require.LessOrEqual(t, len(history), DefaultMaxHistory)
	}

	// The retained 50 are the most recently created, newest first.
	require.Len(t, history, DefaultMaxHistory)
	assert.Equal(t, "Three Action-o59", history[0].ID)
	assert.Equal(t, "Three Action-o10", history[DefaultMaxHistory-1].ID)
}

func TestReconcileDoesNotMutateExisting(t *testing.T) {
	r := defaultReconciler()

	existing, _ := r.Reconcile(
		[]urgency.EvaluatedOrder{criticalRecord("o1", urgency.LabelThreeAction, 200)},
		nil, now,
	)
	snapshot := make([]model.Alert, len(existing))
	copy(snapshot, existing)

	r.Reconcile(
		[]urgency.EvaluatedOrder{criticalRecord("o2", urgency.LabelThreeAction, 300)},
		existing, now,
	)
	assert.Equal(t, snapshot, existing)
}

func TestMarkRead(t *testing.T) {
	history := []model.Alert{
		{ID: "a", Read: false},
		{ID: "b", Read: false},
	}

	got := MarkRead(history, "a")
	assert.True(t, got[0].Read)
	assert.False(t, got[1].Read)
	// Original untouched.
	assert.False(t, history[0].Read)
	assert.Equal(t, 1, UnreadCount(got))
}
