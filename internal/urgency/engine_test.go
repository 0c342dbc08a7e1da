package urgency

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posentinel/sentinel/internal/model"
)

var today = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

func orderAgedDays(age int) model.PurchaseOrder {
	return model.PurchaseOrder{
		ID:           "ord-1",
		PONumber:     "PO-1001",
		Vendor:       "Acme Supply",
		CreationDate: today.AddDate(0, 0, -age).Format("2006-01-02"),
		ApproveDate:  "2024-01-02",
		Status:       model.StatusPending,
		Priority:     model.PriorityMedium,
	}
}

func newStandardEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
	return e
}

func TestTableValidation(t *testing.T) {
	require.NoError(t, StandardTable().Validate())
	require.NoError(t, ExtendedTable().Validate())

	assert.Error(t, TierTable{}.Validate())

	overlapping := TierTable{
		{Label: "a", MinDays: 10},
		{Label: "b", MinDays: 10},
	}
	assert.Error(t, overlapping.Validate())

	noCatchAll := TierTable{
		{Label: "a", MinDays: 10},
		{Label: "b", MinDays: 0},
	}
	assert.Error(t, noCatchAll.Validate())
}

func TestTierCoverageIsTotal(t *testing.T) {
	// Every integer age in a wide range maps to exactly one tier.
	for name, table := range map[string]TierTable{
		"standard": StandardTable(),
		"extended": ExtendedTable(),
	} {
		t.Run(name, func(t *testing.T) {
			for age := -10; age <= 1000; age++ {
				matches := 0
				for _, tier := range table {
					if age >= tier.MinDays {
						matches++
						break
					}
				}
				require.Equal(t, 1, matches, "age %d has no tier", age)
				assert.NotEmpty(t, table.Classify(age))
			}
		})
	}
}

func TestStandardTierBoundaries(t *testing.T) {
	table := StandardTable()
	tests := []struct {
		age  int
		want string
	}{
		{-5, LabelNew},
		{0, LabelNew},
		{8, LabelNew},
		{9, LabelLatest},
		{10, LabelLatest},
		{11, LabelMediumDue},
		{20, LabelMediumDue},
		{21, LabelDue},
		{30, LabelDue},
		{31, LabelOverdue},
		{60, LabelOverdue},
		{61, LabelAction},
		{90, LabelAction},
		{91, LabelDoubleAction},
		{180, LabelDoubleAction},
		{181, LabelThreeAction},
		{1000, LabelThreeAction},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table.Classify(tt.age), "age %d", tt.age)
	}
}

func TestEvaluateAge(t *testing.T) {
	e := newStandardEngine(t)

	got := e.Evaluate(orderAgedDays(95), today)
	assert.Equal(t, 95, got.Age)

	// Time-of-day never shifts the whole-day count.
	lateToday := time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, 95, e.Evaluate(orderAgedDays(95), lateToday).Age)
}

func TestEvaluateFutureDatedOrder(t *testing.T) {
	e := newStandardEngine(t)

	got := e.Evaluate(orderAgedDays(-3), today)
	assert.Equal(t, -3, got.Age)
	assert.Equal(t, LabelNew, got.Urgency)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	e := newStandardEngine(t)
	order := orderAgedDays(95)

	first := e.Evaluate(order, today)
	second := e.Evaluate(order, today)
	assert.Equal(t, first, second)
}

func TestStatusEscalation(t *testing.T) {
	e := newStandardEngine(t)

	got := e.Evaluate(orderAgedDays(31), today)
	assert.Equal(t, model.StatusOverdue, got.Status)

	// At exactly the threshold the stored status survives.
	got = e.Evaluate(orderAgedDays(30), today)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestTerminalStatusesAreNeverOverridden(t *testing.T) {
	e := newStandardEngine(t)

	for _, status := range []model.Status{model.StatusDelivered, model.StatusCancelled} {
		for _, age := range []int{0, 31, 500} {
			order := orderAgedDays(age)
			order.Status = status
			got := e.Evaluate(order, today)
			assert.Equal(t, status, got.Status, "status %s age %d", status, age)
		}
	}
}

func TestPendingEscalation(t *testing.T) {
	e := newStandardEngine(t)

	// Unapproved, 8 days old, least-severe tier: bumped one tier up.
	order := orderAgedDays(8)
	order.ApproveDate = ""
	got := e.Evaluate(order, today)
	assert.Equal(t, LabelLatest, got.Urgency)

	// Approved orders of the same age stay put.
	assert.Equal(t, LabelNew, e.Evaluate(orderAgedDays(8), today).Urgency)

	// At or below the pending threshold there is no bump.
	young := orderAgedDays(7)
	young.ApproveDate = ""
	assert.Equal(t, LabelNew, e.Evaluate(young, today).Urgency)

	// The rule only fires from the least-severe tier.
	aged := orderAgedDays(25)
	aged.ApproveDate = ""
	assert.Equal(t, LabelDue, e.Evaluate(aged, today).Urgency)
}

func TestPendingEscalationDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PendingEscalation = false
	e, err := NewEngine(cfg)
	require.NoError(t, err)

	order := orderAgedDays(8)
	order.ApproveDate = ""
	assert.Equal(t, LabelNew, e.Evaluate(order, today).Urgency)
}

func TestEvaluateUnparseableCreationDate(t *testing.T) {
	e := newStandardEngine(t)

	order := orderAgedDays(0)
	order.CreationDate = "not-a-date"
	got := e.Evaluate(order, today)
	assert.Equal(t, 0, got.Age)
	assert.Equal(t, LabelNew, got.Urgency)
}

func TestEvaluateAll(t *testing.T) {
	e := newStandardEngine(t)

	orders := make([]model.PurchaseOrder, 5)
	for i := range orders {
		orders[i] = orderAgedDays(i * 40)
		orders[i].ID = fmt.Sprintf("ord-%d", i)
	}

	evaluated := e.EvaluateAll(orders, today)
	require.Len(t, evaluated, 5)
	for i, ev := range evaluated {
		assert.Equal(t, orders[i].ID, ev.PurchaseOrder.ID)
		assert.Equal(t, i*40, ev.Age)
	}
}

func TestExtendedTableClassification(t *testing.T) {
	e, err := NewEngine(Config{
		Table:            ExtendedTable(),
		OverdueAfterDays: 30,
	})
	require.NoError(t, err)

	got := e.Evaluate(orderAgedDays(250), today)
	assert.Equal(t, LabelPO8MDue, got.Urgency)
	assert.Equal(t, model.StatusOverdue, got.Status)
}

func TestFromAppConfigCustomTiers(t *testing.T) {
	cfg := FromAppConfig(model.UrgencyConfig{
		Tiers: []model.TierConfig{
			{Label: "Ancient", MinDays: 100},
			{Label: "Fresh", MinDays: 0},
		},
		OverdueAfterDays:  30,
		PendingEscalation: false,
	})

	e, err := NewEngine(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Ancient", e.Evaluate(orderAgedDays(150), today).Urgency)
	assert.Equal(t, "Fresh", e.Evaluate(orderAgedDays(-2), today).Urgency)
}
