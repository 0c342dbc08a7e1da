package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/urgency"
)

func evaluated(id, tier string, status model.Status) urgency.EvaluatedOrder {
	return urgency.EvaluatedOrder{
		PurchaseOrder: model.PurchaseOrder{ID: id, PONumber: "PO-" + id},
		Urgency:       tier,
		Status:        status,
	}
}

func TestCriticalForReport(t *testing.T) {
	critical := map[string]bool{urgency.LabelDoubleAction: true}

	records := []urgency.EvaluatedOrder{
		evaluated("a", urgency.LabelDoubleAction, model.StatusPending),
		evaluated("b", urgency.LabelNew, model.StatusPending),
		evaluated("c", urgency.LabelNew, model.StatusOverdue),
		evaluated("d", urgency.LabelDoubleAction, model.StatusDelivered),
	}

	got := CriticalForReport(records, critical)
	require := assert.New(t)
	require.Len(got, 2)
	require.Equal("a", got[0].ID)
	require.Equal("c", got[1].ID)
}

func TestCriticalForReportCap(t *testing.T) {
	var records []urgency.EvaluatedOrder
	for i := 0; i < 40; i++ {
		records = append(records, evaluated(string(rune('a'+i)), urgency.LabelNew, model.StatusOverdue))
	}

	got := CriticalForReport(records, nil)
	assert.Len(t, got, reportItemLimit)
}

func TestConversationContextTrims(t *testing.T) {
	c := NewConversationContext()
	for i := 0; i < 30; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		c.AddMessage(role, "msg", nil)
	}

	assert.Equal(t, 20, c.Len())

	c.Reset()
	assert.Equal(t, 0, c.Len())
}
