package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/urgency"
)

func record(id, poNumber, vendor, itemCode string, age int) urgency.EvaluatedOrder {
	return urgency.EvaluatedOrder{
		PurchaseOrder: model.PurchaseOrder{
			ID:           id,
			PONumber:     poNumber,
			Vendor:       vendor,
			ItemCode:     itemCode,
			CreationDate: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -age).Format("2006-01-02"),
			ApproveDate:  "",
			DeliveryDate: "2024-07-01",
			Status:       model.StatusPending,
		},
		Age:     age,
		Urgency: urgency.LabelNew,
		Status:  model.StatusPending,
	}
}

func sampleRecords() []urgency.EvaluatedOrder {
	a := record("a", "PO-1001", "Global Tech Solutions", "LAP-001", 5)
	b := record("b", "PO-1002", "Office Depot Prime", "CHR-442", 40)
	b.Status = model.StatusOverdue
	b.Urgency = urgency.LabelOverdue
	c := record("c", "PO-1003", "Acme Industrial", "", 95)
	c.Status = model.StatusOverdue
	c.Urgency = urgency.LabelDoubleAction
	return []urgency.EvaluatedOrder{a, b, c}
}

func ids(records []urgency.EvaluatedOrder) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestQueryOrdersOldestFirst(t *testing.T) {
	got := Query(sampleRecords(), FilterSpec{})
	assert.Equal(t, []string{"c", "b", "a"}, ids(got))
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	Query(records, FilterSpec{})
	assert.Equal(t, []string{"a", "b", "c"}, ids(records))
}

func TestSearchMatchesAnyOfThreeFields(t *testing.T) {
	records := sampleRecords()

	// Vendor, case-insensitive.
	assert.Equal(t, []string{"a"}, ids(Query(records, FilterSpec{Search: "global tech"})))
	// PO number.
	assert.Equal(t, []string{"b"}, ids(Query(records, FilterSpec{Search: "1002"})))
	// Item code.
	assert.Equal(t, []string{"a"}, ids(Query(records, FilterSpec{Search: "lap-"})))
	// No match.
	assert.Empty(t, Query(records, FilterSpec{Search: "zzz"}))
}

func TestStatusAndUrgencyFilters(t *testing.T) {
	records := sampleRecords()

	overdue := model.StatusOverdue
	got := Query(records, FilterSpec{Status: &overdue})
	assert.Equal(t, []string{"c", "b"}, ids(got))

	tier := urgency.LabelDoubleAction
	got = Query(records, FilterSpec{Urgency: &tier})
	assert.Equal(t, []string{"c"}, ids(got))
}

func TestItemCodeFilter(t *testing.T) {
	code := "CHR-442"
	got := Query(sampleRecords(), FilterSpec{ItemCode: &code})
	assert.Equal(t, []string{"b"}, ids(got))
}

func TestDateRangeEndIsInclusiveThroughEndOfDay(t *testing.T) {
	records := sampleRecords()
	// Record "b" was created exactly 40 days before 2024-06-15.
	created, err := time.Parse("2006-01-02", records[1].CreationDate)
	require.NoError(t, err)

	end := created
	got := Query(records, FilterSpec{DateField: DateFieldCreation, End: &end})
	assert.Contains(t, ids(got), "b")
}

func TestDateRangeStartExcludesEarlier(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	got := Query(sampleRecords(), FilterSpec{DateField: DateFieldCreation, Start: &start})
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestDateRangeMissingFieldFails(t *testing.T) {
	// No record has an approval date, so any bound filters everything out.
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	got := Query(sampleRecords(), FilterSpec{DateField: DateFieldApproval, Start: &start})
	assert.Empty(t, got)
}

func TestDateRangeOnDeliveryField(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	got := Query(sampleRecords(), FilterSpec{
		DateField: DateFieldDelivery,
		Start:     &start,
		End:       &end,
	})
	assert.Len(t, got, 3)
}

func TestCombinedPredicates(t *testing.T) {
	overdue := model.StatusOverdue
	got := Query(sampleRecords(), FilterSpec{
		Search: "acme",
		Status: &overdue,
	})
	assert.Equal(t, []string{"c"}, ids(got))
}

func TestIsZero(t *testing.T) {
	assert.True(t, FilterSpec{}.IsZero())
	assert.True(t, FilterSpec{DateField: DateFieldDelivery}.IsZero())
	assert.False(t, FilterSpec{Search: "x"}.IsZero())
}
