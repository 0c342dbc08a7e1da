// Package pipeline filters and orders evaluated purchase orders for the
// table view. Ordering is a fixed contract: descending by age, so the
// oldest (most urgent) orders always surface first.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/posentinel/sentinel/internal/dates"
	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/urgency"
)

// DateField selects which order date a range filter tests.
type DateField string

const (
	DateFieldCreation DateField = "creation"
	DateFieldApproval DateField = "approval"
	DateFieldDelivery DateField = "delivery"
)

// FilterSpec is the full set of table predicates. Zero values mean
// "no restriction" for every field.
type FilterSpec struct {
	// Search is a case-insensitive substring matched against the
	// vendor name, PO number, and item code; a record matches when
	// any of the three contains it.
	Search string

	// Status restricts to one effective status; nil means all.
	Status *model.Status

	// Urgency restricts to one tier label; nil means all.
	Urgency *string

	// ItemCode restricts to one exact item code; nil means all.
	ItemCode *string

	// DateField selects the date the range below tests. Defaults to
	// the creation date.
	DateField DateField

	// Start and End bound the selected date. Start is inclusive of
	// the whole start day; End is inclusive through the end of the
	// end day. A record missing the selected date fails the range
	// whenever either bound is set.
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether the spec restricts nothing.
func (f FilterSpec) IsZero() bool {
	return f.Search == "" &&
		f.Status == nil &&
		f.Urgency == nil &&
		f.ItemCode == nil &&
		f.Start == nil &&
		f.End == nil
}

// Query filters records by spec and returns them ordered descending by
// age. The input slice is never mutated.
func Query(records []urgency.EvaluatedOrder, spec FilterSpec) []urgency.EvaluatedOrder {
	matched := make([]urgency.EvaluatedOrder, 0, len(records))
	for _, rec := range records {
		if matches(rec, spec) {
			matched = append(matched, rec)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Age > matched[j].Age
	})

	return matched
}

func matches(rec urgency.EvaluatedOrder, spec FilterSpec) bool {
	if spec.Search != "" && !matchesSearch(rec, spec.Search) {
		return false
	}
	if spec.Status != nil && rec.Status != *spec.Status {
		return false
	}
	if spec.Urgency != nil && rec.Urgency != *spec.Urgency {
		return false
	}
	if spec.ItemCode != nil && rec.ItemCode != *spec.ItemCode {
		return false
	}
	return matchesDateRange(rec, spec)
}

func matchesSearch(rec urgency.EvaluatedOrder, search string) bool {
	needle := strings.ToLower(search)
	for _, field := range []string{rec.Vendor, rec.PONumber, rec.ItemCode} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func matchesDateRange(rec urgency.EvaluatedOrder, spec FilterSpec) bool {
	if spec.Start == nil && spec.End == nil {
		return true
	}

	target, ok := dates.Normalize(selectedDate(rec, spec.DateField))
	if !ok {
		// A missing or unparseable value for the selected field fails
		// the range outright; it never silently passes.
		return false
	}

	if spec.Start != nil && target.Before(dates.Midnight(*spec.Start)) {
		return false
	}
	if spec.End != nil {
		endOfDay := dates.Midnight(*spec.End).AddDate(0, 0, 1)
		if !target.Before(endOfDay) {
			return false
		}
	}
	return true
}

func selectedDate(rec urgency.EvaluatedOrder, field DateField) string {
	switch field {
	case DateFieldApproval:
		return rec.ApproveDate
	case DateFieldDelivery:
		return rec.DeliveryDate
	default:
		return rec.CreationDate
	}
}
