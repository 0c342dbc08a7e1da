// Package alerts derives deduplicated alerts from evaluated purchase
// orders. Alert identity is deterministic — "<tier>-<orderID>" — so the
// same (order, tier) pair can never produce a second alert, while a
// tier change appends a fresh one without touching the old.
package alerts

import (
	"fmt"
	"strings"
	"time"

	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/urgency"
)

// DefaultMaxHistory bounds the alert history when no cap is configured.
const DefaultMaxHistory = 50

// AlertID builds the deterministic identifier for a (tier, order) pair.
func AlertID(tier, orderID string) string {
	return tier + "-" + orderID
}

// Reconciler merges alert candidates into a bounded, deduplicated
// history.
type Reconciler struct {
	criticalTiers map[string]bool
	maxHistory    int
}

// NewReconciler creates a reconciler. criticalTiers are the urgency
// labels that qualify an order for an alert in addition to an Overdue
// effective status. maxHistory <= 0 falls back to DefaultMaxHistory.
func NewReconciler(criticalTiers map[string]bool, maxHistory int) *Reconciler {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Reconciler{
		criticalTiers: criticalTiers,
		maxHistory:    maxHistory,
	}
}

// Reconcile derives candidate alerts from records and merges them into
// existing, returning the new history plus the alerts created on this
// pass. When nothing qualifies, the existing slice is returned
// unchanged so callers can skip side effects (the desktop popup fires
// at most once per created alert, never for survivors).
//
// The existing slice is never mutated.
func (r *Reconciler) Reconcile(
	records []urgency.EvaluatedOrder,
	existing []model.Alert,
	now time.Time,
) (history []model.Alert, created []model.Alert) {
	seen := make(map[string]bool, len(existing))
	for _, a := range existing {
		seen[a.ID] = true
	}

	for _, rec := range records {
		if rec.Status != model.StatusOverdue && !r.criticalTiers[rec.Urgency] {
			continue
		}

		id := AlertID(rec.Urgency, rec.ID)
		if seen[id] {
			continue
		}
		seen[id] = true
		created = append(created, newAlert(id, rec, now))
	}

	if len(created) == 0 {
		return existing, nil
	}

	history = make([]model.Alert, 0, len(created)+len(existing))
	history = append(history, created...)
	history = append(history, existing...)
	if len(history) > r.maxHistory {
		history = history[:r.maxHistory]
	}

	return history, created
}

func newAlert(id string, rec urgency.EvaluatedOrder, now time.Time) model.Alert {
	return model.Alert{
		ID:       id,
		OrderID:  rec.ID,
		PONumber: rec.PONumber,
		Title:    fmt.Sprintf("Critical Alert: %s", rec.Urgency),
		Message: fmt.Sprintf(
			"%s's order requires immediate %s. Age: %d days.",
			rec.Vendor, strings.ToLower(rec.Urgency), rec.Age,
		),
		Severity:  model.SeverityCritical,
		CreatedAt: now,
		Read:      false,
	}
}

// MarkRead returns a copy of history with the given alert flagged read.
func MarkRead(history []model.Alert, id string) []model.Alert {
	out := make([]model.Alert, len(history))
	copy(out, history)
	for i := range out {
		if out[i].ID == id {
			out[i].Read = true
		}
	}
	return out
}

// UnreadCount counts alerts the user has not acknowledged.
func UnreadCount(history []model.Alert) int {
	n := 0
	for _, a := range history {
		if !a.Read {
			n++
		}
	}
	return n
}
