// Package urgency derives the age, urgency tier, and effective status of
// purchase orders from their dates and a configurable tier table. The
// derivation is a pure function of the order, the current date, and the
// engine configuration: evaluating the same inputs twice always yields
// the same output, which the alert deduplication scheme depends on.
package urgency

import (
	"fmt"
	"math"
	"time"

	"github.com/posentinel/sentinel/internal/dates"
	"github.com/posentinel/sentinel/internal/model"
)

// minAge is the floor threshold of a table's least-severe tier, low
// enough to capture any future-dated order.
const minAge = math.MinInt32

// Tier is one urgency classification: orders aged at least MinDays
// (and not captured by a more severe tier) get Label.
type Tier struct {
	Label   string
	MinDays int
}

// TierTable is an ordered tier list, most-severe-first. Thresholds are
// greater-or-equal minimums, strictly descending, so every integer age
// maps to exactly one tier with no gaps and no overlaps.
type TierTable []Tier

// Validate checks the structural invariants of the table: at least one
// tier, strictly descending thresholds, and a least-severe tier that
// captures arbitrarily old negative ages.
func (t TierTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("tier table is empty")
	}
	for i := 1; i < len(t); i++ {
		if t[i].MinDays >= t[i-1].MinDays {
			return fmt.Errorf(
				"tier %q (>= %d days) does not descend below %q (>= %d days)",
				t[i].Label, t[i].MinDays, t[i-1].Label, t[i-1].MinDays,
			)
		}
	}
	if last := t[len(t)-1]; last.MinDays > minAge {
		return fmt.Errorf(
			"least-severe tier %q starts at %d days; future-dated orders would be unclassified",
			last.Label, last.MinDays,
		)
	}
	return nil
}

// Classify returns the label of the first tier whose threshold the age
// meets, scanning most-severe-first.
func (t TierTable) Classify(age int) string {
	for _, tier := range t {
		if age >= tier.MinDays {
			return tier.Label
		}
	}
	// Unreachable for a validated table.
	return t[len(t)-1].Label
}

// Labels returns the tier labels in table order.
func (t TierTable) Labels() []string {
	labels := make([]string, len(t))
	for i, tier := range t {
		labels[i] = tier.Label
	}
	return labels
}

// leastSevereIndex is the position of the catch-all tier.
func (t TierTable) leastSevereIndex() int {
	return len(t) - 1
}

// EvaluatedOrder is a purchase order augmented with derived fields.
// Augmented records are ephemeral: recomputed from the stored set and
// the current date on every query, never persisted.
type EvaluatedOrder struct {
	model.PurchaseOrder

	// Age is the whole-day difference between today and the creation
	// date. Negative for future-dated orders.
	Age int

	// Urgency is the tier label assigned by the active table.
	Urgency string

	// Status shadows the stored status with the effective one: forced
	// to Overdue past the overdue threshold unless terminal.
	Status model.Status
}

// Config tunes the evaluation rules.
type Config struct {
	// Table is the active tier table, most-severe-first.
	Table TierTable

	// OverdueAfterDays forces non-terminal statuses to Overdue once
	// the age strictly exceeds it.
	OverdueAfterDays int

	// PendingEscalation bumps an order with no approval date out of
	// the least-severe tier once it is older than PendingAfterDays,
	// modeling stuck-in-pending-approval risk.
	PendingEscalation bool
	PendingAfterDays  int
}

// DefaultConfig returns the standard 8-tier configuration with the
// pending-approval escalation enabled.
func DefaultConfig() Config {
	return Config{
		Table:             StandardTable(),
		OverdueAfterDays:  30,
		PendingEscalation: true,
		PendingAfterDays:  7,
	}
}

// Engine evaluates purchase orders against a fixed configuration.
type Engine struct {
	cfg Config
}

// NewEngine validates the configuration's tier table and returns an
// engine. The table is the single configuration axis distinguishing
// the observed threshold variants; no evaluation logic branches on it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tier table: %w", err)
	}
	if cfg.OverdueAfterDays <= 0 {
		cfg.OverdueAfterDays = 30
	}
	if cfg.PendingAfterDays <= 0 {
		cfg.PendingAfterDays = 7
	}
	return &Engine{cfg: cfg}, nil
}

// Table returns the engine's tier table.
func (e *Engine) Table() TierTable {
	return e.cfg.Table
}

// Evaluate derives the age, tier, and effective status of one order as
// of today. Pure: no clock reads, no mutation of the input.
func (e *Engine) Evaluate(order model.PurchaseOrder, today time.Time) EvaluatedOrder {
	age := e.ageInDays(order, today)

	tierIdx := e.classifyIndex(age)

	// An unapproved order sitting in the least-severe tier past the
	// pending threshold is bumped one tier up.
	if e.cfg.PendingEscalation &&
		order.ApproveDate == "" &&
		age > e.cfg.PendingAfterDays &&
		tierIdx == e.cfg.Table.leastSevereIndex() &&
		tierIdx > 0 {
		tierIdx--
	}

	status := order.Status
	if age > e.cfg.OverdueAfterDays && !status.IsTerminal() {
		status = model.StatusOverdue
	}

	return EvaluatedOrder{
		PurchaseOrder: order,
		Age:           age,
		Urgency:       e.cfg.Table[tierIdx].Label,
		Status:        status,
	}
}

// EvaluateAll maps Evaluate over a whole collection.
func (e *Engine) EvaluateAll(orders []model.PurchaseOrder, today time.Time) []EvaluatedOrder {
	evaluated := make([]EvaluatedOrder, len(orders))
	for i, order := range orders {
		evaluated[i] = e.Evaluate(order, today)
	}
	return evaluated
}

// ageInDays counts whole days from the creation date to today, both
// truncated to midnight. An unparseable creation date counts as age 0.
func (e *Engine) ageInDays(order model.PurchaseOrder, today time.Time) int {
	created, ok := dates.Normalize(order.CreationDate)
	if !ok {
		return 0
	}
	diff := dates.Midnight(today.UTC()).Sub(dates.Midnight(created))
	return int(math.Floor(diff.Hours() / 24))
}

// classifyIndex returns the index of the first tier the age qualifies for.
func (e *Engine) classifyIndex(age int) int {
	for i, tier := range e.cfg.Table {
		if age >= tier.MinDays {
			return i
		}
	}
	return e.cfg.Table.leastSevereIndex()
}
