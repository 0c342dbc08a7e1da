package contracts

import "time"

// Tier is one urgency classification: orders aged at least MinDays get
// Label, unless a more severe tier captures them first.
type Tier struct {
	Label   string
	MinDays int
}

// EvaluatedOrder is a purchase order augmented with derived fields.
// Ephemeral: recomputed on every query, never persisted.
type EvaluatedOrder struct {
	PurchaseOrder

	// Age is the whole-day difference between today and the creation
	// date. Negative for future-dated orders.
	Age int

	// Urgency is the tier label assigned by the active table.
	Urgency string
}

// Evaluator derives age, tier, and effective status from an order and
// the current date. Pure: same inputs, same outputs.
type Evaluator interface {
	Evaluate(order PurchaseOrder, today time.Time) EvaluatedOrder
	EvaluateAll(orders []PurchaseOrder, today time.Time) []EvaluatedOrder
}

// Notifier delivers a created alert to the user's desktop.
type Notifier interface {
	Notify(title, body string) error
}

// Sender dispatches the daily reminder email.
type Sender interface {
	Send(to, subject, body string) error
}
