// Package contracts freezes the persistence contract agreed for the
// purchase-order dashboard. The living copy is internal/store.
package contracts

import "context"

// PurchaseOrder is the stored shape of one tracked order. Dates are
// kept as the raw strings they arrived with and normalized on read.
type PurchaseOrder struct {
	ID           string
	PONumber     string
	Vendor       string
	CreationDate string
	ApproveDate  string
	DeliveryDate string
	Status       string
	Priority     string
	TotalAmount  float64
}

// Alert is one deduplicated notification. Its ID is derived from the
// urgency tier and the order ID, never random.
type Alert struct {
	ID       string
	OrderID  string
	PONumber string
	Title    string
	Message  string
	Read     bool
}

// Store is the persistence contract for orders, the alert history, and
// the reminder schedule state.
type Store interface {
	CreateOrder(ctx context.Context, order PurchaseOrder) error
	UpdateOrder(ctx context.Context, order PurchaseOrder) error
	DeleteOrder(ctx context.Context, id string) error
	GetOrderByID(ctx context.Context, id string) (*PurchaseOrder, error)
	GetOrders(ctx context.Context) ([]PurchaseOrder, error)

	// AppendOrders inserts a batch ahead of the existing set (import).
	AppendOrders(ctx context.Context, orders []PurchaseOrder) error

	// ReplaceOrders swaps the entire stored collection (reset).
	ReplaceOrders(ctx context.Context, orders []PurchaseOrder) error

	// SaveAlerts replaces the stored history, preserving its order.
	SaveAlerts(ctx context.Context, alerts []Alert) error
	GetAlerts(ctx context.Context) ([]Alert, error)
	MarkAlertRead(ctx context.Context, id string) error
	ClearAlerts(ctx context.Context) error

	// GetLastReminder returns the date (YYYY-MM-DD) a reminder was last
	// dispatched, or "" when none ever was.
	GetLastReminder(ctx context.Context) (string, error)
	SetLastReminder(ctx context.Context, date string) error
}
