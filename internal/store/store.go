package store

import (
	"context"

	"github.com/posentinel/sentinel/internal/model"
)

// Store defines the persistence interface for purchase orders, the
// alert history, and the reminder schedule state.
//
// The order set is treated as copy-on-write: readers always receive a
// full snapshot, and bulk mutations (import, reset) replace the stored
// collection wholesale rather than patching it in place.
type Store interface {
	// === Purchase orders ===

	CreateOrder(ctx context.Context, order model.PurchaseOrder) error
	UpdateOrder(ctx context.Context, order model.PurchaseOrder) error
	DeleteOrder(ctx context.Context, id string) error
	GetOrderByID(ctx context.Context, id string) (*model.PurchaseOrder, error)
	GetOrders(ctx context.Context) ([]model.PurchaseOrder, error)

	// AppendOrders inserts a batch ahead of the existing set (import).
	AppendOrders(ctx context.Context, orders []model.PurchaseOrder) error

	// ReplaceOrders swaps the entire stored collection (reset).
	ReplaceOrders(ctx context.Context, orders []model.PurchaseOrder) error

	// === Alert history ===

	// SaveAlerts replaces the stored history with the given one,
	// preserving its order (newest first).
	SaveAlerts(ctx context.Context, alerts []model.Alert) error
	GetAlerts(ctx context.Context) ([]model.Alert, error)
	MarkAlertRead(ctx context.Context, id string) error
	ClearAlerts(ctx context.Context) error

	// === Reminder schedule state ===

	// GetLastReminder returns the date (YYYY-MM-DD) a reminder was
	// last dispatched, or "" when none ever was.
	GetLastReminder(ctx context.Context) (string, error)
	SetLastReminder(ctx context.Context, date string) error
}
