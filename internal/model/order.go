package model

// Status is the lifecycle status of a purchase order.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusOverdue   Status = "Overdue"
	StatusCancelled Status = "Cancelled"
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{
	StatusDraft,
	StatusPending,
	StatusApproved,
	StatusShipped,
	StatusDelivered,
	StatusOverdue,
	StatusCancelled,
}

// IsTerminal reports whether the status is a terminal state that must
// never be overridden by age-based escalation.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Priority is the business priority of a purchase order.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// AllPriorities lists every priority in display order.
var AllPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// PurchaseOrder is one tracked purchase order and its business fields.
// Date fields are stored as the raw strings they arrived with; the
// dates package normalizes them on demand. CreationDate must resolve
// to a calendar date; DeliveryDate is advisory (filter/display only).
type PurchaseOrder struct {
	// ID is the opaque unique identifier, assigned at creation.
	ID string `json:"id" db:"id"`

	// PONumber is the human-facing order number (not guaranteed unique).
	PONumber string `json:"po_number" db:"po_number"`

	// Vendor is the supplier name.
	Vendor string `json:"vendor" db:"vendor"`

	// CreationDate is the order date.
	CreationDate string `json:"creation_date" db:"creation_date"`

	// ApproveDate is the approval date, empty when not yet approved.
	ApproveDate string `json:"approve_date,omitempty" db:"approve_date"`

	// DeliveryDate is the due date.
	DeliveryDate string `json:"delivery_date" db:"delivery_date"`

	// Status is the stored lifecycle status (use Status* constants).
	Status Status `json:"status" db:"status"`

	// Priority is the business priority (use Priority* constants).
	Priority Priority `json:"priority" db:"priority"`

	// TotalAmount is the monetary total of the order.
	TotalAmount float64 `json:"total_amount" db:"total_amount"`

	// Line-item metadata.
	ItemCode        string  `json:"item_code,omitempty" db:"item_code"`
	UnitPrice       float64 `json:"unit_price,omitempty" db:"unit_price"`
	Currency        string  `json:"currency,omitempty" db:"currency"`
	Quantity        float64 `json:"quantity,omitempty" db:"quantity"`
	UOM             string  `json:"uom,omitempty" db:"uom"`
	ItemDescription string  `json:"item_description,omitempty" db:"item_description"`
	PendingQuantity float64 `json:"pending_quantity,omitempty" db:"pending_quantity"`

	// Notes is optional free-form text.
	Notes string `json:"notes,omitempty" db:"notes"`
}

// ParseStatus maps a free-form status string to a Status constant,
// defaulting to Pending for anything unrecognized.
func ParseStatus(raw string) Status {
	for _, s := range AllStatuses {
		if string(s) == raw {
			return s
		}
	}
	return StatusPending
}

// ParsePriority maps a free-form priority string to a Priority constant,
// defaulting to Medium for anything unrecognized.
func ParsePriority(raw string) Priority {
	for _, p := range AllPriorities {
		if string(p) == raw {
			return p
		}
	}
	return PriorityMedium
}
