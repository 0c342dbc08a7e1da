package model

import "time"

// Severity classifies an alert for display purposes.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Alert is one deduplicated notification surfaced to the user about an
// aged purchase order. Its ID is derived deterministically from the
// urgency tier and the order ID (never random), which is what makes
// deduplication across re-evaluations possible.
type Alert struct {
	// ID is "<tier>-<orderID>". At most one alert with a given ID
	// exists in the history at any time.
	ID string `json:"id" db:"id"`

	// OrderID links the alert to the originating purchase order.
	OrderID string `json:"order_id" db:"order_id"`

	// PONumber is the human-facing order number, denormalized for display.
	PONumber string `json:"po_number" db:"po_number"`

	// Title is the short alert headline.
	Title string `json:"title" db:"title"`

	// Message is the human-readable alert body.
	Message string `json:"message" db:"message"`

	// Severity classifies the alert (use Severity* constants).
	Severity Severity `json:"severity" db:"severity"`

	// CreatedAt is when the alert was first generated.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Read indicates whether the user has acknowledged the alert.
	Read bool `json:"read" db:"read"`
}
