// Package ticket implements point-to-point ticket issuance with a simulated
// payment step and QR confirmation.
package ticket

import (
	"context"
	"time"
)

// Payment status values recorded on a ticket.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Lifecycle status values recorded on a ticket.
const (
	StatusActive    = "active"
	StatusUsed      = "used"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

// Ticket is one completed purchase. Immutable after creation except for
// lifecycle status transitions.
type Ticket struct {
	ID            string    `db:"id"`
	Identity      string    `db:"identity"`
	Source        string    `db:"source"`
	Destination   string    `db:"destination"`
	BusNumber     string    `db:"bus_number"`
	RouteNumber   string    `db:"route_number"`
	Passengers    int       `db:"passengers"`
	Fare          int       `db:"fare"`
	PaymentStatus string    `db:"payment_status"`
	PaymentID     string    `db:"payment_id"`
	IssuedAt      time.Time `db:"issued_at"`
	ValidUntil    time.Time `db:"valid_until"`
	Status        string    `db:"status"`
	QRRef         string    `db:"qr_ref"`
}

// Store is the persistence contract for tickets.
type Store interface {
	Insert(ctx context.Context, t *Ticket) error
	Get(ctx context.Context, id string) (*Ticket, error)
	// ListIssuedBetween returns an identity's tickets with
	// from <= issued_at < to, newest first.
	ListIssuedBetween(ctx context.Context, identity string, from, to time.Time) ([]Ticket, error)
	Count(ctx context.Context) (int, error)
}
