// Package pass implements travel pass purchases, including the concession
// categories that require supporting documents.
package pass

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/m3rciful/transitbot/bot/catalog"
)

// Payment status values recorded on a pass.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Approval status values. Concession passes start pending until an operator
// reviews the uploaded documents; no approver interface exists in this
// repository, so pending passes stay pending.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusActive   = "active"
	StatusExpired  = "expired"
)

// Pass is one purchase attempt.
type Pass struct {
	ID            string               `db:"id"`
	Identity      string               `db:"identity"`
	Category      catalog.PassCategory `db:"category"`
	BusType       catalog.BusType      `db:"bus_type"`
	Name          string               `db:"name"`
	Fare          int                  `db:"fare"`
	ValidFrom     time.Time            `db:"valid_from"`
	ValidUntil    time.Time            `db:"valid_until"`
	PaymentStatus string               `db:"payment_status"`
	PaymentID     string               `db:"payment_id"`
	Documents     pq.StringArray       `db:"documents"`
	Status        string               `db:"status"`
	QRRef         string               `db:"qr_ref"`
	CreatedAt     time.Time            `db:"created_at"`
}

// Store is the persistence contract for passes.
type Store interface {
	Insert(ctx context.Context, p *Pass) error
	// ListByIdentity returns an identity's passes, newest first.
	ListByIdentity(ctx context.Context, identity string) ([]Pass, error)
	Count(ctx context.Context) (int, error)
}
