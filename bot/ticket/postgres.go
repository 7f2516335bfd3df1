package ticket

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs a Store backed by the tickets table.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (p *postgresStore) Insert(ctx context.Context, t *Ticket) error {
	const q = `
		INSERT INTO tickets (
			id, identity, source, destination, bus_number, route_number,
			passengers, fare, payment_status, payment_id, issued_at,
			valid_until, status, qr_ref
		) VALUES (
			:id, :identity, :source, :destination, :bus_number, :route_number,
			:passengers, :fare, :payment_status, :payment_id, :issued_at,
			:valid_until, :status, :qr_ref
		)`
	if _, err := p.db.NamedExecContext(ctx, q, t); err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (p *postgresStore) Get(ctx context.Context, id string) (*Ticket, error) {
	var t Ticket
	err := p.db.GetContext(ctx, &t, `SELECT * FROM tickets WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ticket %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("select ticket: %w", err)
	}
	return &t, nil
}

func (p *postgresStore) ListIssuedBetween(ctx context.Context, identity string, from, to time.Time) ([]Ticket, error) {
	var out []Ticket
	const q = `
		SELECT * FROM tickets
		WHERE identity = $1 AND issued_at >= $2 AND issued_at < $3
		ORDER BY issued_at DESC`
	if err := p.db.SelectContext(ctx, &out, q, identity, from, to); err != nil {
		return nil, fmt.Errorf("select tickets: %w", err)
	}
	return out, nil
}

func (p *postgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tickets`); err != nil {
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return n, nil
}
