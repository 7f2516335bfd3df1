package pass

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs a Store backed by the passes table.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (p *postgresStore) Insert(ctx context.Context, ps *Pass) error {
	const q = `
		INSERT INTO passes (
			id, identity, category, bus_type, name, fare, valid_from,
			valid_until, payment_status, payment_id, documents, status,
			qr_ref, created_at
		) VALUES (
			:id, :identity, :category, :bus_type, :name, :fare, :valid_from,
			:valid_until, :payment_status, :payment_id, :documents, :status,
			:qr_ref, :created_at
		)`
	if _, err := p.db.NamedExecContext(ctx, q, ps); err != nil {
		return fmt.Errorf("insert pass: %w", err)
	}
	return nil
}

func (p *postgresStore) ListByIdentity(ctx context.Context, identity string) ([]Pass, error) {
	var out []Pass
	const q = `SELECT * FROM passes WHERE identity = $1 ORDER BY created_at DESC`
	if err := p.db.SelectContext(ctx, &out, q, identity); err != nil {
		return nil, fmt.Errorf("select passes: %w", err)
	}
	return out, nil
}

func (p *postgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM passes`); err != nil {
		return 0, fmt.Errorf("count passes: %w", err)
	}
	return n, nil
}
