package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/transitbot/bot/i18n"
)

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs a Store backed by the sessions table. The flow
// working sets are stored as one JSONB document per session.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

type sessionRow struct {
	Identity  string    `db:"identity"`
	Language  string    `db:"language"`
	State     string    `db:"state"`
	Data      []byte    `db:"session_data"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *sessionRow) toSession() (*Session, error) {
	sess := &Session{
		Identity:  r.Identity,
		Language:  i18n.Parse(r.Language),
		State:     State(r.State),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &sess.Data); err != nil {
			return nil, fmt.Errorf("decode session data: %w", err)
		}
	}
	return sess, nil
}

func (p *postgresStore) Get(ctx context.Context, identity string) (*Session, error) {
	var row sessionRow
	err := p.db.GetContext(ctx, &row, `SELECT * FROM sessions WHERE identity = $1`, identity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	return row.toSession()
}

func (p *postgresStore) Create(ctx context.Context, identity string) (*Session, error) {
	const q = `
		INSERT INTO sessions (identity, language, state, session_data)
		VALUES ($1, $2, $3, '{}'::jsonb)
		ON CONFLICT (identity) DO UPDATE SET
			state        = EXCLUDED.state,
			session_data = '{}'::jsonb,
			updated_at   = now()
		RETURNING *`
	var row sessionRow
	if err := p.db.GetContext(ctx, &row, q, identity, string(i18n.Default()), string(StateStart)); err != nil {
		return nil, fmt.Errorf("upsert session: %w", err)
	}
	return row.toSession()
}

func (p *postgresStore) SetState(ctx context.Context, identity string, st State) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE sessions SET state = $2, updated_at = now() WHERE identity = $1`,
		identity, string(st))
	if err != nil {
		return fmt.Errorf("update session state: %w", err)
	}
	return requireRow(res)
}

func (p *postgresStore) SetLanguage(ctx context.Context, identity string, lang i18n.Lang) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE sessions SET language = $2, updated_at = now() WHERE identity = $1`,
		identity, string(lang))
	if err != nil {
		return fmt.Errorf("update session language: %w", err)
	}
	return requireRow(res)
}

// MergeData runs the read-modify-write inside a transaction with the row
// locked, so the patch applies against the latest stored document.
func (p *postgresStore) MergeData(ctx context.Context, identity string, patch Patch) (*Session, error) {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin merge: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var row sessionRow
	err = tx.GetContext(ctx, &row, `SELECT * FROM sessions WHERE identity = $1 FOR UPDATE`, identity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	sess, err := row.toSession()
	if err != nil {
		return nil, err
	}

	patch.Apply(&sess.Data)
	encoded, err := json.Marshal(sess.Data)
	if err != nil {
		return nil, fmt.Errorf("encode session data: %w", err)
	}

	err = tx.GetContext(ctx, &row,
		`UPDATE sessions SET session_data = $2, updated_at = now() WHERE identity = $1 RETURNING *`,
		identity, encoded)
	if err != nil {
		return nil, fmt.Errorf("update session data: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit merge: %w", err)
	}
	return row.toSession()
}

func (p *postgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM sessions`); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
