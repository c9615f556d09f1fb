package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of *pgxpool.Pool the slot store needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSlotStore keeps slots in the console_token_slots table.
type PostgresSlotStore struct {
	db Querier
}

// NewPostgresSlotStore returns a Postgres-backed implementation.
func NewPostgresSlotStore(db Querier) *PostgresSlotStore {
	return &PostgresSlotStore{db: db}
}

func (s *PostgresSlotStore) Load(ctx context.Context, slot string) (string, bool, error) {
	const query = `SELECT token FROM console_token_slots WHERE slot=$1`

	var token string
	if err := s.db.QueryRow(ctx, query, slot).Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return token, true, nil
}

func (s *PostgresSlotStore) Save(ctx context.Context, slot, value string) error {
	const query = `
        INSERT INTO console_token_slots (slot, token)
        VALUES ($1, $2)
        ON CONFLICT (slot) DO UPDATE SET token=EXCLUDED.token, updated_at=NOW()`

	_, err := s.db.Exec(ctx, query, slot, value)
	return err
}

func (s *PostgresSlotStore) Delete(ctx context.Context, slot string) error {
	const query = `DELETE FROM console_token_slots WHERE slot=$1`

	_, err := s.db.Exec(ctx, query, slot)
	return err
}
