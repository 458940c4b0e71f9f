package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"trendora/internal/domain"
)

type postgresSlots struct {
	pool *pgxpool.Pool
}

// NewPostgres returns Slots backed by the slots table created by the embedded migrations.
func NewPostgres(pool *pgxpool.Pool) Slots {
	return &postgresSlots{pool: pool}
}

func (s *postgresSlots) Get(ctx context.Context, scope, key string) ([]byte, error) {
	const q = `
SELECT value
FROM slots
WHERE scope = $1 AND key = $2
`
	var value string
	if err := s.pool.QueryRow(ctx, q, scope, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

func (s *postgresSlots) Put(ctx context.Context, scope, key string, value []byte) error {
	const q = `
INSERT INTO slots (scope, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (scope, key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`
	_, err := s.pool.Exec(ctx, q, scope, key, string(value))
	return err
}
