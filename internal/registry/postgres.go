package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRegistry implements Registry against the alarm_panels table.
type PostgresRegistry struct {
	pool *pgxpool.Pool
}

func NewPostgresRegistry(pool *pgxpool.Pool) *PostgresRegistry {
	return &PostgresRegistry{pool: pool}
}

// Resolve looks up an active panel by its account number.
func (r *PostgresRegistry) Resolve(ctx context.Context, account string) (int64, error) {
	query := `
		SELECT id FROM alarm_panels
		WHERE account_number = $1 AND active
	`

	var id int64
	err := r.pool.QueryRow(ctx, query, account).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPanelNotFound
		}
		return 0, fmt.Errorf("failed to resolve panel: %w", err)
	}

	return id, nil
}
