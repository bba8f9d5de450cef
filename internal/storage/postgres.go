package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentryline-systems/sentryline-receiver/internal/models"
)

// NewPool creates the shared PostgreSQL connection pool.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// PostgresStore implements EventStore against the events table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert persists one event. Duplicate raw messages are legal rows; the
// at-least-once contract is documented on the package.
func (s *PostgresStore) Insert(ctx context.Context, event *models.Event) (string, error) {
	query := `
		INSERT INTO events (
			id, panel_id, protocol, qualifier, code,
			zone_user, raw_message, panel_time, received_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id string
	err := s.pool.QueryRow(ctx, query,
		event.ID, event.PanelID, event.Protocol, event.Qualifier, event.Code,
		nullable(event.ZoneOrUser), event.RawMessage, event.PanelTime, event.ReceivedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}

	return id, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
