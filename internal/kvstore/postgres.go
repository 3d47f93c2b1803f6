package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const createKVTable = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// Postgres keeps values in the kv_store table.
type Postgres struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres ensures the kv_store table exists.
func NewPostgres(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) (*Postgres, error) {
	if _, err := db.Exec(ctx, createKVTable); err != nil {
		return nil, fmt.Errorf("create kv_store table: %w", err)
	}
	return &Postgres{db: db, logger: logger}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	defer observe("postgres", "get", time.Now())

	var value string
	err := p.db.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		p.logger.Error("Failed to read kv_store", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("postgres get %q: %w", key, err)
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	defer observe("postgres", "set", time.Now())

	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := p.db.Exec(ctx, query, key, value); err != nil {
		p.logger.Error("Failed to write kv_store", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("postgres set %q: %w", key, err)
	}

	p.logger.Debug("kv_store value written",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
	)
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}
