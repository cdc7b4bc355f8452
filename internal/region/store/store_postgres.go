package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"idcard/internal/region/metrics"
	"idcard/pkg/platform/sentinel"
	"idcard/pkg/platform/tx"
)

//go:embed schema.sql
var schemaSQL string

// PostgresTable reads and writes the regions table in PostgreSQL.
type PostgresTable struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// NewPostgresTable constructs a PostgreSQL-backed region table.
func NewPostgresTable(db *sql.DB, m *metrics.Metrics) *PostgresTable {
	return &PostgresTable{db: db, metrics: m}
}

// EnsureSchema creates the regions table when it does not exist.
func (t *PostgresTable) EnsureSchema(ctx context.Context) error {
	if _, err := t.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure regions schema: %w", err)
	}
	return nil
}

func (t *PostgresTable) Lookup(ctx context.Context, code string) (string, error) {
	start := time.Now()
	var name string
	err := t.db.QueryRowContext(ctx, `SELECT name FROM regions WHERE code = $1`, code).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			t.metrics.RecordMiss("postgres", time.Since(start).Seconds())
			return "", fmt.Errorf("region %s: %w", code, sentinel.ErrNotFound)
		}
		t.metrics.RecordError("postgres", time.Since(start).Seconds())
		return "", fmt.Errorf("find region: %w", err)
	}
	t.metrics.RecordHit("postgres", time.Since(start).Seconds())
	return name, nil
}

func (t *PostgresTable) All(ctx context.Context) (map[string]string, error) {
	rows, err := t.db.QueryContext(ctx, `SELECT code, name FROM regions`)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		entries[code] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return entries, nil
}

// Upsert writes entries in a single transaction, joining the caller's
// transaction when ctx carries one.
func (t *PostgresTable) Upsert(ctx context.Context, entries map[string]string) error {
	for code := range entries {
		if !ValidCode(code) {
			return fmt.Errorf("invalid region code %q", code)
		}
	}
	return tx.Run(ctx, t.db, func(ctx context.Context) error {
		stmt, err := tx.QuerierFrom(ctx, t.db).PrepareContext(ctx, `
			INSERT INTO regions (code, name, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("prepare region upsert: %w", err)
		}
		defer stmt.Close()

		for code, name := range entries {
			if _, err := stmt.ExecContext(ctx, code, name); err != nil {
				return fmt.Errorf("upsert region %s: %w", code, err)
			}
		}
		return nil
	})
}

// Count returns the number of stored regions.
func (t *PostgresTable) Count(ctx context.Context) (int, error) {
	var n int
	if err := tx.QuerierFrom(ctx, t.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM regions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count regions: %w", err)
	}
	return n, nil
}

// SeedIfEmpty writes entries when the table holds no rows. The table lock
// keeps concurrently starting replicas from both seeding.
func (t *PostgresTable) SeedIfEmpty(ctx context.Context, entries map[string]string) (bool, error) {
	seeded := false
	err := tx.Run(ctx, t.db, func(ctx context.Context) error {
		if _, err := tx.QuerierFrom(ctx, t.db).ExecContext(ctx, `LOCK TABLE regions IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("lock regions: %w", err)
		}
		n, err := t.Count(ctx)
		if err != nil || n > 0 {
			return err
		}
		seeded = true
		return t.Upsert(ctx, entries)
	})
	if err != nil {
		return false, err
	}
	return seeded, nil
}
