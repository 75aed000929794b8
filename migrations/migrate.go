package migrations

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"cinebook/pkg/database"

	"go.uber.org/zap"
)

//go:embed *.sql
var migrationFiles embed.FS

const advisoryLockID int64 = 720415001

// Apply runs the embedded SQL files in filename order, skipping those already
// recorded in schema_migrations. Everything runs in one transaction holding
// an advisory lock, so concurrent instances apply each file once.
func Apply(ctx context.Context, db database.PgxIface, log *zap.Logger) error {
	names, err := migrationNames()
	if err != nil {
		return err
	}

	return db.WithTx(ctx, func(ctx context.Context) error {
		if _, err := db.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockID); err != nil {
			return fmt.Errorf("acquire migration lock: %w", err)
		}

		if _, err := db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	name TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`); err != nil {
			return fmt.Errorf("ensure schema_migrations: %w", err)
		}

		for _, name := range names {
			var applied bool
			if err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&applied); err != nil {
				return fmt.Errorf("check migration %s: %w", name, err)
			}
			if applied {
				continue
			}

			sqlBytes, err := migrationFiles.ReadFile(name)
			if err != nil {
				return fmt.Errorf("read migration %s: %w", name, err)
			}
			sql := strings.TrimSpace(string(sqlBytes))
			if sql == "" {
				continue
			}
			if _, err := db.Exec(ctx, sql); err != nil {
				return fmt.Errorf("exec migration %s: %w", name, err)
			}
			if _, err := db.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
				return fmt.Errorf("record migration %s: %w", name, err)
			}
			log.Info("Migration applied", zap.String("name", name))
		}
		return nil
	})
}

func migrationNames() ([]string, error) {
	entries, err := migrationFiles.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
