package migrations

import (
	"context"
	"fmt"

	"adam-dashboard/internal/storage/postgres"
)

// RunPostgresMigrations applies every embedded PostgreSQL file in order and
// returns the applied file names. Files are idempotent (IF NOT EXISTS), so
// reruns are safe.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) ([]string, error) {
	files, err := load(PostgresFS, "postgres")
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(files))
	for _, m := range files {
		// pgx simple protocol accepts multiple statements per Exec.
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", m.name, err)
		}
		applied = append(applied, m.name)
	}
	return applied, nil
}
