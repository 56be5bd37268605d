package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"survey-gen/internal/logger"

	"go.uber.org/zap"
)

//go:embed migrations/*.up.sql
var migrations embed.FS

// Execer is the subset of *sql.DB migrations need.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// RunMigrations executes every embedded .up.sql file in name order.
func RunMigrations(ctx context.Context, db Execer) error {
	return runMigrations(ctx, db, migrations)
}

func runMigrations(ctx context.Context, db Execer, fsys fs.FS) error {
	files, err := fs.Glob(fsys, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("could not list migrations: %w", err)
	}
	sort.Strings(files)

	for _, name := range files {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}

		// Oracle rejects a trailing statement terminator.
		stmt := strings.TrimSuffix(strings.TrimSpace(string(content)), ";")
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not execute migration %s: %w", name, err)
		}

		logger.Get().Info("Executed migration", zap.String("file", name))
	}

	logger.Get().Info("Migrations completed successfully", zap.Int("count", len(files)))
	return nil
}
