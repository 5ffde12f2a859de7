package persistence

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"go.uber.org/zap"
)

// execer is implemented by the Postgres and SQLite handles.
type execer interface {
	exec(ctx context.Context, statement string) error
}

// RunMigrations applies every .sql file one directory below the root of dir,
// sorted by path. Migrations must be idempotent.
func RunMigrations(ctx context.Context, target execer, dir fs.FS, logger *zap.Logger) error {
	if target == nil {
		logger.Warn("no database available; skipping migrations")
		return nil
	}

	filenames, err := fs.Glob(dir, "*/*.sql")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Strings(filenames)

	for _, name := range filenames {
		content, err := fs.ReadFile(dir, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		logger.Info("applying migration", zap.String("file", name))
		if err := target.exec(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	logger.Info("migrations applied", zap.Int("count", len(filenames)))
	return nil
}
