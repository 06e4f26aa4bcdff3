package auth

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// NewMigrations discovers the embedded SQL migrations
func NewMigrations() (*migrate.Migrations, error) {
	files, err := MigrationFiles()
	if err != nil {
		return nil, internalError(err, "failed to open migrations")
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(files); err != nil {
		return nil, internalError(err, "failed to discover migrations")
	}
	return migrations, nil
}

// Migrate applies all pending migrations
func Migrate(ctx context.Context, db *bun.DB, logger Logger) error {
	logger = normalizeLogger(logger)

	migrator, err := newMigrator(ctx, db)
	if err != nil {
		return err
	}

	if err := migrator.Lock(ctx); err != nil {
		return internalError(err, "failed to lock migrations")
	}
	defer migrator.Unlock(ctx) //nolint:errcheck

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return internalError(err, "failed to run migrations")
	}

	if group.IsZero() {
		logger.Debug("no new migrations to run")
		return nil
	}

	logger.Info("migrated", "group", group.String())
	return nil
}

// Rollback reverts the last migration group
func Rollback(ctx context.Context, db *bun.DB, logger Logger) error {
	logger = normalizeLogger(logger)

	migrator, err := newMigrator(ctx, db)
	if err != nil {
		return err
	}

	group, err := migrator.Rollback(ctx)
	if err != nil {
		return internalError(err, "failed to rollback migrations")
	}

	if group.IsZero() {
		logger.Debug("no groups to roll back")
		return nil
	}

	logger.Info("rolled back", "group", group.String())
	return nil
}

func newMigrator(ctx context.Context, db *bun.DB) (*migrate.Migrator, error) {
	migrations, err := NewMigrations()
	if err != nil {
		return nil, err
	}

	migrator := migrate.NewMigrator(db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, internalError(err, "failed to init migrations")
	}
	return migrator, nil
}
