package auth

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// DefaultDSN is the local database used when none is configured
const DefaultDSN = "file:admin.db?cache=shared"

// OpenDB opens the SQLite database behind dsn as a bun.DB
func OpenDB(ctx context.Context, dsn string) (*bun.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, internalError(err, "failed to open database")
	}
	// one writer keeps sqlite from returning SQLITE_BUSY under load
	sqldb.SetMaxOpenConns(1)

	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, internalError(err, "failed to connect to database")
	}

	// journal_mode is not supported for in-memory databases
	_, _ = sqldb.ExecContext(ctx, `PRAGMA journal_mode=WAL`)
	if _, err := sqldb.ExecContext(ctx, `PRAGMA busy_timeout=5000`); err != nil {
		_ = sqldb.Close()
		return nil, internalError(err, "failed to configure database")
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}
