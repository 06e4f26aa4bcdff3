package auth

import (
	"embed"
	"io/fs"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// MigrationFiles returns the migrations directory as the fs root
func MigrationFiles() (fs.FS, error) {
	return fs.Sub(migrationsFS, "data/sql/migrations")
}
