package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrations embed.FS

// dialects maps database/sql driver names to goose dialects.
var dialects = map[string]goose.Dialect{
	"postgres":   goose.DialectPostgres,
	"nrpostgres": goose.DialectPostgres,
	"sqlite3":    goose.DialectSQLite3,
}

// Result describes one applied migration.
type Result struct {
	Version int64
	Source  string
}

// Up applies all pending migrations for the given driver.
func Up(ctx context.Context, db *sql.DB, driver string) ([]Result, error) {
	provider, err := newProvider(db, driver)
	if err != nil {
		return nil, err
	}

	applied, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose up: %w", err)
	}

	results := make([]Result, 0, len(applied))
	for _, r := range applied {
		results = append(results, Result{Version: r.Source.Version, Source: r.Source.Path})
	}
	return results, nil
}

// Version returns the current schema version.
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	provider, err := newProvider(db, driver)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}

func newProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}

	dialect, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}

	dir := "migrations/" + string(dialect)
	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("open migrations %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("create goose provider: %w", err)
	}
	return provider, nil
}
