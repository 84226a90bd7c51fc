package app

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/newrelic/go-agent/v3/integrations/nrpq" // Registers "nrpostgres" driver
	"github.com/newrelic/go-agent/v3/newrelic"

	"upipay/internal/config"
)

// DriverName picks the database/sql driver for the configuration.
// Postgres goes through the New Relic instrumented driver when nrApp is set.
func DriverName(cfg config.DatabaseConfig, nrApp *newrelic.Application) string {
	if cfg.Driver == config.DriverPostgres && nrApp != nil {
		return "nrpostgres"
	}
	return cfg.Driver
}

// NewDatabase opens the configured database, applies pool settings and verifies the connection.
func NewDatabase(ctx context.Context, cfg config.DatabaseConfig, nrApp *newrelic.Application) (*sql.DB, error) {
	driver := DriverName(cfg, nrApp)

	db, err := sql.Open(driver, cfg.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("failed to open database with %s: %w", driver, err)
	}

	if cfg.Driver == config.DriverSQLite {
		// SQLite serialises writers; one connection avoids "database is locked".
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
