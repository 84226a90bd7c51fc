package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUp_SQLiteCreatesPaymentIntents(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	results, err := Up(ctx, db, "sqlite3")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(20260101000000), results[0].Version)

	var name string
	err = db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'payment_intents'`,
	).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "payment_intents", name)

	version, err := Version(ctx, db, "sqlite3")
	require.NoError(t, err)
	assert.Equal(t, int64(20260101000000), version)
}

func TestUp_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	_, err := Up(ctx, db, "sqlite3")
	require.NoError(t, err)

	results, err := Up(ctx, db, "sqlite3")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUp_RejectsUnknownDriver(t *testing.T) {
	db := openSQLite(t)

	_, err := Up(context.Background(), db, "mysql")
	assert.Error(t, err)

	_, err = Up(context.Background(), nil, "sqlite3")
	assert.Error(t, err)
}

func TestMigrationsEmbeddedForEveryDialect(t *testing.T) {
	for _, dir := range []string{"migrations/postgres", "migrations/sqlite3"} {
		entries, err := migrations.ReadDir(dir)
		require.NoError(t, err, dir)
		assert.NotEmpty(t, entries, dir)
	}
}

func TestPostgresSchemaLeavesUTRUnbounded(t *testing.T) {
	body, err := migrations.ReadFile("migrations/postgres/20260101000000_create_payment_intents.sql")
	require.NoError(t, err)

	for _, line := range strings.Split(string(body), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "utr_reference" {
			assert.Equal(t, "TEXT,", fields[1])
			return
		}
	}
	t.Fatal("utr_reference column not found")
}
