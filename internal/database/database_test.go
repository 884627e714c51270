package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pending, err := HasPending(ctx, db)
	require.NoError(t, err)
	assert.True(t, pending)

	applied, err := Migrate(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	version, err := Version(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	t.Run("second run is a no-op", func(t *testing.T) {
		applied, err := Migrate(ctx, db)
		require.NoError(t, err)
		assert.Zero(t, applied)
	})

	t.Run("creates every table", func(t *testing.T) {
		for _, table := range []string{"account", "stock", "holding", "corporate_action", "stock_price", "adjustment_snapshot"} {
			var name string
			err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
			assert.NoError(t, err, "table %s", table)
		}
	})

	t.Run("enforces unique ex-date per symbol", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO stock (symbol, name, market, classification) VALUES ('2330', 'TSMC', 'TWSE', 'stock')`)
		require.NoError(t, err)

		insert := `INSERT INTO corporate_action (id, symbol, ex_date, cash_dividend_per_share, stock_dividend_ratio_per_thousand, source, fetched_at)
			VALUES (?, '2330', '2024-06-13', '4', '0', 'manual', '2024-06-01T00:00:00Z')`
		_, err = db.Exec(insert, "a")
		require.NoError(t, err)
		_, err = db.Exec(insert, "b")
		assert.Error(t, err)
	})

	t.Run("enforces foreign keys", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO stock_price (id, symbol, date, price) VALUES ('p', 'UNKNOWN', '2024-01-02', '1')`)
		assert.Error(t, err)
	})
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tracker.db")

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, HealthCheck(context.Background(), db))
	assert.FileExists(t, path)
}
