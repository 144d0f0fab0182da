package dbtools

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/dbtools/engine"
)

// The engine wrapper must be usable anywhere a Conn is expected.
var _ Conn = (*engine.DB)(nil)

// openTestEngine opens a file-backed SQLite engine in a temp directory.
func openTestEngine(t *testing.T) *engine.DB {
	t.Helper()

	db, err := engine.Open(engine.Config{
		Driver: "sqlite3",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("failed to open test engine: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestIntegration_SelectSeededRows(t *testing.T) {
	db := openTestEngine(t)
	ctx := context.Background()

	err := ExecuteCommand(ctx, db,
		"CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT, status TEXT)")
	require.NoError(t, err)

	seed := []struct {
		email  string
		status string
	}{
		{"ada@example.com", "active"},
		{"grace@example.com", "active"},
		{"edsger@example.com", "active"},
		{"alan@example.com", "inactive"},
		{"barbara@example.com", "inactive"},
	}
	for _, row := range seed {
		result, err := RunSQL(ctx, db,
			"INSERT INTO users (email, status) VALUES (:email, :status)",
			Params{"email": row.email, "status": row.status},
		)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Affected)
	}

	result, err := RunSQL(ctx, db,
		"SELECT id, email FROM users WHERE status = :status ORDER BY id",
		Params{"status": "active"},
	)
	require.NoError(t, err)

	assert.Equal(t, StatementRead, result.Kind)
	require.NotNil(t, result.Frame)
	assert.Equal(t, []string{"id", "email"}, result.Frame.Columns)
	require.Equal(t, 3, result.Frame.Len())

	records := result.Frame.Records()
	assert.Equal(t, "ada@example.com", records[0]["email"])
	assert.Equal(t, "grace@example.com", records[1]["email"])
	assert.Equal(t, "edsger@example.com", records[2]["email"])
}

func TestIntegration_DeleteReportsAndPersists(t *testing.T) {
	db := openTestEngine(t)
	ctx := context.Background()

	err := ExecuteCommand(ctx, db,
		"CREATE TABLE products (id INTEGER PRIMARY KEY, name TEXT, quantity INTEGER)")
	require.NoError(t, err)

	for _, name := range []string{"Widget", "Gadget", "Gizmo"} {
		_, err := RunSQL(ctx, db,
			"INSERT INTO products (name, quantity) VALUES (:name, :quantity)",
			Params{"name": name, "quantity": 5},
		)
		require.NoError(t, err)
	}

	result, err := RunSQL(ctx, db,
		"DELETE FROM products WHERE name = :name",
		Params{"name": "Widget"},
	)
	require.NoError(t, err)
	assert.Equal(t, StatementWrite, result.Kind)
	assert.Equal(t, int64(1), result.Affected)

	// The delete must be durable: a fresh read sees no Widget
	check, err := RunSQL(ctx, db,
		"SELECT name FROM products WHERE name = :name",
		Params{"name": "Widget"},
	)
	require.NoError(t, err)
	assert.True(t, check.Frame.Empty())

	remaining, err := RunSQL(ctx, db, "SELECT name FROM products ORDER BY id", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining.Frame.Len())
}

func TestIntegration_UpdateReportsCount(t *testing.T) {
	db := openTestEngine(t)
	ctx := context.Background()

	err := ExecuteCommand(ctx, db,
		"CREATE TABLE products (id INTEGER PRIMARY KEY, name TEXT, quantity INTEGER)")
	require.NoError(t, err)

	_, err = RunSQL(ctx, db,
		"INSERT INTO products (name, quantity) VALUES (:name, :quantity)",
		Params{"name": "Widget", "quantity": 5},
	)
	require.NoError(t, err)

	result, err := RunSQL(ctx, db,
		"UPDATE products SET quantity = :quantity WHERE name = :name",
		Params{"quantity": 42, "name": "Widget"},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Affected)

	check, err := RunSQL(ctx, db,
		"SELECT quantity FROM products WHERE name = :name",
		Params{"name": "Widget"},
	)
	require.NoError(t, err)
	require.Equal(t, 1, check.Frame.Len())
	assert.Equal(t, int64(42), check.Frame.Rows[0][0])
}

func TestIntegration_CommandCreatesTable(t *testing.T) {
	db := openTestEngine(t)
	ctx := context.Background()

	err := ExecuteCommand(ctx, db,
		"CREATE TABLE widgets (id INTEGER PRIMARY KEY, label TEXT)")
	require.NoError(t, err)

	// The catalogue must show the committed table
	result, err := RunSQL(ctx, db,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = :name",
		Params{"name": "widgets"},
	)
	require.NoError(t, err)
	require.Equal(t, 1, result.Frame.Len())
	assert.Equal(t, "widgets", result.Frame.Rows[0][0])
}

func TestIntegration_CommandSyntaxError(t *testing.T) {
	db := openTestEngine(t)
	ctx := context.Background()

	err := ExecuteCommand(ctx, db, "CREATE TABEL widgets (id INTEGER)")
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "sqlite:1", cmdErr.Code)

	// Nothing may have been created
	result, err := RunSQL(ctx, db,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = :name",
		Params{"name": "widgets"},
	)
	require.NoError(t, err)
	assert.True(t, result.Frame.Empty())
}

func TestIntegration_ExplainReturnsRows(t *testing.T) {
	db := openTestEngine(t)
	ctx := context.Background()

	err := ExecuteCommand(ctx, db, "CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	result, err := RunSQL(ctx, db, "EXPLAIN SELECT id FROM t", nil)
	require.NoError(t, err)

	assert.Equal(t, StatementRead, result.Kind)
	assert.False(t, result.Frame.Empty())
}

func TestIntegration_FailedWriteLeavesNoTrace(t *testing.T) {
	db := openTestEngine(t)
	ctx := context.Background()

	err := ExecuteCommand(ctx, db,
		"CREATE TABLE accounts (id INTEGER PRIMARY KEY, balance INTEGER NOT NULL)")
	require.NoError(t, err)

	// NOT NULL violation rolls the transaction back
	_, err = RunSQL(ctx, db,
		"INSERT INTO accounts (balance) VALUES (:balance)",
		Params{"balance": nil},
	)
	require.Error(t, err)

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)

	result, err := RunSQL(ctx, db, "SELECT id FROM accounts", nil)
	require.NoError(t, err)
	assert.True(t, result.Frame.Empty())
}
