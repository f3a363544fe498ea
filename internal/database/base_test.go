package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func openTestDatabase(t *testing.T) Interface {
	t.Helper()

	db, err := NewSQLiteDatabase(
		filepath.Join(t.TempDir(), "base.db"), Options{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func seedSamples(t *testing.T, db Interface, labels ...string) {
	t.Helper()

	ctx := context.Background()
	_, err := db.ExecContext(ctx,
		"CREATE TABLE samples (id INTEGER PRIMARY KEY AUTOINCREMENT, label TEXT NOT NULL)")
	require.NoError(t, err)
	for _, label := range labels {
		_, err = db.ExecContext(ctx, "INSERT INTO samples (label) VALUES (?)", label)
		require.NoError(t, err)
	}
}

func TestQueryContextWithoutDeadline(t *testing.T) {
	db := openTestDatabase(t)
	seedSamples(t, db, "a", "b", "c")

	// Rows must stay readable after the call returns even when the
	// caller's context carries no deadline
	rows, err := db.QueryContext(context.Background(),
		"SELECT label FROM samples ORDER BY id")
	require.NoError(t, err)
	defer func() {
		_ = rows.Close()
	}()

	var labels []string
	for rows.Next() {
		var label string
		require.NoError(t, rows.Scan(&label))
		labels = append(labels, label)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"a", "b", "c"}, labels)
}

func TestQueryRowContextWithoutDeadline(t *testing.T) {
	db := openTestDatabase(t)
	seedSamples(t, db, "only")

	var label string
	err := db.QueryRowContext(context.Background(),
		"SELECT label FROM samples").Scan(&label)
	require.NoError(t, err)
	assert.Equal(t, "only", label)
}
