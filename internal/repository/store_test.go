package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLite {
	t.Helper()
	f, err := os.CreateTemp("", "sqlite-storage-")
	require.NoError(t, err, "failed to create temp file")
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	s, err := OpenSQLite(context.Background(), f.Name())
	require.NoError(t, err, "failed to open store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite(t *testing.T) {
	testRepository(t, setupTestStore(t))
}

func TestSQLiteBadName(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQLite(context.Background(), db, "games; DROP TABLE x")
	assert.ErrorIs(t, err, ErrBadName)
	_, err = NewSQLite(context.Background(), db, "")
	assert.ErrorIs(t, err, ErrBadName)
}
