package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/restview/internal/querysql"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	assert.Equal(t, querysql.SQLite, s.Dialect())
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	for name, expected := range map[string]string{
		"journal_mode": "wal",
		"busy_timeout": "5000",
		"foreign_keys": "1",
	} {
		if err := s.verifyPragma(name, expected); err != nil {
			t.Error(err)
		}
	}
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Exec(context.Background(), catalogSQL))

	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM products").Scan(&n))
	assert.Equal(t, 5, n)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())
}

func TestExec_EmptyScript(t *testing.T) {
	s := createTestStore(t)
	assert.NoError(t, s.Exec(context.Background(), "  \n"))
}

func TestExec_Error(t *testing.T) {
	s := createTestStore(t)
	err := s.Exec(context.Background(), "SELEC nonsense")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exec script")
}
