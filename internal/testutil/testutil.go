package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hangeulsoft/koreanparty/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The handle is closed automatically when the test finishes.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	d, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
