// Package integration provides end-to-end tests for the chartshift
// migration pipeline against a real SQLite store.
package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/chartshift/internal/migrate"
	"github.com/mesh-intelligence/chartshift/internal/sqlite"
	"github.com/mesh-intelligence/chartshift/pkg/types"
)

// refNow pins the reference time so relative time ranges resolve to stable
// bounds across runs.
var refNow = time.Date(2021, 1, 6, 15, 30, 0, 0, time.UTC)

// newAttachedStore creates a store attached to an isolated temp data dir.
// Each test gets its own store instance.
func newAttachedStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()

	dataDir := t.TempDir()
	store := sqlite.NewStore()
	err := store.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	})
	require.NoError(t, err, "Attach must succeed")
	t.Cleanup(func() { _ = store.Detach() })
	return store, dataDir
}

// reattach detaches and re-attaches a fresh store over the same data dir.
func reattach(t *testing.T, store *sqlite.Store, dataDir string) *sqlite.Store {
	t.Helper()

	require.NoError(t, store.Detach())
	fresh := sqlite.NewStore()
	err := fresh.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = fresh.Detach() })
	return fresh
}

// seedChart stores a chart and returns its generated ID.
func seedChart(t *testing.T, store *sqlite.Store, name, vizType, params, queryContext string) string {
	t.Helper()

	id, err := store.Set("", &types.Chart{
		Name:         name,
		VizType:      vizType,
		Params:       params,
		QueryContext: queryContext,
	})
	require.NoError(t, err)
	return id
}

// testOptions returns migrate options with the pinned reference time.
func testOptions() migrate.Options {
	return migrate.Options{Now: func() time.Time { return refNow }}
}
