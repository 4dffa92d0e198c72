package migrate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/chartshift/internal/sqlite"
	"github.com/mesh-intelligence/chartshift/pkg/types"
)

func newBatchStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s := sqlite.NewStore()
	err := s.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Detach() })
	return s
}

func seedChart(t *testing.T, s *sqlite.Store, name, vizType, params string) string {
	t.Helper()

	id, err := s.Set("", &types.Chart{
		Name:    name,
		VizType: vizType,
		Params:  params,
	})
	require.NoError(t, err)
	return id
}

func TestUpgradeAllSelectsOnlySourceType(t *testing.T) {
	s := newBatchStore(t)
	m := Migration{Source: "old_viz", Target: "new_viz"}

	matched := seedChart(t, s, "matched", "old_viz", `{"viz_type": "old_viz"}`)
	other := seedChart(t, s, "other", "table", `{"viz_type": "table"}`)

	report, err := UpgradeAll(m, s, testOptions())
	require.NoError(t, err)
	assert.Equal(t, Report{Total: 1, Changed: 1}, report)

	upgraded, err := s.Get(matched)
	require.NoError(t, err)
	assert.Equal(t, "new_viz", upgraded.VizType)
	assert.True(t, upgraded.HasBackup())

	untouched, err := s.Get(other)
	require.NoError(t, err)
	assert.Equal(t, "table", untouched.VizType)
	assert.False(t, untouched.HasBackup())
}

func TestUpgradeAllIsFailSoft(t *testing.T) {
	s := newBatchStore(t)
	m := Migration{Source: "old_viz", Target: "new_viz"}

	good := seedChart(t, s, "good", "old_viz", `{"viz_type": "old_viz"}`)
	// Query context without a queries list fails per record.
	bad := seedChart(t, s, "bad", "old_viz", `{"viz_type": "old_viz"}`)
	badChart, err := s.Get(bad)
	require.NoError(t, err)
	badChart.QueryContext = `{"datasource": {"id": 1}}`
	_, err = s.Set(bad, badChart)
	require.NoError(t, err)

	report, err := UpgradeAll(m, s, testOptions())
	require.NoError(t, err)
	assert.Equal(t, Report{Total: 2, Changed: 1, Failed: 1}, report)

	upgraded, err := s.Get(good)
	require.NoError(t, err)
	assert.Equal(t, "new_viz", upgraded.VizType)

	failed, err := s.Get(bad)
	require.NoError(t, err)
	assert.Equal(t, "old_viz", failed.VizType)
}

func TestUpgradeAllPagesAndReportsProgress(t *testing.T) {
	s := newBatchStore(t)
	m := Migration{Source: "old_viz", Target: "new_viz"}

	for i := 0; i < 5; i++ {
		seedChart(t, s, fmt.Sprintf("chart-%d", i), "old_viz", `{"viz_type": "old_viz"}`)
	}

	var pages [][2]int
	opts := testOptions()
	opts.PageSize = 2
	opts.Progress = func(processed, total int) {
		pages = append(pages, [2]int{processed, total})
	}

	report, err := UpgradeAll(m, s, opts)
	require.NoError(t, err)
	assert.Equal(t, Report{Total: 5, Changed: 5}, report)
	assert.Equal(t, [][2]int{{2, 5}, {4, 5}, {5, 5}}, pages)
}

func TestDowngradeAllSelectsOnlyBackedUpCharts(t *testing.T) {
	s := newBatchStore(t)
	m := Migration{Source: "old_viz", Target: "new_viz"}

	migrated := seedChart(t, s, "migrated", "old_viz", `{"viz_type": "old_viz", "metric": "count"}`)
	// Same target type but never migrated, so it has no backup to restore.
	native := seedChart(t, s, "native", "new_viz", `{"viz_type": "new_viz"}`)

	_, err := UpgradeAll(m, s, testOptions())
	require.NoError(t, err)

	report, err := DowngradeAll(m, s, testOptions())
	require.NoError(t, err)
	assert.Equal(t, Report{Total: 1, Changed: 1}, report)

	restored, err := s.Get(migrated)
	require.NoError(t, err)
	assert.Equal(t, "old_viz", restored.VizType)
	assert.False(t, restored.HasBackup())

	untouched, err := s.Get(native)
	require.NoError(t, err)
	assert.Equal(t, "new_viz", untouched.VizType)
}

func TestUpgradeAllDryRunPersistsNothing(t *testing.T) {
	s := newBatchStore(t)
	m := Migration{Source: "old_viz", Target: "new_viz"}

	id := seedChart(t, s, "chart", "old_viz", `{"viz_type": "old_viz"}`)

	opts := testOptions()
	opts.DryRun = true
	report, err := UpgradeAll(m, s, opts)
	require.NoError(t, err)
	assert.Equal(t, Report{Total: 1, Changed: 1}, report)

	chart, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "old_viz", chart.VizType)
	assert.False(t, chart.HasBackup())
}

func TestUpgradeAllThenAgainIsNoOp(t *testing.T) {
	s := newBatchStore(t)
	m := Migration{Source: "old_viz", Target: "new_viz"}

	seedChart(t, s, "chart", "old_viz", `{"viz_type": "old_viz"}`)

	first, err := UpgradeAll(m, s, testOptions())
	require.NoError(t, err)
	assert.Equal(t, Report{Total: 1, Changed: 1}, first)

	second, err := UpgradeAll(m, s, testOptions())
	require.NoError(t, err)
	assert.Equal(t, Report{Total: 0}, second)
}
