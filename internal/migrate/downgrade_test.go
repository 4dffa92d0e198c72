package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/chartshift/pkg/formdata"
	"github.com/mesh-intelligence/chartshift/pkg/types"
)

func TestDowngradeSkipsChartsWithoutBackup(t *testing.T) {
	chart := testChart(`{"viz_type": "new_viz", "metric": "count"}`, "")
	before := *chart

	res := DowngradeChart(chart, testOptions())

	require.NoError(t, res.Err)
	assert.False(t, res.Changed)
	assert.Equal(t, before.Params, chart.Params)
}

func TestDowngradeRestoresBackup(t *testing.T) {
	chart := testChart(`{
		"viz_type": "new_viz",
		"zoomable": true,
		"form_data_bak": {"viz_type": "old_viz", "show_brush": true, "metric": "count"},
		"queries_bak": null
	}`, `{"queries": []}`)
	chart.VizType = "new_viz"

	res := DowngradeChart(chart, testOptions())
	require.NoError(t, res.Err)
	require.True(t, res.Changed)

	assert.Equal(t, "old_viz", chart.VizType)
	form := parseParams(t, chart)
	assert.Equal(t, "old_viz", form.GetString("viz_type"))
	assert.True(t, form.Get("show_brush").(bool))
	assert.False(t, form.Has("zoomable"))
	assert.False(t, form.Has(types.FormDataBackupField))
	assert.Empty(t, chart.QueryContext)
}

func TestDowngradeRestoresSavedQueries(t *testing.T) {
	chart := testChart(`{
		"viz_type": "new_viz",
		"form_data_bak": {"viz_type": "old_viz"},
		"queries_bak": ["original"]
	}`, `{"queries": ["rebuilt"], "form_data": {"viz_type": "new_viz"}}`)
	chart.VizType = "new_viz"

	res := DowngradeChart(chart, testOptions())
	require.NoError(t, res.Err)
	require.True(t, res.Changed)

	qc, err := formdata.Parse(chart.QueryContext)
	require.NoError(t, err)
	assert.Equal(t, []any{"original"}, qc.Get("queries"))
	embedded := qc.GetMap("form_data")
	require.NotNil(t, embedded)
	assert.Equal(t, "old_viz", embedded.GetString("viz_type"))
}

func TestUpgradeDowngradeRoundTrip(t *testing.T) {
	m := Migration{
		Source:          "old_viz",
		Target:          "new_viz",
		HasXAxisControl: true,
		RenameKeys:      map[string]string{"show_brush": "zoomable"},
		RemoveKeys:      []string{"show_controls"},
	}
	original := `{"viz_type": "old_viz", "show_brush": true, "show_controls": false, ` +
		`"granularity_sqla": "ds", "time_range": "Last week", "metric": "count"}`
	chart := testChart(original, "")

	up := UpgradeChart(m, chart, testOptions())
	require.NoError(t, up.Err)
	require.True(t, up.Changed)
	require.Equal(t, "new_viz", chart.VizType)

	down := DowngradeChart(chart, testOptions())
	require.NoError(t, down.Err)
	require.True(t, down.Changed)

	assert.Equal(t, "old_viz", chart.VizType)
	assert.Empty(t, chart.QueryContext)

	restored := parseParams(t, chart)
	want, err := formdata.Parse(original)
	require.NoError(t, err)
	assert.Equal(t, want.String(), restored.String())
}
