package migrate

import "sort"

// registry holds the shipped migrations keyed by a short CLI-friendly name.
// Each entry is pure data; adding a migration means adding an entry here.
var registry = map[string]Migration{
	"area": {
		Source:          "area",
		Target:          "echarts_area",
		HasXAxisControl: true,
		RenameKeys: map[string]string{
			"show_brush":        "zoomable",
			"x_axis_label":      "x_axis_title",
			"bottom_margin":     "x_axis_title_margin",
			"y_axis_label":      "y_axis_title",
			"left_margin":       "y_axis_title_margin",
			"y_axis_showminmax": "truncateYAxis",
			"y_log_scale":       "logAxis",
		},
		RemoveKeys: []string{"contribution", "show_controls", "reduce_x_ticks"},
	},
	"dual-line": {
		Source:          "dual_line",
		Target:          "mixed_timeseries",
		HasXAxisControl: true,
		RenameKeys: map[string]string{
			"metric_2":        "metric_b",
			"y_axis_2_format": "y_axis_format_secondary",
			"y_axis_2_bounds": "y_axis_bounds_secondary",
		},
	},
	"heatmap": {
		Source: "heatmap",
		Target: "heatmap_v2",
		RenameKeys: map[string]string{
			"all_columns_x": "x_axis",
			"all_columns_y": "groupby",
			"y_axis_bounds": "value_bounds",
			"show_perc":     "show_percentage",
		},
		RemoveKeys: []string{"sort_x_axis", "sort_y_axis"},
	},
	"pivot-table": {
		Source: "pivot_table",
		Target: "pivot_table_v2",
		RenameKeys: map[string]string{
			"columns":         "groupbyColumns",
			"groupby":         "groupbyRows",
			"pandas_aggfunc":  "aggregateFunction",
			"pivot_margins":   "rowTotals",
			"combine_metric":  "combineMetric",
			"transpose_pivot": "transposePivot",
		},
	},
	"sunburst": {
		Source: "sunburst",
		Target: "sunburst_v2",
		RenameKeys: map[string]string{
			"groupby": "columns",
		},
	},
	"treemap": {
		Source: "treemap",
		Target: "treemap_v2",
		RenameKeys: map[string]string{
			"order_desc": "sort_by_metric",
		},
		RemoveKeys: []string{"metrics"},
	},
}

// Lookup returns the registered migration for name.
func Lookup(name string) (Migration, bool) {
	m, ok := registry[name]
	return m, ok
}

// Names lists the registered migration names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
