// Schema DDL for the chart store. The database file persists across
// attaches, so every statement is idempotent.
package sqlite

const createCharts = `CREATE TABLE IF NOT EXISTS charts (
    chart_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    viz_type TEXT NOT NULL,
    params TEXT,
    query_context TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

// Batch selection filters on viz_type, so it gets its own index.
const idxChartsVizType = `CREATE INDEX IF NOT EXISTS idx_charts_viz_type ON charts(viz_type);`

// schemaDDL lists all statements executed on attach.
var schemaDDL = []string{
	createCharts,
	idxChartsVizType,
}
