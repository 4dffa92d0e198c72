package types

import (
	"strings"
	"time"
)

// FormDataBackupField is the key inside Params that carries the pre-migration
// form data after an upgrade. Its presence marks a chart as downgradable.
const FormDataBackupField = "form_data_bak"

// QueriesBackupField is the key inside Params that carries the pre-migration
// query list after an upgrade.
const QueriesBackupField = "queries_bak"

// Chart represents one saved chart/visualization record.
type Chart struct {
	ChartID      string    // UUID v7, generated on creation.
	Name         string    // Human-readable name (required, non-empty).
	VizType      string    // Visualization type tag; identifies the config schema.
	Params       string    // JSON text: the chart's form data.
	QueryContext string    // Optional JSON text: compiled query specification.
	CreatedAt    time.Time // Timestamp of creation.
	UpdatedAt    time.Time // Timestamp of last modification.
}

// HasBackup reports whether the chart's params carry the form-data backup
// marker, i.e. whether a previous upgrade can still be reversed. This is a
// substring check matching the store-level selection predicate; the migrator
// re-validates the backup's shape before downgrading.
func (c *Chart) HasBackup() bool {
	return strings.Contains(c.Params, FormDataBackupField)
}
