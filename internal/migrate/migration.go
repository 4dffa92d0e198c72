// Package migrate rewrites stored chart configurations from one
// visualization type to another, reversibly. A Migration is plain data:
// source and target type tags, key renames and removals, and an optional
// query builder. The same generic upgrade/downgrade machinery runs every
// migration; per-visualization behavior lives in the registry, not in code.
package migrate

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/mesh-intelligence/chartshift/internal/timerange"
	"github.com/mesh-intelligence/chartshift/pkg/formdata"
	"github.com/mesh-intelligence/chartshift/pkg/logger"
)

// Form-data keys shared by all migrations.
const (
	vizTypeKey      = "viz_type"
	granularityKey  = "granularity_sqla"
	timeRangeKey    = "time_range"
	timeGrainKey    = "time_grain_sqla"
	xAxisKey        = "x_axis"
	adhocFiltersKey = "adhoc_filters"
	queriesKey      = "queries"
	formDataKey     = "form_data"
	labelKey        = "label"
	sqlExprKey      = "sqlExpression"
)

// TimeGrainDay is the ISO-8601 daily grain injected when a chart gains an
// x-axis control without an explicit time grain.
const TimeGrainDay = "P1D"

// Migration describes one source-to-target visualization conversion.
// All fields are fixed at definition time.
type Migration struct {
	// Source and Target are the visualization type tags before and after
	// the migration.
	Source string
	Target string

	// RenameKeys maps old form-data key names to their new names.
	RenameKeys map[string]string

	// RemoveKeys lists form-data keys dropped unconditionally.
	RemoveKeys []string

	// HasXAxisControl marks target types with an explicit x-axis control:
	// the temporal column moves to x_axis and a daily grain is defaulted.
	HasXAxisControl bool

	// BuildQuery rebuilds the query context for the target type from the
	// migrated form data. When nil, an empty query list is produced.
	BuildQuery func(form *formdata.Map) (*formdata.Map, error)
}

// ErrDuplicateTargetKey is returned when two distinct source keys rename to
// the same target key within one migration pass.
var ErrDuplicateTargetKey = errors.New("duplicate rename target key")

// Options carries the runtime knobs shared by the per-record operations and
// the batch drivers. The zero value is usable; withDefaults fills the gaps.
type Options struct {
	// DefaultTimeFilter substitutes for an absent or empty time_range.
	DefaultTimeFilter string

	// PageSize bounds how many charts are processed per transaction.
	PageSize int

	// Now supplies the reference time for time-range resolution.
	// Defaults to time.Now; tests pin it.
	Now func() time.Time

	// Log receives per-record failure warnings and page progress.
	Log logger.Logger

	// Progress, when set, is invoked after each committed page with
	// (processed, total) counts.
	Progress func(processed, total int)

	// DryRun computes and counts every change without persisting any.
	DryRun bool
}

// DefaultPageSize bounds memory and transaction size for batch runs.
const DefaultPageSize = 100

// withDefaults returns a copy of o with zero fields replaced by defaults.
func (o Options) withDefaults() Options {
	if o.DefaultTimeFilter == "" {
		o.DefaultTimeFilter = timerange.NoFilter
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Log == nil {
		o.Log = logger.Nop()
	}
	return o
}

// Result reports the outcome of one per-record operation. Err is nil for
// both applied changes and no-op skips; Changed distinguishes them.
type Result struct {
	ChartID string
	Changed bool
	Err     error
}

// Report aggregates a batch run. Total counts the selected records; a chart
// deleted between selection and processing counts as skipped.
type Report struct {
	Total   int
	Changed int
	Skipped int
	Failed  int
}

// buildQueryContext produces the target type's query context from migrated
// form data. The built context must contain a queries list.
func buildQueryContext(m Migration, form *formdata.Map) (*formdata.Map, error) {
	if m.BuildQuery == nil {
		built := formdata.New()
		built.Set(queriesKey, []any{})
		return built, nil
	}
	built, err := m.BuildQuery(form.DeepCopy())
	if err != nil {
		return nil, err
	}
	if built == nil || !built.Has(queriesKey) {
		return nil, errors.New("query builder returned no queries list")
	}
	return built, nil
}

// marshalMap renders a form-data map back to JSON text for persistence.
func marshalMap(m *formdata.Map) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// isFalsy mirrors JSON truthiness for form-data values: nil, empty strings,
// false, zero numbers, and empty containers are falsy.
func isFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case json.Number:
		f, err := strconv.ParseFloat(val.String(), 64)
		return err == nil && f == 0
	case int:
		return val == 0
	case float64:
		return val == 0
	case *formdata.Map:
		return val == nil || val.Len() == 0
	case []any:
		return len(val) == 0
	default:
		return false
	}
}
