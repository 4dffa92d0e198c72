package migrate

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/chartshift/internal/timerange"
	"github.com/mesh-intelligence/chartshift/pkg/formdata"
	"github.com/mesh-intelligence/chartshift/pkg/types"
)

// UpgradeChart converts one chart in place from m.Source to m.Target. A chart
// whose viz_type is not m.Source is left untouched, which makes the operation
// idempotent: a second call on an already-upgraded chart is a no-op. The
// pre-migration form data is kept under form_data_bak so the change can be
// reversed, and the chart's fields are only assigned once the whole transform
// has succeeded.
func UpgradeChart(m Migration, chart *types.Chart, opts Options) Result {
	opts = opts.withDefaults()
	res := Result{ChartID: chart.ChartID}

	form := formdata.TryParse(chart.Params)
	if form.GetString(vizTypeKey) != m.Source {
		return res
	}
	backup := form.DeepCopy()

	form.Set(vizTypeKey, m.Target)

	// A rename would collide when the target key already exists alongside
	// its source. The old value wins, so the stale target is dropped first.
	for oldKey, newKey := range m.RenameKeys {
		if form.Has(oldKey) && form.Has(newKey) {
			form.Delete(newKey)
		}
	}

	migrated, err := renameRemovePass(m, form)
	if err != nil {
		res.Err = err
		return res
	}

	if err := injectTemporalFilter(m, migrated, opts); err != nil {
		res.Err = err
		return res
	}

	queryContext := formdata.TryParse(chart.QueryContext)
	var queriesBak any
	if queryContext.Len() > 0 {
		if !queryContext.Has(queriesKey) {
			res.Err = fmt.Errorf("query context of chart %s has no queries list", chart.ChartID)
			return res
		}
		queriesBak = formdata.DeepCopyValue(queryContext.Get(queriesKey))
		// The embedded copy carries only the new configuration; the
		// backup fields added to params below must not leak into it.
		if queryContext.Has(formDataKey) {
			queryContext.Set(formDataKey, migrated.DeepCopy())
		}
		built, err := buildQueryContext(m, migrated)
		if err != nil {
			res.Err = err
			return res
		}
		queryContext.Set(queriesKey, built.Get(queriesKey))
	} else {
		built, err := buildQueryContext(m, migrated)
		if err != nil {
			res.Err = err
			return res
		}
		queryContext = built
	}

	// The backups ride along inside params. queries_bak is written even
	// when nil so the downgrade can tell "no prior context" apart from
	// "context never migrated".
	migrated.Set(types.FormDataBackupField, backup)
	migrated.Set(types.QueriesBackupField, queriesBak)

	params, err := marshalMap(migrated)
	if err != nil {
		res.Err = err
		return res
	}
	qc, err := marshalMap(queryContext)
	if err != nil {
		res.Err = err
		return res
	}

	chart.Params = params
	chart.QueryContext = qc
	chart.VizType = m.Target
	res.Changed = true
	return res
}

// renameRemovePass walks the form data in key order, applying renames and
// removals into a fresh map. Two sources renaming onto the same target is an
// authoring error in the migration and fails the record.
func renameRemovePass(m Migration, form *formdata.Map) (*formdata.Map, error) {
	removed := make(map[string]bool, len(m.RemoveKeys))
	for _, key := range m.RemoveKeys {
		removed[key] = true
	}

	out := formdata.New()
	for _, key := range form.Keys() {
		if newKey, ok := m.RenameKeys[key]; ok {
			if out.Has(newKey) {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateTargetKey, newKey)
			}
			out.Set(newKey, form.Get(key))
			continue
		}
		if removed[key] {
			continue
		}
		out.Set(key, form.Get(key))
	}
	return out, nil
}

// injectTemporalFilter lifts the legacy granularity_sqla/time_range pair into
// an adhoc TEMPORAL_RANGE filter. Plain column names become SIMPLE filters;
// a structured column becomes a SQL expression filter with resolved bounds,
// or no filter at all when the range resolves to unbounded.
func injectTemporalFilter(m Migration, form *formdata.Map, opts Options) error {
	granularity := form.Pop(granularityKey)
	comparator := form.Pop(timeRangeKey)
	if isFalsy(comparator) {
		comparator = opts.DefaultTimeFilter
	}
	if isFalsy(granularity) {
		return nil
	}

	if m.HasXAxisControl {
		form.Set(xAxisKey, granularity)
		if isFalsy(form.Get(timeGrainKey)) {
			form.Set(timeGrainKey, TimeGrainDay)
		}
	}

	filter := formdata.New()
	filter.Set("clause", "WHERE")
	filter.Set("subject", granularity)
	filter.Set("operator", "TEMPORAL_RANGE")
	filter.Set("comparator", comparator)
	filter.Set("expressionType", "SIMPLE")

	if structured, ok := granularity.(*formdata.Map); ok {
		rangeExpr, _ := comparator.(string)
		since, until, err := timerange.SinceUntil(rangeExpr, opts.Now())
		if err != nil {
			return err
		}
		if since == nil && until == nil {
			filter = nil
		} else {
			column := structured.GetString(sqlExprKey)
			filter.Set("comparator", nil)
			filter.Set("expressionType", "SQL")
			filter.Set("subject", structured.Get(labelKey))
			filter.Set(sqlExprKey, boundsExpression(column, since, until))
		}
	}

	filters, _ := form.Get(adhocFiltersKey).([]any)
	if filters == nil {
		filters = []any{}
	}
	if filter != nil {
		filters = append(filters, filter)
	}
	form.Set(adhocFiltersKey, filters)
	return nil
}

// boundsExpression renders a half-open SQL predicate over the given column.
// At least one bound is set when this is called.
func boundsExpression(column string, since, until *time.Time) string {
	switch {
	case since != nil && until != nil:
		return fmt.Sprintf("%s >= '%s' AND %s < '%s'",
			column, formatBound(*since), column, formatBound(*until))
	case since != nil:
		return fmt.Sprintf("%s >= '%s'", column, formatBound(*since))
	default:
		return fmt.Sprintf("%s < '%s'", column, formatBound(*until))
	}
}

// formatBound prints date-only for midnight instants, full datetime otherwise.
func formatBound(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02T15:04:05")
}
