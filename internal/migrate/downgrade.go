package migrate

import (
	"github.com/mesh-intelligence/chartshift/pkg/formdata"
	"github.com/mesh-intelligence/chartshift/pkg/types"
)

// DowngradeChart restores one chart to its pre-upgrade state from the
// form_data_bak and queries_bak carried in params. A chart without a usable
// backup is left untouched. The backup, including its viz_type, is restored
// verbatim; the query context gets its saved queries back when any were
// backed up, and is cleared otherwise.
func DowngradeChart(chart *types.Chart, opts Options) Result {
	opts = opts.withDefaults()
	res := Result{ChartID: chart.ChartID}

	form := formdata.TryParse(chart.Params)
	backup := form.GetMap(types.FormDataBackupField)
	if backup == nil || !backup.Has(vizTypeKey) {
		return res
	}

	params, err := marshalMap(backup)
	if err != nil {
		res.Err = err
		return res
	}

	savedQueries, _ := form.Get(types.QueriesBackupField).([]any)
	if len(savedQueries) > 0 {
		queryContext := formdata.TryParse(chart.QueryContext)
		queryContext.Set(queriesKey, savedQueries)
		if queryContext.Has(formDataKey) {
			queryContext.Set(formDataKey, backup)
		}
		qc, err := marshalMap(queryContext)
		if err != nil {
			res.Err = err
			return res
		}
		chart.QueryContext = qc
	} else {
		chart.QueryContext = ""
	}

	chart.Params = params
	chart.VizType = backup.GetString(vizTypeKey)
	res.Changed = true
	return res
}
