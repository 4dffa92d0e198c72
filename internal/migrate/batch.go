package migrate

import (
	"github.com/mesh-intelligence/chartshift/pkg/types"
)

// UpgradeAll runs m over every stored chart whose viz_type matches m.Source.
// The candidate set is snapshotted as a list of IDs up front, so charts whose
// viz_type changes mid-run cannot shift the selection under the pagination.
// Records are processed one page per transaction; a failing record is logged
// and counted, never aborts the run.
func UpgradeAll(m Migration, store types.ChartStore, opts Options) (Report, error) {
	opts = opts.withDefaults()
	ids, err := store.FetchIDs(types.ChartFilter{VizType: m.Source})
	if err != nil {
		return Report{}, err
	}
	return runPages(store, ids, opts, "upgrade", func(chart *types.Chart) Result {
		return UpgradeChart(m, chart, opts)
	})
}

// DowngradeAll reverses m for every chart of the target type that still
// carries a form-data backup. Selection and pagination work as in UpgradeAll.
func DowngradeAll(m Migration, store types.ChartStore, opts Options) (Report, error) {
	opts = opts.withDefaults()
	ids, err := store.FetchIDs(types.ChartFilter{
		VizType:       m.Target,
		ParamsContain: types.FormDataBackupField,
	})
	if err != nil {
		return Report{}, err
	}
	return runPages(store, ids, opts, "downgrade", func(chart *types.Chart) Result {
		return DowngradeChart(chart, opts)
	})
}

// runPages drives the shared page loop: load a page of charts, apply the
// per-record operation, persist the changed ones in one batch. Store errors
// stop the run with the partial report; per-record errors do not.
func runPages(store types.ChartStore, ids []string, opts Options, action string, apply func(*types.Chart) Result) (Report, error) {
	report := Report{Total: len(ids)}
	processed := 0
	for start := 0; start < len(ids); start += opts.PageSize {
		end := start + opts.PageSize
		if end > len(ids) {
			end = len(ids)
		}
		page := ids[start:end]

		charts, err := store.GetBatch(page)
		if err != nil {
			return report, err
		}
		// Charts deleted since selection simply drop out of the page.
		report.Skipped += len(page) - len(charts)

		var changed []*types.Chart
		for _, chart := range charts {
			res := apply(chart)
			switch {
			case res.Err != nil:
				report.Failed++
				opts.Log.Warn("chart "+action+" failed",
					"chart_id", chart.ChartID, "error", res.Err.Error())
			case res.Changed:
				report.Changed++
				changed = append(changed, chart)
			default:
				report.Skipped++
			}
		}

		if len(changed) > 0 && !opts.DryRun {
			if err := store.UpdateBatch(changed); err != nil {
				return report, err
			}
		}

		processed += len(page)
		if opts.Progress != nil {
			opts.Progress(processed, len(ids))
		}
		opts.Log.Info("processed chart page",
			"action", action, "processed", processed, "total", len(ids))
	}
	return report, nil
}
