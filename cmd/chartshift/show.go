// Show command prints one chart in full.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/chartshift/pkg/formdata"
	"github.com/mesh-intelligence/chartshift/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show <chart-id>",
	Short: "Show a stored chart",
	Long: `Show prints a chart's metadata, params, and query context.

Example:
  chartshift show 0193e7a2-1b5c-7000-8000-000000000000`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

// chartDetail renders params and query context as nested JSON rather than
// embedded strings.
type chartDetail struct {
	ChartID      string          `json:"chart_id"`
	Name         string          `json:"name"`
	VizType      string          `json:"viz_type"`
	Params       json.RawMessage `json:"params,omitempty"`
	QueryContext json.RawMessage `json:"query_context,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

func runShow(cmd *cobra.Command, args []string) error {
	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	chart, err := store.Get(args[0])
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("chart %q not found: %w", args[0], err)
		}
		return fmt.Errorf("get chart: %w", err)
	}

	return printJSON(chartDetail{
		ChartID:      chart.ChartID,
		Name:         chart.Name,
		VizType:      chart.VizType,
		Params:       rawJSON(chart.Params),
		QueryContext: rawJSON(chart.QueryContext),
		CreatedAt:    chart.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    chart.UpdatedAt.Format(time.RFC3339),
	})
}

// rawJSON passes valid JSON text through untouched and re-quotes anything
// else so the output stays well-formed.
func rawJSON(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	if m, err := formdata.Parse(s); err == nil {
		return json.RawMessage(m.String())
	}
	quoted, _ := json.Marshal(s)
	return quoted
}
