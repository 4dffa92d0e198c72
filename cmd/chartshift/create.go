// Create command stores a new chart.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/chartshift/pkg/formdata"
	"github.com/mesh-intelligence/chartshift/pkg/types"
)

var (
	createParams       string
	createQueryContext string
)

var createCmd = &cobra.Command{
	Use:   "create <name> <viz-type>",
	Short: "Create a chart",
	Long: `Create stores a new chart with the given name and visualization type.
Params and query context are optional JSON objects.

Example:
  chartshift create "Weekly flights" area --params '{"viz_type": "area", "metric": "count"}'`,
	Args: cobra.ExactArgs(2),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createParams, "params", "", "chart params as a JSON object")
	createCmd.Flags().StringVar(&createQueryContext, "query-context", "", "query context as a JSON object")
}

func runCreate(cmd *cobra.Command, args []string) error {
	if createParams != "" {
		if _, err := formdata.Parse(createParams); err != nil {
			return fmt.Errorf("%w: invalid --params: %v", errUsage, err)
		}
	}
	if createQueryContext != "" {
		if _, err := formdata.Parse(createQueryContext); err != nil {
			return fmt.Errorf("%w: invalid --query-context: %v", errUsage, err)
		}
	}

	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	id, err := store.Set("", &types.Chart{
		Name:         args[0],
		VizType:      args[1],
		Params:       createParams,
		QueryContext: createQueryContext,
	})
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]string{"chart_id": id})
	}
	fmt.Println(id)
	return nil
}
