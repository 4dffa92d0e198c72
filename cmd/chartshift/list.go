// List commands for migrations and stored charts.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/chartshift/internal/migrate"
	"github.com/mesh-intelligence/chartshift/pkg/types"
)

var listVizType string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List migrations or stored charts",
}

var listMigrationsCmd = &cobra.Command{
	Use:   "migrations",
	Short: "List the available migrations",
	Args:  cobra.NoArgs,
	RunE:  runListMigrations,
}

var listChartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "List stored charts",
	Long: `List stored charts, optionally filtered by visualization type.

Example:
  chartshift list charts
  chartshift list charts --viz-type area`,
	Args: cobra.NoArgs,
	RunE: runListCharts,
}

func init() {
	listChartsCmd.Flags().StringVar(&listVizType, "viz-type", "", "only list charts of this visualization type")
	listCmd.AddCommand(listMigrationsCmd)
	listCmd.AddCommand(listChartsCmd)
}

// migrationInfo is the JSON shape of one registry entry in list output.
type migrationInfo struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Target string `json:"target"`
}

func runListMigrations(cmd *cobra.Command, args []string) error {
	var infos []migrationInfo
	for _, name := range migrate.Names() {
		m, _ := migrate.Lookup(name)
		infos = append(infos, migrationInfo{Name: name, Source: m.Source, Target: m.Target})
	}

	if flagJSON {
		return printJSON(infos)
	}
	for _, info := range infos {
		fmt.Printf("%-14s %s -> %s\n", info.Name, info.Source, info.Target)
	}
	return nil
}

// chartSummary is the JSON shape of one chart in list output.
type chartSummary struct {
	ChartID   string `json:"chart_id"`
	Name      string `json:"name"`
	VizType   string `json:"viz_type"`
	HasBackup bool   `json:"has_backup"`
}

func runListCharts(cmd *cobra.Command, args []string) error {
	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	charts, err := store.Fetch(types.ChartFilter{VizType: listVizType})
	if err != nil {
		return fmt.Errorf("fetch charts: %w", err)
	}

	summaries := make([]chartSummary, 0, len(charts))
	for _, chart := range charts {
		summaries = append(summaries, chartSummary{
			ChartID:   chart.ChartID,
			Name:      chart.Name,
			VizType:   chart.VizType,
			HasBackup: chart.HasBackup(),
		})
	}

	if flagJSON {
		return printJSON(summaries)
	}
	for _, s := range summaries {
		marker := " "
		if s.HasBackup {
			marker = "*"
		}
		fmt.Printf("%s %-36s %-20s %s\n", marker, s.ChartID, s.VizType, s.Name)
	}
	return nil
}
