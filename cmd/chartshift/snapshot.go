// Export and import commands move charts through JSONL snapshots.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export all charts to a JSONL snapshot",
	Long: `Export writes every stored chart as one JSON object per line. The
snapshot is written atomically.

Example:
  chartshift export charts.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import charts from a JSONL snapshot",
	Long: `Import reads a JSONL snapshot and upserts each chart by ID.
Malformed lines are skipped.

Example:
  chartshift import charts.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runExport(cmd *cobra.Command, args []string) error {
	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	count, err := store.ExportJSONL(args[0])
	if err != nil {
		return fmt.Errorf("export charts: %w", err)
	}

	fmt.Printf("exported %d charts to %s\n", count, args[0])
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	count, err := store.ImportJSONL(args[0])
	if err != nil {
		return fmt.Errorf("import charts: %w", err)
	}

	fmt.Printf("imported %d charts from %s\n", count, args[0])
	return nil
}
