// Downgrade command reverses a previously applied migration.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/chartshift/internal/migrate"
)

var (
	downgradeDryRun   bool
	downgradePageSize int
)

var downgradeCmd = &cobra.Command{
	Use:   "downgrade <migration>",
	Short: "Restore charts of a migration's target type from their backups",
	Long: `Downgrade restores every chart of the migration's target type that
still carries a form-data backup to its pre-upgrade state. Charts of the
target type without a backup are left alone.

Example:
  chartshift downgrade area`,
	Args: cobra.ExactArgs(1),
	RunE: runDowngrade,
}

func init() {
	downgradeCmd.Flags().BoolVar(&downgradeDryRun, "dry-run", false, "report what would change without persisting")
	downgradeCmd.Flags().IntVar(&downgradePageSize, "page-size", 0, "charts per transaction (default from config)")
}

func runDowngrade(cmd *cobra.Command, args []string) error {
	m, err := lookupMigration(args[0])
	if err != nil {
		return err
	}

	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	report, err := migrate.DowngradeAll(m, store, batchOptions(downgradePageSize, downgradeDryRun))
	if err != nil {
		return fmt.Errorf("downgrade %s: %w", args[0], err)
	}

	return printReport("downgraded", report, downgradeDryRun)
}
