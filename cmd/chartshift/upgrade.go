// Upgrade command runs a registered migration over the stored charts.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/chartshift/internal/migrate"
)

var (
	upgradeDryRun   bool
	upgradePageSize int
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade <migration>",
	Short: "Upgrade all charts of a migration's source type",
	Long: `Upgrade converts every stored chart of the migration's source
visualization type to the target type. Each chart keeps a backup of its
previous form data, so the conversion can be reversed with downgrade.
Charts that fail to convert are logged and skipped.

Example:
  chartshift upgrade area
  chartshift upgrade pivot-table --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runUpgrade,
}

func init() {
	upgradeCmd.Flags().BoolVar(&upgradeDryRun, "dry-run", false, "report what would change without persisting")
	upgradeCmd.Flags().IntVar(&upgradePageSize, "page-size", 0, "charts per transaction (default from config)")
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	m, err := lookupMigration(args[0])
	if err != nil {
		return err
	}

	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	report, err := migrate.UpgradeAll(m, store, batchOptions(upgradePageSize, upgradeDryRun))
	if err != nil {
		return fmt.Errorf("upgrade %s: %w", args[0], err)
	}

	return printReport("upgraded", report, upgradeDryRun)
}

// printReport renders a batch report in text or JSON form.
func printReport(verb string, report migrate.Report, dryRun bool) error {
	if flagJSON {
		return printJSON(report)
	}
	note := ""
	if dryRun {
		note = " (dry run)"
	}
	fmt.Printf("%d selected, %d %s, %d skipped, %d failed%s\n",
		report.Total, report.Changed, verb, report.Skipped, report.Failed, note)
	return nil
}
