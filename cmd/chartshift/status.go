// Status command summarizes migration progress per registry entry.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/chartshift/internal/migrate"
	"github.com/mesh-intelligence/chartshift/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-migration chart counts",
	Long: `Status counts, for every registered migration, how many stored charts
are still on the source type and how many are on the target type with a
backup available for downgrade.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

// migrationStatus is one row of status output.
type migrationStatus struct {
	Name       string `json:"name"`
	Source     string `json:"source"`
	Target     string `json:"target"`
	Pending    int    `json:"pending"`
	Reversible int    `json:"reversible"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	var rows []migrationStatus
	for _, name := range migrate.Names() {
		m, _ := migrate.Lookup(name)

		pending, err := store.Count(types.ChartFilter{VizType: m.Source})
		if err != nil {
			return fmt.Errorf("count pending charts: %w", err)
		}
		reversible, err := store.Count(types.ChartFilter{
			VizType:       m.Target,
			ParamsContain: types.FormDataBackupField,
		})
		if err != nil {
			return fmt.Errorf("count reversible charts: %w", err)
		}

		rows = append(rows, migrationStatus{
			Name:       name,
			Source:     m.Source,
			Target:     m.Target,
			Pending:    pending,
			Reversible: reversible,
		})
	}

	if flagJSON {
		return printJSON(rows)
	}
	fmt.Printf("%-14s %-10s %-10s\n", "MIGRATION", "PENDING", "REVERSIBLE")
	for _, row := range rows {
		fmt.Printf("%-14s %-10d %-10d\n", row.Name, row.Pending, row.Reversible)
	}
	return nil
}
