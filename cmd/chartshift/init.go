// Init command creates the config and data directories and the store schema.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the chart store",
	Long: `Init creates the configuration directory with a default config.yaml,
the data directory, and an empty chart database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := attachStore()
		if err != nil {
			return err
		}
		defer store.Detach()

		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}
		fmt.Println("chart store initialized at", dataDir)
		return nil
	},
}
