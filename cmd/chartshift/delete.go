// Delete command removes a chart.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/chartshift/pkg/types"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <chart-id>",
	Short: "Delete a chart",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	if err := store.Delete(args[0]); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("chart %q not found: %w", args[0], err)
		}
		return fmt.Errorf("delete chart: %w", err)
	}

	fmt.Println("deleted", args[0])
	return nil
}
