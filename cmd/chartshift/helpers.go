// Shared helpers for chartshift CLI commands.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/chartshift/internal/migrate"
	"github.com/mesh-intelligence/chartshift/internal/sqlite"
	"github.com/mesh-intelligence/chartshift/pkg/types"
)

// attachStore resolves the data directory, creates a SQLite store, and
// attaches it. The caller must defer store.Detach().
func attachStore() (*sqlite.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:           types.BackendSQLite,
		DataDir:           dataDir,
		DefaultTimeFilter: appConfig.defaultTimeFilter,
		PageSize:          appConfig.pageSize,
	}

	store := sqlite.NewStore()
	if err := store.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}

	return store, nil
}

// lookupMigration resolves a registry name, listing the valid names on a miss.
func lookupMigration(name string) (migrate.Migration, error) {
	m, ok := migrate.Lookup(name)
	if !ok {
		return migrate.Migration{}, fmt.Errorf("%w: unknown migration %q (valid: %v)",
			errUsage, name, migrate.Names())
	}
	return m, nil
}

// batchOptions builds the migrate options shared by upgrade and downgrade
// from the loaded config and the per-command flags.
func batchOptions(pageSize int, dryRun bool) migrate.Options {
	if pageSize <= 0 {
		pageSize = appConfig.pageSize
	}
	return migrate.Options{
		DefaultTimeFilter: appConfig.defaultTimeFilter,
		PageSize:          pageSize,
		Log:               log,
		DryRun:            dryRun,
	}
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
