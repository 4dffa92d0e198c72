// Root command for the chartshift CLI.
package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/chartshift/internal/paths"
	"github.com/mesh-intelligence/chartshift/pkg/logger"
)

// Version is the CLI version string.
const Version = "v0.1.0"

// errUsage marks failures caused by bad user input.
var errUsage = errors.New("usage error")

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// appConfig holds the values loaded from config.yaml, filled in by
// PersistentPreRunE so all subcommands can use them.
var appConfig struct {
	dataDir           string
	defaultTimeFilter string
	pageSize          int
}

// log is the process-wide logger, built from the configured log level.
var log logger.Logger = logger.Nop()

var rootCmd = &cobra.Command{
	Use:     "chartshift",
	Short:   "Chartshift migrates stored chart configurations between visualization types",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		appConfig.dataDir = cfg.GetString(cfgKeyDataDir)
		appConfig.defaultTimeFilter = cfg.GetString(cfgKeyDefaultTimeFilter)
		appConfig.pageSize = cfg.GetInt(cfgKeyPageSize)
		log = logger.New(cfg.GetString(cfgKeyLogLevel))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: ~/.chartshift)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: ~/.chartshift-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(downgradeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// resolveDataDir follows the precedence --data-dir flag > config.yaml
// data_dir > CHARTSHIFT_DATA_DIR env > platform default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, appConfig.dataDir)
}

// resolveConfigDir follows the precedence --config-dir flag >
// CHARTSHIFT_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
