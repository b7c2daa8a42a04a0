package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rovers/internal/layout"
	"rovers/internal/logconfig"
)

var initForce bool

// initCmd writes the embedded default configuration to disk
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default logging configuration",
	Long: `Create the rovers directory layout and write the default logging
configuration into it.

Without --config the document is written to the default layout under
$ROVERS_HOME (or the XDG data directory). An existing document is only
replaced with --force.

Examples:
  rovers init
  rovers init --config ./config.yaml --log-dir ./logs`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	if configPath == "" || logDir == "" {
		if err := layout.Default().Ensure(); err != nil {
			return fmt.Errorf("failed to create rovers layout: %w", err)
		}
	}
	cfg, dir := resolvePaths()

	if err := os.MkdirAll(filepath.Dir(cfg), 0755); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	if _, err := os.Stat(cfg); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfg)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", cfg, err)
	}

	if err := os.WriteFile(cfg, logconfig.DefaultDocument(), 0644); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default logging configuration to %s\n", cfg)
	fmt.Fprintf(cmd.OutOrStdout(), "Log files will be written to %s\n", dir)
	return nil
}
