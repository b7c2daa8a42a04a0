package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rovers/internal/formatting"
	"rovers/internal/logconfig"
)

var (
	checkOutputFormat string
	checkQuiet        bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the logging configuration",
	Long: `Load the logging configuration, validate it and show where every
handler writes once file-backed handlers are placed in the log directory.

Nothing is opened or written; use this before deploying a new document.

Examples:
  rovers check
  rovers check --config ./config.yaml --log-dir /var/log/rovers -o json`,
	Args: cobra.NoArgs,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	names := make([]string, len(formatting.OutputFormats))
	for i, f := range formatting.OutputFormats {
		names[i] = string(f)
	}
	checkCmd.Flags().StringVarP(&checkOutputFormat, "output", "o", "table", "Output format ("+strings.Join(names, ", ")+")")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "Suppress non-essential output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, ok := formatting.ParseOutputFormat(checkOutputFormat)
	if !ok {
		return fmt.Errorf("unknown output format %q", checkOutputFormat)
	}

	cfg, dir := resolvePaths()
	resolved, err := logconfig.Load(cfg, dir)
	if err != nil {
		var cfgErr *logconfig.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(cmd.ErrOrStderr(), cfgErr.DetailedError())
		}
		return err
	}

	formatter := formatting.NewFactory().CreateFormatter(formatting.Options{
		Format: format,
		Quiet:  checkQuiet,
		Color:  isTerminal(cmd.OutOrStdout()),
	})
	out, err := formatter.FormatConfig(formatting.NewConfigView(resolved))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
