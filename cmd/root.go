package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rovers/internal/layout"
	"rovers/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error, including a logging
	// configuration that could not be loaded or applied.
	ExitCodeError = 1
)

var (
	// configPath is the logging configuration document to use.
	configPath string
	// logDir is the directory file-backed handlers write into.
	logDir string
)

// rootCmd represents the base command for the rovers application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rovers",
	Short: "Configure and drive the rover logging pipeline",
	Long: `rovers loads the declarative logging configuration shared by the rover
tooling, applies it, and writes records through its main and hardware
channels. It can also run commands and log their results, and keep the
pipeline in step with the configuration file while it changes.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "rovers version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// ExitStatusError carries the exit status of a command run by 'rovers run'
// so the CLI can exit with it.
type ExitStatusError struct {
	Code int
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	var exitErr *ExitStatusError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	// Default to general error
	return ExitCodeError
}

// resolvePaths returns the configuration path and log directory selected by
// the persistent flags, falling back to the default layout.
func resolvePaths() (string, string) {
	defaults := layout.Default()
	cfg, dir := configPath, logDir
	if cfg == "" {
		cfg = defaults.ConfigPath()
	}
	if dir == "" {
		dir = defaults.LogDir()
	}
	return cfg, dir
}

// newFacade builds the logging facade for a command, writing console output
// to the command's streams.
func newFacade(cmd *cobra.Command) (*logging.Facade, error) {
	cfg, dir := resolvePaths()
	return logging.New(logging.Options{
		ConfigPath: cfg,
		LogDir:     dir,
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	})
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "logging configuration file (default is $ROVERS_HOME/assets/common_logger/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "directory for file-backed handlers (default is $ROVERS_HOME/logs)")
}
