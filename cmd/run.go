package cmd

import (
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"rovers/internal/formatting"
)

var runQuiet bool

// runCmd runs a command and logs what it left behind
var runCmd = &cobra.Command{
	Use:   "run [flags] -- command [args...]",
	Short: "Run a command and log its exit code and output",
	Long: `Run a command, wait for it and log the result on the main channel:
the exit code at INFO, standard output at DEBUG and standard error at
ERROR. rovers exits with the command's exit code.

Examples:
  rovers run -- make firmware
  rovers run --quiet -- ./calibrate.sh --axis z`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Do not show progress while the command runs")
}

func runRun(cmd *cobra.Command, args []string) error {
	facade, err := newFacade(cmd)
	if err != nil {
		return err
	}
	defer facade.Close()

	var s *spinner.Spinner
	if !runQuiet && isTerminal(cmd.ErrOrStderr()) {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		s.Suffix = " Running " + formatting.Truncate(strings.Join(args, " "), formatting.DefaultFormatMaxLen)
		s.Start()
	}

	res, err := facade.Run(cmd.Context(), args[0], args[1:]...)

	if s != nil {
		if err != nil || res.ExitCode != 0 {
			s.FinalMSG = text.FgRed.Sprint("Command failed") + "\n"
		}
		s.Stop()
	}

	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &ExitStatusError{Code: res.ExitCode}
	}
	return nil
}
