package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rovers/pkg/logging"
)

var (
	logLevel   string
	logChannel string
)

// logCmd writes one record through the configured pipeline
var logCmd = &cobra.Command{
	Use:   "log [flags] message...",
	Short: "Write a message through the logging pipeline",
	Long: `Write a message on one of the logging channels. The words of the
message are joined with single spaces.

Examples:
  rovers log "mission started"
  rovers log --level warning --channel hardware "left wheel slipping"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLog,
}

// hardwareCmd writes one hardware sample
var hardwareCmd = &cobra.Command{
	Use:   "hardware value...",
	Short: "Record a hardware sample on the hardware channel",
	Long: `Record the given values as one hardware sample. Values are joined
with " | ".

Example:
  rovers hardware imu 0.12 9.81`,
	Args: cobra.ArbitraryArgs,
	RunE: runHardware,
}

func init() {
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(hardwareCmd)

	logCmd.Flags().StringVarP(&logLevel, "level", "l", "info", "Level of the message (debug, info, warning, error)")
	logCmd.Flags().StringVarP(&logChannel, "channel", "c", logging.ChannelMain.String(), "Channel to write to (main, hardware)")
}

func runLog(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLogLevel(logLevel)
	if err != nil {
		return err
	}
	channel, ok := logging.ParseChannel(logChannel)
	if !ok {
		return fmt.Errorf("unknown channel %q", logChannel)
	}

	facade, err := newFacade(cmd)
	if err != nil {
		return err
	}
	defer facade.Close()

	facade.Log(channel, level, "%s", strings.Join(args, " "))
	return nil
}

func runHardware(cmd *cobra.Command, args []string) error {
	facade, err := newFacade(cmd)
	if err != nil {
		return err
	}
	defer facade.Close()

	values := make([]interface{}, len(args))
	for i, a := range args {
		values[i] = a
	}
	facade.Hardware(values...)
	return nil
}
