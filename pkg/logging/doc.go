// Package logging provides the process-wide logging facade for rovers.
//
// A Facade owns one active pipeline built from a logging configuration
// document (see internal/logconfig) on top of Go's standard slog package. The
// pipeline is replaced as a whole by Reconfigure; every channel handle keeps
// working across the swap.
//
// # Architecture
//
// ## Channels
//   - **main**: general application messages, subprocess results
//   - **hardware**: hardware readings, one " | "-separated record per sample
//
// Each channel is looked up by name in the loggers section of the active
// document on every record. A channel the document does not declare writes to
// stderr at WARNING and above.
//
// ## Pipeline
// Building a pipeline parses every formatter, opens every handler and binds
// every logger. Nothing is installed unless all of it succeeds, and the
// previous pipeline's sinks are closed only after the new one is active.
//
// ## Handler classes
//   - **file**: plain file, appended to (mode: truncate to start fresh)
//   - **restricted-file**: size-capped file with max_size/max_backups
//   - **verbose-file**: file that records everything down to DEBUG with source locations
//   - **console**: stderr, or stdout with stream: stdout
//   - **journal**: systemd journal
//   - **null**: discards records
//
// Further classes can be registered through Options.Sinks.
//
// # Usage Examples
//
//	log, err := logging.New(logging.Options{
//	    ConfigPath: "assets/common_logger/config.yaml",
//	    LogDir:     "logs",
//	})
//	if err != nil {
//	    return err
//	}
//	defer log.Close()
//
//	log.Info("Starting rover %s", name)
//	log.Hardware("imu", 0.12, 9.81)
//
//	res, err := log.Run(ctx, "make", "firmware")
//
// ## slog Integration
//
//	logger := log.Logger(logging.ChannelMain).With("component", "planner")
//	logger.Warn("path blocked", "x", 3, "y", 7)
//
// # Thread Safety
//
// Emission is safe from any number of goroutines. Reconfigure calls are
// serialised, and a record is always written entirely through either the old
// or the new pipeline.
package logging
