// Package logconfig loads the declarative logging configuration used by the
// rovers logging pipeline.
//
// # Document
//
// A document is a YAML (or JSON) mapping with three sections:
//
//	formatters:
//	  standard:
//	    format: "{{ .Time }} - {{ .Level }} - {{ .Message }}"
//	handlers:
//	  main_file:
//	    class: file
//	    formatter: standard
//	    filename: main.log
//	loggers:
//	  main:
//	    level: INFO
//	    handlers: [main_file]
//
// Handlers carry a `class` tag. The kinds file, restricted-file and
// verbose-file are file-backed: Load joins their filename onto the log
// directory passed by the caller. Every other kind, including custom kinds
// unknown to this package, is passed through unchanged.
//
// # Loading
//
//	cfg, err := logconfig.Load("/opt/rovers/assets/common_logger/config.yaml", "/opt/rovers/logs")
//	switch {
//	case errors.Is(err, logconfig.ErrConfigNotFound):
//	case errors.Is(err, logconfig.ErrLogDirectoryMissing):
//	case errors.Is(err, logconfig.ErrConfigLoad):
//	}
//
// Load checks both paths before reading anything, validates the whole document
// (including logger to handler references) before rewriting, and never returns
// a partially rewritten configuration. The log directory is never created here.
//
// All errors are *ConfigurationError values; DetailedError renders them for
// command line output.
package logconfig
