package formatting

import (
	"fmt"
	"strings"
)

// ConsoleFormatter provides simple console output formatting
type ConsoleFormatter struct {
	options Options
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(options Options) Formatter {
	return &ConsoleFormatter{
		options: options,
	}
}

// FormatConfig lists handlers and loggers one per line
func (f *ConsoleFormatter) FormatConfig(view ConfigView) (string, error) {
	var output []string
	if !f.options.Quiet {
		output = append(output,
			fmt.Sprintf("Configuration: %s", view.ConfigPath),
			fmt.Sprintf("Log directory: %s", view.LogDir),
			"")
	}

	if len(view.Formatters) > 0 {
		output = append(output, fmt.Sprintf("Formatters (%d):", len(view.Formatters)))
		for i, fv := range view.Formatters {
			output = append(output, fmt.Sprintf("  %d. %-20s %-8s %s", i+1, fv.Name, fv.Style, Truncate(fv.Format, DefaultFormatMaxLen)))
		}
	}

	if len(view.Handlers) == 0 {
		output = append(output, "No handlers configured.")
	} else {
		output = append(output, fmt.Sprintf("Handlers (%d):", len(view.Handlers)))
		for i, h := range view.Handlers {
			output = append(output, fmt.Sprintf("  %d. %-20s %-16s %-8s -> %s", i+1, h.Name, h.Class, h.Level, h.Destination))
		}
	}

	if len(view.Loggers) == 0 {
		output = append(output, "No loggers configured.")
	} else {
		output = append(output, fmt.Sprintf("Loggers (%d):", len(view.Loggers)))
		for i, l := range view.Loggers {
			output = append(output, fmt.Sprintf("  %d. %-20s %-8s -> %s", i+1, l.Name, l.Level, strings.Join(l.Handlers, ", ")))
		}
	}

	return strings.Join(output, "\n") + "\n", nil
}

// SetOptions updates the formatter options
func (f *ConsoleFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *ConsoleFormatter) GetOptions() Options {
	return f.options
}
