package formatting

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{
		options: options,
	}
}

// FormatConfig renders one table for handlers and one for loggers
func (f *TableFormatter) FormatConfig(view ConfigView) (string, error) {
	var b strings.Builder

	if !f.options.Quiet {
		fmt.Fprintf(&b, "%s %s\n", f.paint(text.FgHiBlue, "Configuration:"), view.ConfigPath)
		fmt.Fprintf(&b, "%s %s\n\n", f.paint(text.FgHiBlue, "Log directory:"), view.LogDir)
	}

	if len(view.Formatters) > 0 {
		t := f.createTable()
		t.AppendHeader(f.header("FORMATTER", "STYLE", "FORMAT", "DATEFMT"))
		for _, fv := range view.Formatters {
			t.AppendRow(table.Row{
				f.paint(text.FgHiCyan, fv.Name),
				fv.Style,
				Truncate(fv.Format, DefaultFormatMaxLen),
				fv.DateFormat,
			})
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	if len(view.Handlers) == 0 {
		b.WriteString(f.formatEmptyMessage("No handlers configured"))
	} else {
		t := f.createTable()
		t.AppendHeader(f.header("HANDLER", "CLASS", "LEVEL", "FORMATTER", "DESTINATION"))
		for _, h := range view.Handlers {
			t.AppendRow(table.Row{
				f.paint(text.FgHiCyan, h.Name),
				h.Class,
				f.paintLevel(h.Level),
				h.Formatter,
				h.Destination,
			})
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	if len(view.Loggers) == 0 {
		b.WriteString(f.formatEmptyMessage("No loggers configured"))
	} else {
		t := f.createTable()
		t.AppendHeader(f.header("LOGGER", "LEVEL", "HANDLERS"))
		for _, l := range view.Loggers {
			t.AppendRow(table.Row{
				f.paint(text.FgHiCyan, l.Name),
				f.paintLevel(l.Level),
				strings.Join(l.Handlers, ", "),
			})
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	if !f.options.Quiet {
		fmt.Fprintf(&b, "\n%s %s %s, %s %s\n",
			f.paint(text.FgHiBlue, "Total:"),
			f.paint(text.FgHiWhite, fmt.Sprint(len(view.Handlers))), "handlers",
			f.paint(text.FgHiWhite, fmt.Sprint(len(view.Loggers))), "loggers")
	}

	return b.String(), nil
}

// SetOptions updates the formatter options
func (f *TableFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *TableFormatter) GetOptions() Options {
	return f.options
}

// Helper methods

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) header(names ...string) table.Row {
	row := make(table.Row, len(names))
	for i, n := range names {
		row[i] = f.paint(text.FgHiCyan, n)
	}
	return row
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(message string) string {
	return fmt.Sprintf("%s\n", f.paint(text.FgYellow, message))
}

func (f *TableFormatter) paintLevel(level string) string {
	switch level {
	case "ERROR":
		return f.paint(text.FgRed, level)
	case "WARNING":
		return f.paint(text.FgYellow, level)
	case "INFO":
		return f.paint(text.FgGreen, level)
	default:
		return level
	}
}

func (f *TableFormatter) paint(color text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return color.Sprint(s)
}
