// Package formatting renders resolved logging configurations for the CLI.
//
// The same view of a configuration can be printed as a plain console
// listing, as go-pretty tables, or as JSON/YAML for scripts.
package formatting

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatConsole OutputFormat = "console" // Simple console output
	FormatJSON    OutputFormat = "json"    // JSON output
	FormatYAML    OutputFormat = "yaml"    // YAML output
	FormatTable   OutputFormat = "table"   // Rich table output
)

// OutputFormats lists every supported format, for flag help and validation.
var OutputFormats = []OutputFormat{FormatConsole, FormatTable, FormatYAML, FormatJSON}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool // Suppress decorative elements
	Color  bool // Enable colored output
}

// Formatter renders configuration views
type Formatter interface {
	FormatConfig(view ConfigView) (string, error)

	// Configuration
	SetOptions(options Options)
	GetOptions() Options
}

// Factory creates formatters for different output formats
type Factory interface {
	CreateFormatter(options Options) Formatter
}

// NewFactory creates a new formatter factory
func NewFactory() Factory {
	return &factory{}
}

// factory implements the Factory interface
type factory struct{}

// CreateFormatter creates the appropriate formatter based on options
func (f *factory) CreateFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		return NewTableFormatter(options)
	case FormatConsole:
		fallthrough
	default:
		return NewConsoleFormatter(options)
	}
}

// ParseOutputFormat validates a user supplied format name.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	for _, f := range OutputFormats {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}
