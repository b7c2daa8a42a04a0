package formatting

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

// FormatConfig formats the view as indented JSON
func (f *JSONFormatter) FormatConfig(view ConfigView) (string, error) {
	return PrettyJSON(view) + "\n", nil
}

// SetOptions updates the formatter options
func (f *JSONFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *JSONFormatter) GetOptions() Options {
	return f.options
}
