package formatting

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{
		options: options,
	}
}

// FormatConfig formats the view as YAML. Keys follow the JSON field names so
// both outputs describe the same structure.
func (f *YAMLFormatter) FormatConfig(view ConfigView) (string, error) {
	out, err := yaml.Marshal(view)
	if err != nil {
		return "", fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return string(out), nil
}

// SetOptions updates the formatter options
func (f *YAMLFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *YAMLFormatter) GetOptions() Options {
	return f.options
}
