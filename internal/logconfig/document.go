package logconfig

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Formatter styles.
const (
	StyleTemplate = "template"
	StyleText     = "text"
	StyleJSON     = "json"
)

// DefaultDateFormat is the time layout used when a formatter sets no datefmt.
const DefaultDateFormat = "2006-01-02 15:04:05"

// Document is the declarative logging configuration as stored on disk.
type Document struct {
	Formatters map[string]FormatterSpec `yaml:"formatters"`
	Handlers   map[string]HandlerSpec   `yaml:"handlers"`
	Loggers    map[string]LoggerSpec    `yaml:"loggers"`
}

// FormatterSpec describes how records are laid out.
type FormatterSpec struct {
	Style      string `yaml:"style,omitempty"`
	Format     string `yaml:"format,omitempty"`
	DateFormat string `yaml:"datefmt,omitempty"`
}

// HandlerSpec is a named output sink. Kind-specific parameters that are not
// modelled as fields end up in Params untouched.
type HandlerSpec struct {
	Class     SinkKind               `yaml:"class"`
	Level     string                 `yaml:"level,omitempty"`
	Formatter string                 `yaml:"formatter,omitempty"`
	Filename  string                 `yaml:"filename,omitempty"`
	Params    map[string]interface{} `yaml:",inline"`
}

// LoggerSpec binds a named logger to handlers and a minimum level.
type LoggerSpec struct {
	Level    string   `yaml:"level,omitempty"`
	Handlers []string `yaml:"handlers"`
}

// ResolvedConfig is a validated document whose file-backed handlers point
// into LogDir. It is ready to be applied as one unit.
type ResolvedConfig struct {
	Document   Document
	ConfigPath string
	LogDir     string
}

// EffectiveStyle returns the formatter style, defaulting to template.
func (f FormatterSpec) EffectiveStyle() string {
	if f.Style == "" {
		return StyleTemplate
	}
	return f.Style
}

// EffectiveDateFormat returns the date layout, defaulting to DefaultDateFormat.
func (f FormatterSpec) EffectiveDateFormat() string {
	if f.DateFormat == "" {
		return DefaultDateFormat
	}
	return f.DateFormat
}

// Param returns a kind-specific parameter.
func (h HandlerSpec) Param(key string) (interface{}, bool) {
	v, ok := h.Params[key]
	return v, ok
}

// StringParam returns a string parameter or def when it is absent.
func (h HandlerSpec) StringParam(key, def string) string {
	v, ok := h.Params[key]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// IntParam returns an integer parameter or def when it is absent or not a number.
func (h HandlerSpec) IntParam(key string, def int) int {
	switch v := h.Params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// BoolParam returns a boolean parameter or def when it is absent.
func (h HandlerSpec) BoolParam(key string, def bool) bool {
	if v, ok := h.Params[key].(bool); ok {
		return v
	}
	return def
}

// SlogLevel returns the handler threshold. Validation guarantees it parses.
func (h HandlerSpec) SlogLevel() slog.Level {
	lvl, _ := ParseLevel(h.Level)
	return lvl
}

// SlogLevel returns the logger threshold. Validation guarantees it parses.
func (l LoggerSpec) SlogLevel() slog.Level {
	lvl, _ := ParseLevel(l.Level)
	return lvl
}

// FormatterNames returns the formatter names in sorted order.
func (d Document) FormatterNames() []string {
	names := make([]string, 0, len(d.Formatters))
	for name := range d.Formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HandlerNames returns the handler names in sorted order.
func (d Document) HandlerNames() []string {
	names := make([]string, 0, len(d.Handlers))
	for name := range d.Handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoggerNames returns the logger names in sorted order.
func (d Document) LoggerNames() []string {
	names := make([]string, 0, len(d.Loggers))
	for name := range d.Loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{
		Formatters: make(map[string]FormatterSpec, len(d.Formatters)),
		Handlers:   make(map[string]HandlerSpec, len(d.Handlers)),
		Loggers:    make(map[string]LoggerSpec, len(d.Loggers)),
	}
	for name, f := range d.Formatters {
		out.Formatters[name] = f
	}
	for name, h := range d.Handlers {
		h.Params = cloneMap(h.Params)
		out.Handlers[name] = h
	}
	for name, l := range d.Loggers {
		l.Handlers = append([]string(nil), l.Handlers...)
		out.Loggers[name] = l
	}
	return out
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return cloneMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}

// ParseLevel parses a level name (case-insensitive). The empty string means DEBUG.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARNING", "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelDebug, fmt.Errorf("unknown level %q", s)
	}
}
