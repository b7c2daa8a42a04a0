package formatting

import (
	"strings"

	"rovers/internal/logconfig"
)

// ConfigView is the printable summary of a resolved configuration.
type ConfigView struct {
	ConfigPath string          `json:"configPath"`
	LogDir     string          `json:"logDir"`
	Formatters []FormatterView `json:"formatters"`
	Handlers   []HandlerView   `json:"handlers"`
	Loggers    []LoggerView    `json:"loggers"`
}

// FormatterView describes one formatter with its defaults applied.
type FormatterView struct {
	Name       string `json:"name"`
	Style      string `json:"style"`
	Format     string `json:"format,omitempty"`
	DateFormat string `json:"datefmt,omitempty"`
}

// HandlerView describes one handler and where its records end up.
type HandlerView struct {
	Name        string `json:"name"`
	Class       string `json:"class"`
	Level       string `json:"level"`
	Formatter   string `json:"formatter,omitempty"`
	Destination string `json:"destination"`
	FileBacked  bool   `json:"fileBacked"`
}

// LoggerView describes one named logger.
type LoggerView struct {
	Name     string   `json:"name"`
	Level    string   `json:"level"`
	Handlers []string `json:"handlers"`
}

// NewConfigView builds the view of cfg with every section sorted by name.
func NewConfigView(cfg *logconfig.ResolvedConfig) ConfigView {
	doc := cfg.Document
	view := ConfigView{
		ConfigPath: cfg.ConfigPath,
		LogDir:     cfg.LogDir,
		Formatters: make([]FormatterView, 0, len(doc.Formatters)),
		Handlers:   make([]HandlerView, 0, len(doc.Handlers)),
		Loggers:    make([]LoggerView, 0, len(doc.Loggers)),
	}

	for _, name := range doc.FormatterNames() {
		f := doc.Formatters[name]
		fv := FormatterView{Name: name, Style: f.EffectiveStyle()}
		if fv.Style == logconfig.StyleTemplate {
			fv.Format = f.Format
			fv.DateFormat = f.EffectiveDateFormat()
		}
		view.Formatters = append(view.Formatters, fv)
	}

	for _, name := range doc.HandlerNames() {
		h := doc.Handlers[name]
		view.Handlers = append(view.Handlers, HandlerView{
			Name:        name,
			Class:       string(h.Class),
			Level:       levelName(h.Level),
			Formatter:   h.Formatter,
			Destination: destination(h),
			FileBacked:  h.Class.FileBacked(),
		})
	}

	for _, name := range doc.LoggerNames() {
		l := doc.Loggers[name]
		view.Loggers = append(view.Loggers, LoggerView{
			Name:     name,
			Level:    levelName(l.Level),
			Handlers: append([]string{}, l.Handlers...),
		})
	}

	return view
}

// levelName returns the canonical spelling of a configured level.
func levelName(level string) string {
	switch l := strings.ToUpper(strings.TrimSpace(level)); l {
	case "":
		return "DEBUG"
	case "WARN":
		return "WARNING"
	default:
		return l
	}
}

func destination(h logconfig.HandlerSpec) string {
	switch {
	case h.Class.FileBacked():
		return h.Filename
	case h.Class == logconfig.KindConsole:
		return h.StringParam("stream", "stderr")
	case h.Class == logconfig.KindJournal:
		return "journal:" + h.StringParam("identifier", "rovers")
	case h.Class == logconfig.KindNull:
		return "-"
	default:
		return "custom"
	}
}
