package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"rovers/internal/logconfig"
)

// loggerKey carries the channel name on every record.
const loggerKey = "logger"

// defaultFormat is used by handlers that do not reference a formatter.
const defaultFormat = "{{ .Level }}:{{ .Logger }}:{{ .Message }}"

// Formatter turns a writer into an slog.Handler laid out according to one
// entry of the formatters section.
type Formatter struct {
	spec logconfig.FormatterSpec
	tmpl *template.Template
}

func newFormatter(name string, spec logconfig.FormatterSpec) (*Formatter, error) {
	f := &Formatter{spec: spec}
	if spec.EffectiveStyle() == logconfig.StyleTemplate {
		tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Parse(spec.Format)
		if err != nil {
			return nil, fmt.Errorf("formatter %q: %w", name, err)
		}
		f.tmpl = tmpl
	}
	return f, nil
}

func defaultFormatter() *Formatter {
	f, err := newFormatter("default", logconfig.FormatterSpec{Format: defaultFormat})
	if err != nil {
		panic(fmt.Sprintf("failed to parse default format: %v", err))
	}
	return f
}

// Handler returns an slog.Handler writing records to w.
func (f *Formatter) Handler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch f.spec.EffectiveStyle() {
	case logconfig.StyleJSON:
		return slog.NewJSONHandler(w, opts)
	case logconfig.StyleText:
		return slog.NewTextHandler(w, opts)
	default:
		return newTemplateHandler(w, f.tmpl, f.spec.EffectiveDateFormat(), opts)
	}
}

// recordData is what a template formatter sees.
type recordData struct {
	Time    string
	Level   string
	Logger  string
	Message string
	Source  string
	Attrs   map[string]any
}

// templateHandler renders each record through a text/template, one line per
// record.
type templateHandler struct {
	mu      *sync.Mutex
	w       io.Writer
	tmpl    *template.Template
	datefmt string
	opts    slog.HandlerOptions
	attrs   map[string]any
	prefix  string
}

func newTemplateHandler(w io.Writer, tmpl *template.Template, datefmt string, opts *slog.HandlerOptions) *templateHandler {
	h := &templateHandler{
		mu:      &sync.Mutex{},
		w:       w,
		tmpl:    tmpl,
		datefmt: datefmt,
		attrs:   map[string]any{},
	}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *templateHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *templateHandler) Handle(_ context.Context, r slog.Record) error {
	data := recordData{
		Time:    r.Time.Format(h.datefmt),
		Level:   levelFromSlog(r.Level).String(),
		Message: r.Message,
		Attrs:   make(map[string]any, len(h.attrs)+r.NumAttrs()),
	}
	for k, v := range h.attrs {
		data.Attrs[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(data.Attrs, h.prefix, a)
		return true
	})
	if name, ok := data.Attrs[loggerKey]; ok {
		data.Logger = fmt.Sprint(name)
		delete(data.Attrs, loggerKey)
	}
	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		data.Source = fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		return err
	}
	if b := buf.Bytes(); len(b) == 0 || b[len(b)-1] != '\n' {
		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *templateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	for _, a := range attrs {
		addAttr(clone.attrs, h.prefix, a)
	}
	return clone
}

func (h *templateHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.prefix = h.prefix + name + "."
	return clone
}

func (h *templateHandler) clone() *templateHandler {
	attrs := make(map[string]any, len(h.attrs))
	for k, v := range h.attrs {
		attrs[k] = v
	}
	c := *h
	c.attrs = attrs
	return &c
}

// addAttr flattens a into m using dotted keys for groups.
func addAttr(m map[string]any, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		sub := prefix
		if a.Key != "" {
			sub = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			addAttr(m, sub, ga)
		}
		return
	}
	m[prefix+a.Key] = a.Value.Any()
}
