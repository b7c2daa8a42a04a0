package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"rovers/internal/logconfig"
)

// pipeline is one applied configuration: every sink opened, every logger
// bound. It is immutable once built.
type pipeline struct {
	id      string
	config  *logconfig.ResolvedConfig
	loggers map[string]slog.Handler
	closers []io.Closer
	pending []committer
}

// buildPipeline turns a resolved configuration into a pipeline. Nothing is
// left open when it fails.
func buildPipeline(cfg *logconfig.ResolvedConfig, sinks map[logconfig.SinkKind]SinkFactory, stdout, stderr io.Writer) (*pipeline, error) {
	p := &pipeline{
		id:      uuid.NewString(),
		config:  cfg,
		loggers: make(map[string]slog.Handler, len(cfg.Document.Loggers)),
	}
	if err := p.bind(sinks, stdout, stderr); err != nil {
		_ = p.close()
		return nil, err
	}
	return p, nil
}

func (p *pipeline) bind(sinks map[logconfig.SinkKind]SinkFactory, stdout, stderr io.Writer) error {
	cfg := p.config
	doc := cfg.Document

	formatters := make(map[string]*Formatter, len(doc.Formatters))
	for _, name := range doc.FormatterNames() {
		f, ferr := newFormatter(name, doc.Formatters[name])
		if ferr != nil {
			return logconfig.NewApplyError(cfg.ConfigPath, fmt.Sprintf("failed to build formatter %q", name), ferr)
		}
		formatters[name] = f
	}

	// Every handler is resolved before the first sink is opened.
	factories := make(map[string]SinkFactory, len(doc.Handlers))
	for _, name := range doc.HandlerNames() {
		spec := doc.Handlers[name]
		factory, ok := sinks[spec.Class]
		if !ok {
			return logconfig.NewApplyError(cfg.ConfigPath,
				fmt.Sprintf("handler %q uses unsupported class %q", name, spec.Class), nil)
		}
		if spec.Class.Builtin() {
			if err := checkSinkParams(spec); err != nil {
				return logconfig.NewApplyError(cfg.ConfigPath, fmt.Sprintf("failed to build handler %q", name), err)
			}
		}
		factories[name] = factory
	}

	handlers := make(map[string]slog.Handler, len(doc.Handlers))
	for _, name := range doc.HandlerNames() {
		spec := doc.Handlers[name]
		factory := factories[name]

		format := formatters[spec.Formatter]
		if format == nil {
			format = defaultFormatter()
		}

		h, closer, ferr := factory(SinkSpec{
			Name:    name,
			Handler: spec,
			Level:   spec.SlogLevel(),
			Format:  format,
			Stdout:  stdout,
			Stderr:  stderr,
		})
		if ferr != nil {
			return logconfig.NewApplyError(cfg.ConfigPath, fmt.Sprintf("failed to build handler %q", name), ferr)
		}
		if closer != nil {
			p.closers = append(p.closers, closer)
			if c, ok := closer.(committer); ok {
				p.pending = append(p.pending, c)
			}
		}
		handlers[name] = h
	}

	for _, name := range doc.LoggerNames() {
		spec := doc.Loggers[name]
		bound := make([]slog.Handler, 0, len(spec.Handlers))
		for _, ref := range spec.Handlers {
			bound = append(bound, handlers[ref])
		}
		p.loggers[name] = newLoggerHandler(name, spec.SlogLevel(), bound)
	}

	return nil
}

// commit runs the deferred steps of every sink, such as truncating files
// opened in truncate mode. It is called once, right before the pipeline
// becomes active.
func (p *pipeline) commit() error {
	for _, c := range p.pending {
		if err := c.commit(); err != nil {
			return logconfig.NewApplyError(p.config.ConfigPath, "failed to activate logging pipeline", err)
		}
	}
	p.pending = nil
	return nil
}

// logger returns the handler bound to name, if the document declares it.
func (p *pipeline) logger(name string) (slog.Handler, bool) {
	if p == nil {
		return nil, false
	}
	h, ok := p.loggers[name]
	return h, ok
}

func (p *pipeline) close() error {
	if p == nil {
		return nil
	}
	var errs []error
	for _, c := range p.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}
