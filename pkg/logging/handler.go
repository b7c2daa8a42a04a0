package logging

import (
	"context"
	"errors"
	"log/slog"
)

// multiHandler fans a record out to every handler bound to a logger.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	// Enable if any handler is enabled for this level
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			// Continue with other handlers even if one fails
			if err := h.Handle(ctx, record.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// loggerHandler is one named logger of a pipeline: a minimum level in front
// of the handlers it is bound to.
type loggerHandler struct {
	level slog.Level
	next  slog.Handler
}

func newLoggerHandler(name string, level slog.Level, handlers []slog.Handler) *loggerHandler {
	var next slog.Handler = &multiHandler{handlers: handlers}
	next = next.WithAttrs([]slog.Attr{slog.String(loggerKey, name)})
	return &loggerHandler{level: level, next: next}
}

func (l *loggerHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= l.level && l.next.Enabled(ctx, level)
}

func (l *loggerHandler) Handle(ctx context.Context, record slog.Record) error {
	// Enabled may have been answered by a previous pipeline.
	if record.Level < l.level {
		return nil
	}
	return l.next.Handle(ctx, record)
}

func (l *loggerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &loggerHandler{level: l.level, next: l.next.WithAttrs(attrs)}
}

func (l *loggerHandler) WithGroup(name string) slog.Handler {
	return &loggerHandler{level: l.level, next: l.next.WithGroup(name)}
}

// channelHandler is what callers hold. It resolves the channel against the
// facade's active pipeline on every call, so reconfiguration rebinds every
// outstanding *slog.Logger.
type channelHandler struct {
	facade  *Facade
	channel Channel
	ops     []func(slog.Handler) slog.Handler
}

func (c *channelHandler) resolve(p *pipeline) slog.Handler {
	h := c.facade.handlerFor(p, c.channel)
	for _, op := range c.ops {
		h = op(h)
	}
	return h
}

func (c *channelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	c.facade.mu.RLock()
	defer c.facade.mu.RUnlock()
	return c.resolve(c.facade.active).Enabled(ctx, level)
}

func (c *channelHandler) Handle(ctx context.Context, record slog.Record) error {
	c.facade.mu.RLock()
	defer c.facade.mu.RUnlock()
	h := c.resolve(c.facade.active)
	if !h.Enabled(ctx, record.Level) {
		return nil
	}
	return h.Handle(ctx, record)
}

func (c *channelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return c.with(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (c *channelHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return c
	}
	return c.with(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (c *channelHandler) with(op func(slog.Handler) slog.Handler) *channelHandler {
	ops := make([]func(slog.Handler) slog.Handler, len(c.ops), len(c.ops)+1)
	copy(ops, c.ops)
	return &channelHandler{facade: c.facade, channel: c.channel, ops: append(ops, op)}
}
