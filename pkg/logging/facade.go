package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"rovers/internal/layout"
	"rovers/internal/logconfig"
)

// hardwareSeparator joins the values passed to Hardware.
const hardwareSeparator = " | "

// Options configures a Facade.
type Options struct {
	// ConfigPath and LogDir are the defaults used by New and by Reconfigure
	// calls with empty arguments. Empty values fall back to layout.Default().
	ConfigPath string
	LogDir     string

	// Sinks registers additional handler classes. Builtin classes cannot be
	// overridden.
	Sinks map[logconfig.SinkKind]SinkFactory

	// Stdout and Stderr back the console sink and the last-resort handler.
	// They default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Facade owns the active logging pipeline of a process and the fixed set of
// channels built on top of it.
//
// A Facade is constructed once at startup and handed to every component that
// logs. Emission methods are safe for concurrent use; Reconfigure swaps the
// whole pipeline atomically with respect to them.
type Facade struct {
	// reconfigMu serialises Reconfigure calls.
	reconfigMu sync.Mutex

	// mu guards active. Emission holds the read lock for the whole write so a
	// retired pipeline is never written to after it is closed.
	mu     sync.RWMutex
	active *pipeline

	configPath string
	logDir     string
	sinks      map[logconfig.SinkKind]SinkFactory
	stdout     io.Writer
	stderr     io.Writer
	fallback   slog.Handler

	loggers [channelCount]*slog.Logger
}

// New loads the configuration at opts.ConfigPath into opts.LogDir and installs
// it. A failure here leaves no usable facade and should stop the process.
func New(opts Options) (*Facade, error) {
	defaults := layout.Default()
	if opts.ConfigPath == "" {
		opts.ConfigPath = defaults.ConfigPath()
	}
	if opts.LogDir == "" {
		opts.LogDir = defaults.LogDir()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	f := &Facade{
		configPath: opts.ConfigPath,
		logDir:     opts.LogDir,
		sinks:      make(map[logconfig.SinkKind]SinkFactory, len(builtinSinks)+len(opts.Sinks)),
		stdout:     opts.Stdout,
		stderr:     opts.Stderr,
	}
	for kind, factory := range opts.Sinks {
		f.sinks[kind] = factory
	}
	for kind, factory := range builtinSinks {
		f.sinks[kind] = factory
	}
	f.fallback = slog.NewTextHandler(opts.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	for _, ch := range Channels {
		f.loggers[ch] = slog.New(&channelHandler{facade: f, channel: ch})
	}

	if err := f.Reconfigure("", ""); err != nil {
		return nil, err
	}
	return f, nil
}

// Reconfigure loads configPath into logDir and replaces the active pipeline
// with the result. Empty arguments select the defaults given to New.
//
// On failure the error from loading or building is returned unchanged and
// the previous pipeline keeps serving every channel.
func (f *Facade) Reconfigure(configPath, logDir string) error {
	if configPath == "" {
		configPath = f.configPath
	}
	if logDir == "" {
		logDir = f.logDir
	}

	f.reconfigMu.Lock()
	defer f.reconfigMu.Unlock()

	cfg, err := logconfig.Load(configPath, logDir)
	if err != nil {
		return err
	}
	next, err := buildPipeline(cfg, f.sinks, f.stdout, f.stderr)
	if err != nil {
		return err
	}

	f.mu.Lock()
	if err := next.commit(); err != nil {
		f.mu.Unlock()
		_ = next.close()
		return err
	}
	prev := f.active
	f.active = next
	f.mu.Unlock()

	if err := prev.close(); err != nil {
		f.Warning("Failed to close previous logging pipeline %s: %v", prev.id, err)
	}
	f.Debug("Logging configured from %s into %s (pipeline %s)", configPath, logDir, next.id)
	return nil
}

// Close closes every sink of the active pipeline. Records emitted afterwards
// go to the last-resort handler.
func (f *Facade) Close() error {
	f.reconfigMu.Lock()
	defer f.reconfigMu.Unlock()

	f.mu.Lock()
	prev := f.active
	f.active = nil
	f.mu.Unlock()

	return prev.close()
}

// Logger returns an slog.Logger for ch. The logger follows reconfiguration:
// it always writes through the currently active pipeline.
func (f *Facade) Logger(ch Channel) *slog.Logger {
	if ch < 0 || ch >= channelCount {
		return slog.New(&channelHandler{facade: f, channel: ch})
	}
	return f.loggers[ch]
}

// Document returns a copy of the active configuration document.
func (f *Facade) Document() logconfig.Document {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.active == nil {
		return logconfig.Document{}
	}
	return f.active.config.Document.Clone()
}

// PipelineID identifies the active pipeline. It changes on every successful
// Reconfigure.
func (f *Facade) PipelineID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.active == nil {
		return ""
	}
	return f.active.id
}

// handlerFor resolves ch against p. Channels the document does not declare
// use the last-resort handler. Callers hold f.mu.
func (f *Facade) handlerFor(p *pipeline, ch Channel) slog.Handler {
	if h, ok := p.logger(ch.String()); ok {
		return h
	}
	return f.fallback.WithAttrs([]slog.Attr{slog.String(loggerKey, ch.String())})
}

// Debug logs a debug message on the main channel.
func (f *Facade) Debug(messageFmt string, args ...interface{}) {
	f.log(ChannelMain, LevelDebug, messageFmt, args...)
}

// Info logs an informational message on the main channel.
func (f *Facade) Info(messageFmt string, args ...interface{}) {
	f.log(ChannelMain, LevelInfo, messageFmt, args...)
}

// Warning logs a warning message on the main channel.
func (f *Facade) Warning(messageFmt string, args ...interface{}) {
	f.log(ChannelMain, LevelWarn, messageFmt, args...)
}

// Error logs an error message on the main channel.
func (f *Facade) Error(messageFmt string, args ...interface{}) {
	f.log(ChannelMain, LevelError, messageFmt, args...)
}

// Log logs a message on any channel at any level.
func (f *Facade) Log(ch Channel, level LogLevel, messageFmt string, args ...interface{}) {
	f.log(ch, level, messageFmt, args...)
}

// Hardware logs the values joined by " | " at INFO on the hardware channel.
// No values produce an empty message.
func (f *Facade) Hardware(values ...interface{}) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	f.log(ChannelHardware, LevelInfo, "%s", strings.Join(parts, hardwareSeparator))
}

// log must be called directly by an exported method so the recorded source
// location is that method's caller. Without args messageFmt is used verbatim.
func (f *Facade) log(ch Channel, level LogLevel, messageFmt string, args ...interface{}) {
	ctx := context.Background()
	h := f.Logger(ch).Handler()
	if !h.Enabled(ctx, level.SlogLevel()) {
		return
	}

	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip [Callers, log, exported method]
	r := slog.NewRecord(time.Now(), level.SlogLevel(), msg, pcs[0])
	_ = h.Handle(ctx, r)
}
