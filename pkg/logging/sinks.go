package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
	"gopkg.in/natefinch/lumberjack.v2"

	"rovers/internal/logconfig"
)

// SinkSpec is everything a SinkFactory needs to build one handler entry.
type SinkSpec struct {
	Name    string
	Handler logconfig.HandlerSpec
	Level   slog.Level
	Format  *Formatter
	Stdout  io.Writer
	Stderr  io.Writer
}

// HandlerOptions returns the options for a writer-backed handler at the
// configured level.
func (s SinkSpec) HandlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{Level: s.Level}
}

// SinkFactory builds the handler for one entry of the handlers section. The
// returned closer may be nil. Factories are called while a pipeline is being
// built; a returned error aborts the whole build.
type SinkFactory func(spec SinkSpec) (slog.Handler, io.Closer, error)

var builtinSinks = map[logconfig.SinkKind]SinkFactory{
	logconfig.KindFile:           newFileSink,
	logconfig.KindRestrictedFile: newRestrictedFileSink,
	logconfig.KindVerboseFile:    newVerboseFileSink,
	logconfig.KindConsole:        newConsoleSink,
	logconfig.KindJournal:        newJournalSink,
	logconfig.KindNull:           newNullSink,
}

// committer is implemented by closers that defer a destructive step until
// the pipeline that owns them is about to become active.
type committer interface {
	commit() error
}

// logFile is a file opened by a file-backed sink. Truncation is deferred to
// commit so a build that fails later leaves the file untouched.
type logFile struct {
	*os.File
	truncate bool
}

func (f *logFile) commit() error {
	if !f.truncate {
		return nil
	}
	if err := f.Truncate(0); err != nil {
		return err
	}
	_, err := f.Seek(0, io.SeekStart)
	return err
}

func fileMode(h logconfig.HandlerSpec) (truncate bool, err error) {
	switch mode := h.StringParam("mode", "append"); mode {
	case "append", "a":
		return false, nil
	case "truncate", "w":
		return true, nil
	default:
		return false, fmt.Errorf("unknown file mode %q", mode)
	}
}

func openLogFile(h logconfig.HandlerSpec) (*logFile, error) {
	truncate, err := fileMode(h)
	if err != nil {
		return nil, err
	}
	flags := os.O_CREATE | os.O_WRONLY
	if !truncate {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(h.Filename, flags, 0644)
	if err != nil {
		return nil, err
	}
	return &logFile{File: f, truncate: truncate}, nil
}

// checkSinkParams rejects builtin handler parameters that would make the
// factory fail, without opening anything.
func checkSinkParams(h logconfig.HandlerSpec) error {
	switch h.Class {
	case logconfig.KindFile, logconfig.KindVerboseFile:
		_, err := fileMode(h)
		return err
	case logconfig.KindRestrictedFile:
		if maxSize := h.IntParam("max_size", 1); maxSize <= 0 {
			return fmt.Errorf("max_size must be positive, got %d", maxSize)
		}
	case logconfig.KindConsole:
		if _, err := consoleWriter(h, io.Discard, io.Discard); err != nil {
			return err
		}
	}
	return nil
}

func newFileSink(spec SinkSpec) (slog.Handler, io.Closer, error) {
	f, err := openLogFile(spec.Handler)
	if err != nil {
		return nil, nil, err
	}
	return spec.Format.Handler(f, spec.HandlerOptions()), f, nil
}

// newVerboseFileSink writes everything down to DEBUG and records the source
// location of each call.
func newVerboseFileSink(spec SinkSpec) (slog.Handler, io.Closer, error) {
	f, err := openLogFile(spec.Handler)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true}
	return spec.Format.Handler(f, opts), f, nil
}

// newRestrictedFileSink caps the file at max_size megabytes, keeping
// max_backups old files.
func newRestrictedFileSink(spec SinkSpec) (slog.Handler, io.Closer, error) {
	h := spec.Handler
	maxSize := h.IntParam("max_size", 1)
	if maxSize <= 0 {
		return nil, nil, fmt.Errorf("max_size must be positive, got %d", maxSize)
	}
	w := &lumberjack.Logger{
		Filename:   h.Filename,
		MaxSize:    maxSize, // megabytes
		MaxBackups: h.IntParam("max_backups", 1),
		MaxAge:     h.IntParam("max_age", 0), // days
		Compress:   h.BoolParam("compress", false),
		LocalTime:  true,
	}
	return spec.Format.Handler(w, spec.HandlerOptions()), w, nil
}

func consoleWriter(h logconfig.HandlerSpec, stdout, stderr io.Writer) (io.Writer, error) {
	switch stream := h.StringParam("stream", "stderr"); stream {
	case "stderr":
		return stderr, nil
	case "stdout":
		return stdout, nil
	default:
		return nil, fmt.Errorf("unknown console stream %q", stream)
	}
}

func newConsoleSink(spec SinkSpec) (slog.Handler, io.Closer, error) {
	w, err := consoleWriter(spec.Handler, spec.Stdout, spec.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return spec.Format.Handler(w, spec.HandlerOptions()), nil, nil
}

func newNullSink(SinkSpec) (slog.Handler, io.Closer, error) {
	return slog.DiscardHandler, nil, nil
}

func newJournalSink(spec SinkSpec) (slog.Handler, io.Closer, error) {
	if !journal.Enabled() {
		return nil, nil, errors.New("systemd journal is not available")
	}
	return &journalHandler{
		identifier: spec.Handler.StringParam("identifier", "rovers"),
		level:      spec.Level,
		attrs:      map[string]string{},
	}, nil, nil
}

// journalHandler sends each record to the systemd journal with its attributes
// as journal fields.
type journalHandler struct {
	identifier string
	level      slog.Level
	attrs      map[string]string
	prefix     string
}

func (j *journalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= j.level
}

func (j *journalHandler) Handle(_ context.Context, r slog.Record) error {
	vars := make(map[string]string, len(j.attrs)+r.NumAttrs()+1)
	for k, v := range j.attrs {
		vars[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		addJournalField(vars, j.prefix, a)
		return true
	})
	vars["SYSLOG_IDENTIFIER"] = j.identifier
	return journal.Send(r.Message, journalPriority(r.Level), vars)
}

func (j *journalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *j
	c.attrs = make(map[string]string, len(j.attrs)+len(attrs))
	for k, v := range j.attrs {
		c.attrs[k] = v
	}
	for _, a := range attrs {
		addJournalField(c.attrs, j.prefix, a)
	}
	return &c
}

func (j *journalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return j
	}
	c := *j
	c.prefix = j.prefix + name + "_"
	return &c
}

func journalPriority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

func addJournalField(vars map[string]string, prefix string, a slog.Attr) {
	m := map[string]any{}
	addAttr(m, "", a)
	for k, v := range m {
		vars[journalFieldName(prefix+k)] = fmt.Sprint(v)
	}
}

// journalFieldName maps an attribute key onto the journal's field name
// alphabet: upper-case letters, digits and underscores, not starting with one.
func journalFieldName(key string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, key)
	return "ROVERS_" + strings.TrimLeft(name, "_")
}
