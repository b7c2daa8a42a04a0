package logconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
formatters:
  standard:
    format: "{{ .Level }} {{ .Message }}"
handlers:
  console:
    class: console
    level: INFO
    formatter: standard
    stream: stdout
    filename: not-rewritten.log
  main_file:
    class: file
    formatter: standard
    filename: main.log
  sized:
    class: restricted-file
    filename: sub/hardware.log
    max_size: 2
  verbose:
    class: verbose-file
    filename: /debug.log
  custom:
    class: acme-socket
    filename: custom.log
    address: "127.0.0.1:9000"
loggers:
  main:
    level: DEBUG
    handlers: [console, main_file, verbose]
  hardware:
    level: INFO
    handlers: [sized, custom]
`

// writeConfig writes content to a config file in dir and returns its path.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_RewritesFileBackedHandlers(t *testing.T) {
	configDir := t.TempDir()
	logDir := t.TempDir()
	path := writeConfig(t, configDir, sampleConfig)

	cfg, err := Load(path, logDir)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigPath)
	assert.Equal(t, logDir, cfg.LogDir)

	handlers := cfg.Document.Handlers
	assert.Equal(t, filepath.Join(logDir, "main.log"), handlers["main_file"].Filename)
	assert.Equal(t, filepath.Join(logDir, "sub", "hardware.log"), handlers["sized"].Filename)
	// Absolute names are still treated as leaves of the log directory.
	assert.Equal(t, filepath.Join(logDir, "debug.log"), handlers["verbose"].Filename)
}

func TestLoad_PassesThroughOtherHandlers(t *testing.T) {
	configDir := t.TempDir()
	logDir := t.TempDir()
	path := writeConfig(t, configDir, sampleConfig)

	original, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	cfg, err := Load(path, logDir)
	require.NoError(t, err)

	for _, name := range []string{"console", "custom"} {
		if diff := cmp.Diff(original.Handlers[name], cfg.Document.Handlers[name]); diff != "" {
			t.Errorf("handler %s changed (-want +got):\n%s", name, diff)
		}
	}
	assert.Equal(t, "127.0.0.1:9000", cfg.Document.Handlers["custom"].StringParam("address", ""))
	assert.Equal(t, 2, cfg.Document.Handlers["sized"].IntParam("max_size", 0))
}

func TestLoad_AcceptsJSON(t *testing.T) {
	configDir := t.TempDir()
	logDir := t.TempDir()
	path := writeConfig(t, configDir, `{
  "formatters": {"plain": {"style": "text"}},
  "handlers": {"f": {"class": "file", "filename": "a.log", "formatter": "plain"}},
  "loggers": {"main": {"handlers": ["f"]}}
}`)

	cfg, err := Load(path, logDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(logDir, "a.log"), cfg.Document.Handlers["f"].Filename)
}

func TestLoad_Preconditions(t *testing.T) {
	configDir := t.TempDir()
	logDir := t.TempDir()
	valid := writeConfig(t, configDir, sampleConfig)

	notADir := filepath.Join(configDir, "plain-file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0644))

	tests := []struct {
		name       string
		configPath string
		logDir     string
		want       error
	}{
		{
			name:       "missing config",
			configPath: filepath.Join(configDir, "missing.yaml"),
			logDir:     logDir,
			want:       ErrConfigNotFound,
		},
		{
			name:       "config is a directory",
			configPath: configDir,
			logDir:     logDir,
			want:       ErrConfigNotFound,
		},
		{
			name:       "missing log directory",
			configPath: valid,
			logDir:     filepath.Join(logDir, "nope"),
			want:       ErrLogDirectoryMissing,
		},
		{
			name:       "log directory is a file",
			configPath: valid,
			logDir:     notADir,
			want:       ErrLogDirectoryMissing,
		},
		{
			name:       "config checked before directory",
			configPath: filepath.Join(configDir, "missing.yaml"),
			logDir:     filepath.Join(logDir, "nope"),
			want:       ErrConfigNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.configPath, tt.logDir)
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, ErrConfigLoad)

			var ce *ConfigurationError
			require.True(t, errors.As(err, &ce))
			assert.NotEmpty(t, ce.DetailedError())
		})
	}
}

func TestLoad_StructuralFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errType string
	}{
		{
			name:    "empty document",
			content: "",
			errType: ErrorTypeParse,
		},
		{
			name:    "malformed yaml",
			content: "formatters: [unterminated",
			errType: ErrorTypeParse,
		},
		{
			name:    "handlers is not a mapping",
			content: "formatters: {}\nhandlers: [a, b]\nloggers: {}\n",
			errType: ErrorTypeParse,
		},
		{
			name:    "unknown top-level key",
			content: "formatters: {}\nhandlers: {}\nloggers: {}\nversion: 1\n",
			errType: ErrorTypeParse,
		},
		{
			name:    "unknown logger key",
			content: "formatters: {}\nhandlers: {}\nloggers:\n  main:\n    propagate: true\n",
			errType: ErrorTypeParse,
		},
		{
			name:    "missing loggers section",
			content: "formatters: {}\nhandlers: {}\n",
			errType: ErrorTypeValidation,
		},
		{
			name:    "logger references unknown handler",
			content: "formatters: {}\nhandlers:\n  f:\n    class: file\n    filename: a.log\nloggers:\n  main:\n    handlers: [f, ghost]\n",
			errType: ErrorTypeValidation,
		},
		{
			name:    "handler references unknown formatter",
			content: "formatters: {}\nhandlers:\n  c:\n    class: console\n    formatter: fancy\nloggers: {}\n",
			errType: ErrorTypeValidation,
		},
		{
			name:    "unknown level",
			content: "formatters: {}\nhandlers:\n  c:\n    class: console\n    level: LOUD\nloggers: {}\n",
			errType: ErrorTypeValidation,
		},
		{
			name:    "file handler without filename",
			content: "formatters: {}\nhandlers:\n  f:\n    class: file\nloggers: {}\n",
			errType: ErrorTypeValidation,
		},
		{
			name:    "file handler escapes the log directory",
			content: "formatters: {}\nhandlers:\n  f:\n    class: file\n    filename: ../../etc/escape.log\nloggers: {}\n",
			errType: ErrorTypeValidation,
		},
		{
			name:    "absolute file handler escapes the log directory",
			content: "formatters: {}\nhandlers:\n  f:\n    class: restricted-file\n    filename: /logs/../../escape.log\nloggers: {}\n",
			errType: ErrorTypeValidation,
		},
		{
			name:    "handler without class",
			content: "formatters: {}\nhandlers:\n  f:\n    filename: a.log\nloggers: {}\n",
			errType: ErrorTypeValidation,
		},
		{
			name:    "template formatter without format",
			content: "formatters:\n  t:\n    style: template\nhandlers: {}\nloggers: {}\n",
			errType: ErrorTypeValidation,
		},
		{
			name:    "unknown formatter style",
			content: "formatters:\n  t:\n    style: xml\nhandlers: {}\nloggers: {}\n",
			errType: ErrorTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)

			cfg, err := Load(path, t.TempDir())
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigLoad)

			var ce *ConfigurationError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.errType, ce.ErrorType)
			assert.Equal(t, path, ce.FilePath)
		})
	}
}

func TestLoad_UnknownHandlerRejectedBeforeRewrite(t *testing.T) {
	content := "formatters: {}\nhandlers:\n  f:\n    class: file\n    filename: a.log\nloggers:\n  main:\n    handlers: [missing]\n"
	path := writeConfig(t, t.TempDir(), content)

	_, err := Load(path, t.TempDir())
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "loggers.main.handlers[0]", verrs[0].Field)
	assert.Contains(t, verrs[0].Message, `"missing"`)
}

func TestValidate_FilenameStaysInLogDir(t *testing.T) {
	tests := []struct {
		filename string
		ok       bool
	}{
		{"main.log", true},
		{"sub/hardware.log", true},
		{"/debug.log", true},
		{"sub/../main.log", true},
		{"../main.log", false},
		{"sub/../../main.log", false},
		{"/../main.log", false},
		{"..", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			doc := Document{
				Formatters: map[string]FormatterSpec{},
				Handlers:   map[string]HandlerSpec{"f": {Class: KindFile, Filename: tt.filename}},
				Loggers:    map[string]LoggerSpec{},
			}
			errs := Validate(doc)
			if tt.ok {
				assert.False(t, errs.HasErrors(), errs.Error())
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, "handlers.f.filename", errs[0].Field)
		})
	}
}

func TestLoad_Idempotent(t *testing.T) {
	path := writeConfig(t, t.TempDir(), sampleConfig)
	logDir := t.TempDir()

	first, err := Load(path, logDir)
	require.NoError(t, err)
	second, err := Load(path, logDir)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Load() not idempotent (-first +second):\n%s", diff)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	doc := Document{
		Formatters: map[string]FormatterSpec{},
		Handlers: map[string]HandlerSpec{
			"a": {Class: KindFile, Level: "nope"},
		},
		Loggers: map[string]LoggerSpec{
			"main": {Handlers: []string{"a", "b"}},
		},
	}

	errs := Validate(doc)
	require.Len(t, errs, 3)
	assert.Equal(t, "handlers.a.filename", errs[0].Field)
	assert.Equal(t, "handlers.a.level", errs[1].Field)
	assert.Equal(t, "loggers.main.handlers[1]", errs[2].Field)
	assert.Contains(t, errs.Error(), "validation failed")
}

func TestParseLevel(t *testing.T) {
	for _, in := range []string{"", "debug", "DEBUG"} {
		lvl, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, "DEBUG", lvl.String())
	}
	for _, in := range []string{"warn", "Warning"} {
		lvl, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, "WARN", lvl.String())
	}
	_, err := ParseLevel("critical")
	assert.Error(t, err)
}

func TestSinkKind_FileBacked(t *testing.T) {
	for _, k := range FileBackedKinds() {
		assert.True(t, k.FileBacked(), k)
		assert.True(t, k.Builtin(), k)
	}
	for _, k := range []SinkKind{KindConsole, KindJournal, KindNull, "logging.FileHandler", "FILE", ""} {
		assert.False(t, k.FileBacked(), k)
	}
	assert.False(t, SinkKind("acme-socket").Builtin())
}

func TestEmbeddedDefault(t *testing.T) {
	doc, err := Parse(DefaultDocument())
	require.NoError(t, err, "embedded default config is invalid")

	assert.Contains(t, doc.Loggers, "main")
	assert.Contains(t, doc.Loggers, "hardware")
	for _, name := range doc.HandlerNames() {
		h := doc.Handlers[name]
		assert.True(t, h.Class.Builtin(), "default handler %s uses non-builtin kind %s", name, h.Class)
		if h.Class.FileBacked() {
			assert.False(t, filepath.IsAbs(h.Filename), "default handler %s must use a relative filename", name)
		}
	}
}

func TestDocumentClone(t *testing.T) {
	doc, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	clone := doc.Clone()
	if diff := cmp.Diff(doc, clone); diff != "" {
		t.Fatalf("Clone() mismatch (-want +got):\n%s", diff)
	}

	clone.Handlers["custom"].Params["address"] = "changed"
	clone.Loggers["main"].Handlers[0] = "changed"
	assert.Equal(t, "127.0.0.1:9000", doc.Handlers["custom"].Params["address"])
	assert.Equal(t, "console", doc.Loggers["main"].Handlers[0])
}
