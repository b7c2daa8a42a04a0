package logconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads the document at configPath, validates it and rewrites every
// file-backed handler so its filename lives under logDir.
//
// Both paths are checked before anything is read. The returned configuration
// is complete; on error nothing is returned.
func Load(configPath, logDir string) (*ResolvedConfig, error) {
	if err := checkConfigFile(configPath); err != nil {
		return nil, err
	}
	if err := checkLogDir(configPath, logDir); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, &ConfigurationError{
			FilePath:  configPath,
			ErrorType: ErrorTypeIO,
			Message:   "failed to read logging config",
			Err:       err,
		}
	}

	doc, err := Parse(data)
	if err != nil {
		var ce *ConfigurationError
		if errors.As(err, &ce) {
			ce.FilePath = configPath
		}
		return nil, err
	}

	return &ResolvedConfig{
		Document:   rewriteFilePaths(doc, logDir),
		ConfigPath: configPath,
		LogDir:     logDir,
	}, nil
}

// Parse decodes and validates a document held in memory. Paths are not
// rewritten.
func Parse(data []byte) (Document, error) {
	doc, err := decode(data)
	if err != nil {
		return Document{}, &ConfigurationError{
			ErrorType: ErrorTypeParse,
			Message:   "malformed logging config",
			Err:       err,
			Suggestions: []string{
				"The document must be a mapping with formatters, handlers and loggers sections",
			},
		}
	}

	if verrs := Validate(doc); verrs.HasErrors() {
		return Document{}, &ConfigurationError{
			ErrorType: ErrorTypeValidation,
			Message:   "invalid logging config",
			Details:   verrs.Error(),
			Err:       verrs,
		}
	}
	return doc, nil
}

func decode(data []byte) (Document, error) {
	var doc Document

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return doc, errors.New("document is empty")
		}
		return doc, err
	}
	return doc, nil
}

func checkConfigFile(configPath string) error {
	info, err := os.Stat(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &ConfigurationError{
			FilePath:    configPath,
			ErrorType:   ErrorTypeNotFound,
			Message:     fmt.Sprintf("failed to find the log config file at %s", configPath),
			Suggestions: []string{"Run 'rovers init' to write the default logging config"},
		}
	case err != nil:
		return &ConfigurationError{
			FilePath:  configPath,
			ErrorType: ErrorTypeIO,
			Message:   "failed to stat logging config",
			Err:       err,
		}
	case info.IsDir():
		return &ConfigurationError{
			FilePath:  configPath,
			ErrorType: ErrorTypeNotFound,
			Message:   fmt.Sprintf("%s is a directory, not a log config file", configPath),
		}
	}
	return nil
}

func checkLogDir(configPath, logDir string) error {
	info, err := os.Stat(logDir)
	if err == nil && info.IsDir() {
		return nil
	}
	msg := fmt.Sprintf("the log directory does not exist - %s", logDir)
	if err == nil {
		msg = fmt.Sprintf("the log directory is not a directory - %s", logDir)
	}
	return &ConfigurationError{
		FilePath:    configPath,
		ErrorType:   ErrorTypeDirectory,
		Message:     msg,
		Suggestions: []string{fmt.Sprintf("Create the directory first: mkdir -p %s", logDir)},
	}
}

// rewriteFilePaths returns a copy of doc in which every file-backed handler's
// filename is joined onto logDir. Other handlers are copied as-is.
func rewriteFilePaths(doc Document, logDir string) Document {
	handlers := make(map[string]HandlerSpec, len(doc.Handlers))
	for name, h := range doc.Handlers {
		if h.Class.FileBacked() {
			h.Filename = filepath.Join(logDir, h.Filename)
		}
		handlers[name] = h
	}
	doc.Handlers = handlers
	return doc
}
