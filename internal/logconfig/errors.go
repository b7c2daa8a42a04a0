package logconfig

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrConfigNotFound is returned when the configuration document does not exist.
	ErrConfigNotFound = errors.New("logging config not found")
	// ErrLogDirectoryMissing is returned when the target log directory does not exist.
	ErrLogDirectoryMissing = errors.New("log directory missing")
	// ErrConfigLoad is returned when the document cannot be read, parsed,
	// validated or applied.
	ErrConfigLoad = errors.New("logging config load failed")
)

// Error types carried by ConfigurationError.
const (
	ErrorTypeNotFound   = "not-found"
	ErrorTypeDirectory  = "directory"
	ErrorTypeIO         = "io"
	ErrorTypeParse      = "parse"
	ErrorTypeValidation = "validation"
	ErrorTypeApply      = "apply"
)

// ConfigurationError represents a structured error that occurs while loading
// or applying a logging configuration.
type ConfigurationError struct {
	FilePath    string   `json:"filePath"`
	ErrorType   string   `json:"errorType"`
	Message     string   `json:"message"`
	Details     string   `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Err         error    `json:"-"`
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	name := filepath.Base(ce.FilePath)
	if ce.FilePath == "" {
		name = "<memory>"
	}
	if ce.Err != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", ce.ErrorType, name, ce.Message, ce.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", ce.ErrorType, name, ce.Message)
}

// Unwrap returns the underlying cause, if any.
func (ce *ConfigurationError) Unwrap() error {
	return ce.Err
}

// Is maps the error type onto the package sentinels so callers can use errors.Is.
func (ce *ConfigurationError) Is(target error) bool {
	switch target {
	case ErrConfigNotFound:
		return ce.ErrorType == ErrorTypeNotFound
	case ErrLogDirectoryMissing:
		return ce.ErrorType == ErrorTypeDirectory
	case ErrConfigLoad:
		switch ce.ErrorType {
		case ErrorTypeIO, ErrorTypeParse, ErrorTypeValidation, ErrorTypeApply:
			return true
		}
	}
	return false
}

// DetailedError returns a detailed error message with all context
func (ce *ConfigurationError) DetailedError() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Logging configuration error: %s", ce.Message))
	if ce.FilePath != "" {
		parts = append(parts, fmt.Sprintf("  File: %s", ce.FilePath))
	}
	parts = append(parts, fmt.Sprintf("  Type: %s", ce.ErrorType))

	if ce.Err != nil {
		parts = append(parts, fmt.Sprintf("  Cause: %v", ce.Err))
	}
	if ce.Details != "" {
		parts = append(parts, fmt.Sprintf("  Details: %s", ce.Details))
	}

	if len(ce.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, suggestion := range ce.Suggestions {
			parts = append(parts, fmt.Sprintf("    - %s", suggestion))
		}
	}

	return strings.Join(parts, "\n")
}

// NewApplyError wraps a failure that happened while turning a resolved
// configuration into a running pipeline.
func NewApplyError(filePath, message string, err error) *ConfigurationError {
	return &ConfigurationError{
		FilePath:  filePath,
		ErrorType: ErrorTypeApply,
		Message:   message,
		Err:       err,
	}
}

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, format string, args ...interface{}) {
	*ve = append(*ve, ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}
