package logconfig

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError_Is(t *testing.T) {
	tests := []struct {
		errorType string
		matches   error
	}{
		{ErrorTypeNotFound, ErrConfigNotFound},
		{ErrorTypeDirectory, ErrLogDirectoryMissing},
		{ErrorTypeIO, ErrConfigLoad},
		{ErrorTypeParse, ErrConfigLoad},
		{ErrorTypeValidation, ErrConfigLoad},
		{ErrorTypeApply, ErrConfigLoad},
	}

	all := []error{ErrConfigNotFound, ErrLogDirectoryMissing, ErrConfigLoad}
	for _, tt := range tests {
		t.Run(tt.errorType, func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &ConfigurationError{ErrorType: tt.errorType, Message: "boom"})
			for _, sentinel := range all {
				assert.Equal(t, sentinel == tt.matches, errors.Is(err, sentinel), "sentinel %v", sentinel)
			}
		})
	}
}

func TestConfigurationError_Messages(t *testing.T) {
	cause := errors.New("permission denied")
	ce := &ConfigurationError{
		FilePath:    "/opt/rovers/assets/common_logger/config.yaml",
		ErrorType:   ErrorTypeIO,
		Message:     "failed to read logging config",
		Details:     "while starting",
		Suggestions: []string{"check permissions"},
		Err:         cause,
	}

	assert.Equal(t, "[io] config.yaml: failed to read logging config: permission denied", ce.Error())
	assert.ErrorIs(t, ce, cause)

	detailed := ce.DetailedError()
	assert.Contains(t, detailed, "File: /opt/rovers/assets/common_logger/config.yaml")
	assert.Contains(t, detailed, "Cause: permission denied")
	assert.Contains(t, detailed, "Details: while starting")
	assert.Contains(t, detailed, "- check permissions")

	inMemory := &ConfigurationError{ErrorType: ErrorTypeParse, Message: "bad"}
	assert.Equal(t, "[parse] <memory>: bad", inMemory.Error())
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.False(t, errs.HasErrors())
	assert.Equal(t, "no validation errors", errs.Error())

	errs.Add("loggers.main.level", "unknown level %q", "LOUD")
	assert.Equal(t, `field 'loggers.main.level': unknown level "LOUD"`, errs.Error())

	errs.Add("", "second")
	assert.Equal(t, `validation failed: field 'loggers.main.level': unknown level "LOUD"; second`, errs.Error())
}
