package logging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrDecode is matched by errors returned when captured output is not 7-bit
// ASCII.
var ErrDecode = errors.New("output is not ASCII")

// DecodeError reports the first byte of a stream that is not 7-bit ASCII.
type DecodeError struct {
	Stream string
	Offset int
	Byte   byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid byte 0x%02x at offset %d: %v", e.Stream, e.Byte, e.Offset, ErrDecode)
}

// Is allows errors.Is(err, ErrDecode).
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// CommandResult is what a finished subprocess left behind.
type CommandResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// CommandResult logs res on the main channel: the exit code at INFO, stdout
// at DEBUG and stderr at ERROR, each stream only when non-empty.
//
// Both streams are checked before anything is logged, so a DecodeError means
// nothing was emitted.
func (f *Facade) CommandResult(res CommandResult) error {
	stdout, err := decodeASCII("stdout", res.Stdout)
	if err != nil {
		return err
	}
	stderr, err := decodeASCII("stderr", res.Stderr)
	if err != nil {
		return err
	}

	f.log(ChannelMain, LevelInfo, "The command returned %d, logging stdout and stderr...", res.ExitCode)
	if stdout != "" {
		f.log(ChannelMain, LevelDebug, "%s", stdout)
	}
	if stderr != "" {
		f.log(ChannelMain, LevelError, "%s", stderr)
	}
	return nil
}

// Run executes name with args, waits for it and logs the result with
// CommandResult. A non-zero exit is not an error; failing to start is, and
// nothing is logged in that case.
func (f *Facade) Run(ctx context.Context, name string, args ...string) (CommandResult, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	var res CommandResult
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, fmt.Errorf("failed to run %s: %w", name, err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()

	return res, f.CommandResult(res)
}

func decodeASCII(stream string, b []byte) (string, error) {
	for i, c := range b {
		if c > 0x7f {
			return "", &DecodeError{Stream: stream, Offset: i, Byte: c}
		}
	}
	return string(b), nil
}
