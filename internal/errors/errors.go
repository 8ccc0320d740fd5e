package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CaptureError is the base interface for all capture errors.
type CaptureError interface {
	error
	IsCaptureError() bool
}

// Compile-time verification that all error types implement CaptureError.
var (
	_ CaptureError = (*ConfigError)(nil)
	_ CaptureError = (*ExecutableNotFoundError)(nil)
	_ CaptureError = (*LaunchError)(nil)
	_ CaptureError = (*TimeoutError)(nil)
	_ CaptureError = (*InterruptedError)(nil)
	_ CaptureError = (*ExitStatusError)(nil)
	_ CaptureError = (*DecodeError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrEmptyCommand indicates the command has no program to run.
	ErrEmptyCommand = errors.New("empty command")

	// ErrUnknownEncoding indicates the requested text encoding is not supported.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrUnsupportedExtra indicates a launcher extra the launcher does not recognize.
	ErrUnsupportedExtra = errors.New("unsupported launcher extra")
)

// ConfigError indicates the run configuration was rejected before any process
// was spawned. Option and Conflict name the offending option pair; Conflict is
// empty when a single option is invalid on its own.
type ConfigError struct {
	Option   string
	Conflict string
	Reason   string
	Err      error
}

func (e *ConfigError) Error() string {
	var b strings.Builder

	b.WriteString("invalid configuration: ")

	if e.Conflict != "" {
		fmt.Fprintf(&b, "%s and %s may not both be used", e.Option, e.Conflict)
	} else {
		fmt.Fprintf(&b, "%s", e.Option)
	}

	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsCaptureError implements CaptureError.
func (e *ConfigError) IsCaptureError() bool { return true }

// ExecutableNotFoundError indicates the program could not be located.
type ExecutableNotFoundError struct {
	Name          string
	SearchedPaths []string
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("executable %q not found in: %v", e.Name, e.SearchedPaths)
}

// IsCaptureError implements CaptureError.
func (e *ExecutableNotFoundError) IsCaptureError() bool { return true }

// LaunchError indicates the process could not be started.
type LaunchError struct {
	Args []string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to start %q: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// IsCaptureError implements CaptureError.
func (e *LaunchError) IsCaptureError() bool { return true }

// TimeoutError indicates the process outlived its deadline and was killed.
// Stdout and Stderr hold everything captured before termination.
type TimeoutError struct {
	Args    []string
	Timeout time.Duration
	Pid     int
	Stdout  []byte
	Stderr  []byte
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %s", strings.Join(e.Args, " "), e.Timeout)
}

// IsCaptureError implements CaptureError.
func (e *TimeoutError) IsCaptureError() bool { return true }

// InterruptedError indicates the run's context ended before the process did.
// The process was killed; Stdout and Stderr hold the partial output.
type InterruptedError struct {
	Args   []string
	Pid    int
	Stdout []byte
	Stderr []byte
	Err    error
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("command %q interrupted: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *InterruptedError) Unwrap() error {
	return e.Err
}

// IsCaptureError implements CaptureError.
func (e *InterruptedError) IsCaptureError() bool { return true }

// ExitStatusError indicates a checked run exited with a non-zero status.
// A negative ReturnCode -N means the process was terminated by signal N.
type ExitStatusError struct {
	Args       []string
	ReturnCode int
	Stdout     []byte
	Stderr     []byte
}

func (e *ExitStatusError) Error() string {
	if e.ReturnCode < 0 {
		return fmt.Sprintf("command %q died with signal %d", strings.Join(e.Args, " "), -e.ReturnCode)
	}

	return fmt.Sprintf("command %q returned non-zero exit status %d", strings.Join(e.Args, " "), e.ReturnCode)
}

// IsCaptureError implements CaptureError.
func (e *ExitStatusError) IsCaptureError() bool { return true }

// DecodeError indicates a stream contained bytes the configured encoding could
// not decode. Start and End are absolute byte offsets in the stream. Partial is
// the stream's text buffer right after the failing unit was appended (with the
// lossy fallback); Stdout and Stderr are the complete final buffers.
type DecodeError struct {
	Stream   string
	Encoding string
	Start    int64
	End      int64
	Reason   string
	Partial  []byte
	Stdout   []byte
	Stderr   []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %q codec can't decode bytes in position %d-%d: %s",
		e.Stream, e.Encoding, e.Start, e.End-1, e.Reason)
}

// IsCaptureError implements CaptureError.
func (e *DecodeError) IsCaptureError() bool { return true }
