package capture

import "github.com/wagiedev/capture-go/internal/errors"

// Re-export error types from internal package

// ConfigError indicates the run configuration was rejected before spawning.
type ConfigError = errors.ConfigError

// ExecutableNotFoundError indicates the program could not be located.
type ExecutableNotFoundError = errors.ExecutableNotFoundError

// LaunchError indicates the process could not be started.
type LaunchError = errors.LaunchError

// TimeoutError indicates the process was killed after its timeout.
type TimeoutError = errors.TimeoutError

// InterruptedError indicates the process was killed because the context ended.
type InterruptedError = errors.InterruptedError

// ExitStatusError indicates a checked run exited with a non-zero status.
type ExitStatusError = errors.ExitStatusError

// DecodeError indicates captured output could not be decoded.
type DecodeError = errors.DecodeError

// CaptureError is the base interface for all capture errors.
type CaptureError = errors.CaptureError

// Re-export sentinel errors from internal package.
var (
	// ErrEmptyCommand indicates the command has no program to run.
	ErrEmptyCommand = errors.ErrEmptyCommand

	// ErrUnknownEncoding indicates the requested text encoding is not supported.
	ErrUnknownEncoding = errors.ErrUnknownEncoding

	// ErrUnsupportedExtra indicates a launcher extra the launcher does not recognize.
	ErrUnsupportedExtra = errors.ErrUnsupportedExtra
)
