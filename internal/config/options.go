// Package config provides configuration types for capture runs.
package config

import (
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDrainGrace is how long a killed run waits for its output streams to
// reach EOF before the buffers are finalized with what was collected.
const DefaultDrainGrace = 2 * time.Second

// CommandSpec describes what to run. It is a value type: the builder methods
// return modified copies and never touch the receiver's slices.
type CommandSpec struct {
	// Argv is the program followed by its arguments.
	// Ignored when Shell is true.
	Argv []string

	// Line is the command line handed to the shell when Shell is true.
	Line string

	// Shell runs Line through the platform shell.
	Shell bool

	// Executable overrides the program that is executed. With Shell it
	// replaces the default shell; otherwise it replaces Argv[0] as the file
	// to execute while Argv[0] is still passed as the process name.
	Executable string

	// Env is the child environment in "KEY=value" form.
	// If nil, the child inherits the current environment.
	Env []string

	// Dir is the working directory of the child.
	// If empty, the child runs in the caller's current directory.
	Dir string
}

// Args returns the command as originally given, for reporting.
func (c CommandSpec) Args() []string {
	if c.Shell {
		return []string{c.Line}
	}

	return slices.Clone(c.Argv)
}

// String renders the command for log and error messages.
func (c CommandSpec) String() string {
	return strings.Join(c.Args(), " ")
}

// WithEnv returns a copy of c with the given environment.
func (c CommandSpec) WithEnv(env ...string) CommandSpec {
	c.Env = slices.Clone(env)

	return c
}

// In returns a copy of c that runs in dir.
func (c CommandSpec) In(dir string) CommandSpec {
	c.Dir = dir

	return c
}

// WithExecutable returns a copy of c that executes path.
func (c CommandSpec) WithExecutable(path string) CommandSpec {
	c.Executable = path

	return c
}

// Clone returns a deep copy of c.
func (c CommandSpec) Clone() CommandSpec {
	c.Argv = slices.Clone(c.Argv)
	c.Env = slices.Clone(c.Env)

	return c
}

// Options configures a single run.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Text decodes captured output into text. Implied by Encoding.
	Text bool

	// Encoding names the text encoding of the child's output and of
	// InputString. If empty, the platform default encoding is used.
	Encoding string

	// Timeout kills the process once it has run this long. Zero means no limit.
	Timeout time.Duration

	// Check turns a non-zero exit status into an ExitStatusError.
	Check bool

	// CaptureOutput suppresses passthrough; output is only captured.
	CaptureOutput bool

	// Input is written to the child's stdin, which is then closed.
	Input []byte

	// InputString is encoded with the run encoding and written to stdin.
	// Mutually exclusive with Input.
	InputString *string

	// Stdin is an external source copied into the child's stdin.
	// Mutually exclusive with Input and InputString.
	Stdin io.Reader

	// Stdout replaces the caller's stdout as the passthrough sink. Sinks
	// always receive raw bytes, never decoded text.
	// Mutually exclusive with CaptureOutput.
	Stdout io.Writer

	// Stderr replaces the caller's stderr as the passthrough sink.
	// Mutually exclusive with CaptureOutput.
	Stderr io.Writer

	// Extras holds launcher-specific settings. Every key must be recognized
	// by the launcher or the run is rejected before spawn.
	Extras map[string]any

	// Launcher starts the process.
	// If nil, the os/exec based launcher is used.
	Launcher Launcher

	// Platform resolves the default shell and encoding.
	// If nil, the host platform is used.
	Platform *Platform

	// Clock drives the timeout and drain timers.
	// If nil, the real clock is used.
	Clock clockwork.Clock

	// DrainGrace bounds the wait for output after a kill.
	// If zero, DefaultDrainGrace is used.
	DrainGrace time.Duration
}

// HasInput reports whether an input payload was configured.
func (o *Options) HasInput() bool {
	return o.Input != nil || o.InputString != nil
}

// IsText reports whether output is decoded into text.
func (o *Options) IsText() bool {
	return o.Text || o.Encoding != ""
}

// Grace returns the configured drain grace period or the default.
func (o *Options) Grace() time.Duration {
	if o.DrainGrace > 0 {
		return o.DrainGrace
	}

	return DefaultDrainGrace
}
