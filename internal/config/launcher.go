package config

import (
	"context"
	"io"
)

// Command is a fully resolved command ready to be launched.
type Command struct {
	// Path is the file to execute. If it contains no path separator it is
	// looked up by the launcher.
	Path string

	// Argv holds the process arguments, including the process name in Argv[0].
	Argv []string

	// Env is the child environment; nil inherits the current one.
	Env []string

	// Dir is the working directory of the child.
	Dir string

	// Extras carries launcher-specific settings already accepted by
	// ValidateExtras.
	Extras map[string]any
}

// Launcher starts processes with three independent pipes.
// Implement this to run commands somewhere other than the local host, or to
// stub process creation in tests.
//
// The default implementation is the os/exec based launcher in the
// subprocess package.
type Launcher interface {
	// Launch starts cmd and returns a handle to the running process.
	// The process must already be running when Launch returns.
	Launch(ctx context.Context, cmd *Command) (Process, error)

	// ValidateExtras rejects any extra the launcher does not understand.
	// It is called before Launch and must not have side effects.
	ValidateExtras(extras map[string]any) error
}

// Process is a running child owned by a single run.
type Process interface {
	// Pid returns the operating system process id, or 0 if there is none.
	Pid() int

	// Stdin returns the write end of the child's standard input.
	Stdin() io.WriteCloser

	// Stdout returns the read end of the child's standard output.
	// Closing it unblocks a pending Read.
	Stdout() io.ReadCloser

	// Stderr returns the read end of the child's standard error.
	// Closing it unblocks a pending Read.
	Stderr() io.ReadCloser

	// Wait blocks until the process exits, reaps it and returns its exit
	// code. A negative code -N means the process was killed by signal N.
	// Wait must not close or drain Stdout and Stderr.
	Wait() (int, error)

	// Kill sends the configured kill signal. Killing a process that already
	// exited is not an error.
	Kill() error

	// ForceKill terminates the process with a signal it cannot catch or
	// ignore. It is used when the process survives Kill.
	ForceKill() error
}

// Platform describes the operating system defaults are resolved for.
type Platform struct {
	// OS is a GOOS value such as "linux" or "windows".
	OS string

	// Getenv looks up environment variables. A nil Getenv sees an empty
	// environment.
	Getenv func(key string) string
}

// Env returns the value of key, or "" when unset.
func (p Platform) Env(key string) string {
	if p.Getenv == nil {
		return ""
	}

	return p.Getenv(key)
}

// IsWindows reports whether the platform is Windows.
func (p Platform) IsWindows() bool {
	return p.OS == "windows"
}
