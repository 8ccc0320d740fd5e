package capture

import (
	"log/slog"

	"github.com/wagiedev/capture-go/internal/config"
	"github.com/wagiedev/capture-go/internal/subprocess"
)

// Launcher starts processes with three independent pipes.
// Implement this to run commands somewhere other than the local host, or to
// stub process creation in tests.
//
// The default implementation spawns local processes with os/exec.
// Custom launchers can be injected via WithLauncher.
type Launcher = config.Launcher

// Process is a running child returned by a Launcher.
type Process = config.Process

// Command is a resolved command handed to a Launcher.
type Command = config.Command

// NewExecLauncher returns the default os/exec based launcher.
func NewExecLauncher(log *slog.Logger) Launcher {
	return subprocess.NewExecLauncher(log)
}
