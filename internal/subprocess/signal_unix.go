//go:build unix

package subprocess

import (
	"fmt"
	"os"
	"strings"
	"syscall"
)

var signalNames = map[string]syscall.Signal{
	"HUP":  syscall.SIGHUP,
	"INT":  syscall.SIGINT,
	"QUIT": syscall.SIGQUIT,
	"KILL": syscall.SIGKILL,
	"TERM": syscall.SIGTERM,
	"USR1": syscall.SIGUSR1,
	"USR2": syscall.SIGUSR2,
}

// parseSignal accepts an os.Signal, a signal number or a signal name.
func parseSignal(v any) (os.Signal, error) {
	switch s := v.(type) {
	case os.Signal:
		return s, nil
	case int:
		if s <= 0 {
			return nil, fmt.Errorf("invalid signal number %d", s)
		}

		return syscall.Signal(s), nil
	case string:
		name := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "SIG")
		if sig, ok := signalNames[name]; ok {
			return sig, nil
		}

		return nil, fmt.Errorf("unknown signal %q", s)
	default:
		return nil, fmt.Errorf("signal must be an os.Signal, int or string, got %T", v)
	}
}

// exitCode returns -N for a process killed by signal N.
func exitCode(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return -int(ws.Signal())
	}

	return state.ExitCode()
}
