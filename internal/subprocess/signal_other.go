//go:build !unix

package subprocess

import (
	"fmt"
	"os"
	"strings"
)

// parseSignal accepts os.Kill or os.Interrupt, by value or by name.
func parseSignal(v any) (os.Signal, error) {
	switch s := v.(type) {
	case os.Signal:
		return s, nil
	case string:
		switch strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "SIG") {
		case "KILL":
			return os.Kill, nil
		case "INT":
			return os.Interrupt, nil
		}

		return nil, fmt.Errorf("unknown signal %q", s)
	default:
		return nil, fmt.Errorf("signal must be an os.Signal or string, got %T", v)
	}
}

func exitCode(state *os.ProcessState) int {
	return state.ExitCode()
}
