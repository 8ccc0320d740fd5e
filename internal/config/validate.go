package config

import (
	"fmt"

	"github.com/wagiedev/capture-go/internal/errors"
)

// Validate checks cmd and o for options that cannot work together. It has no
// side effects and runs before anything is spawned.
func Validate(cmd CommandSpec, o *Options) error {
	if cmd.Shell {
		if cmd.Line == "" {
			return &errors.ConfigError{Option: "args", Reason: "shell command line is empty", Err: errors.ErrEmptyCommand}
		}
	} else if len(cmd.Argv) == 0 || cmd.Argv[0] == "" {
		return &errors.ConfigError{Option: "args", Err: errors.ErrEmptyCommand}
	}

	if o.Input != nil && o.InputString != nil {
		return &errors.ConfigError{Option: "input", Conflict: "input_string"}
	}

	if o.HasInput() && o.Stdin != nil {
		return &errors.ConfigError{Option: "input", Conflict: "stdin"}
	}

	if o.CaptureOutput && o.Stdout != nil {
		return &errors.ConfigError{Option: "capture_output", Conflict: "stdout"}
	}

	if o.CaptureOutput && o.Stderr != nil {
		return &errors.ConfigError{Option: "capture_output", Conflict: "stderr"}
	}

	if o.Timeout < 0 {
		return &errors.ConfigError{Option: "timeout", Reason: fmt.Sprintf("negative duration %s", o.Timeout)}
	}

	if o.DrainGrace < 0 {
		return &errors.ConfigError{Option: "drain_grace", Reason: fmt.Sprintf("negative duration %s", o.DrainGrace)}
	}

	return nil
}
