package cli

import (
	"maps"
	"slices"

	"github.com/wagiedev/capture-go/internal/config"
	"github.com/wagiedev/capture-go/internal/errors"
)

// BuildCommand resolves spec into a command for the launcher.
//
// Shell command lines run as `<shell> -c <line>` (`<shell> /c <line>` on
// Windows), where the shell is spec.Executable or the platform default.
// Otherwise Argv is used as given and spec.Executable, if set, replaces the
// file that is executed while Argv[0] stays the process name.
func BuildCommand(spec config.CommandSpec, p config.Platform, extras map[string]any) (*config.Command, error) {
	cmd := &config.Command{
		Env:    slices.Clone(spec.Env),
		Dir:    spec.Dir,
		Extras: maps.Clone(extras),
	}

	if spec.Shell {
		if spec.Line == "" {
			return nil, errors.ErrEmptyCommand
		}

		shell := DefaultShell(p, spec.Executable)
		cmd.Path = shell
		cmd.Argv = ShellArgv(p, shell, spec.Line)

		return cmd, nil
	}

	if len(spec.Argv) == 0 || spec.Argv[0] == "" {
		return nil, errors.ErrEmptyCommand
	}

	cmd.Argv = slices.Clone(spec.Argv)
	cmd.Path = spec.Argv[0]

	if spec.Executable != "" {
		cmd.Path = spec.Executable
	}

	return cmd, nil
}
