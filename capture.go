package capture

import (
	"context"

	"github.com/wagiedev/capture-go/internal/config"
	"github.com/wagiedev/capture-go/internal/runner"
)

// Run executes cmd, forwarding its output live and returning it captured.
//
// Run blocks until the process has exited and both output streams have
// ended, or until the timeout or ctx kill it. Configuration problems are
// reported as ConfigError before anything is spawned.
//
// Example:
//
//	res, err := capture.Run(ctx, capture.Exec("ls", "-l"),
//	    capture.WithText(),
//	    capture.WithTimeout(10*time.Second),
//	)
func Run(ctx context.Context, cmd CommandSpec, opts ...Option) (*Result, error) {
	return run(ctx, cmd, applyRunOptions(opts))
}

// RunManifest executes the run described by the YAML manifest at path.
// Options are applied on top of the manifest's settings.
func RunManifest(ctx context.Context, path string, opts ...Option) (*Result, error) {
	m, err := config.LoadManifest(path)
	if err != nil {
		return nil, err
	}

	options := &RunOptions{}
	if err := m.Apply(options); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(options)
	}

	return run(ctx, m.Command(), options)
}

func run(ctx context.Context, cmd CommandSpec, options *RunOptions) (*Result, error) {
	r, err := runner.New(cmd, options)
	if err != nil {
		return nil, err
	}

	return r.Run(ctx)
}

// Exec returns a command that runs argv[0] with the remaining arguments.
func Exec(argv ...string) CommandSpec {
	return CommandSpec{Argv: argv}
}

// Shell returns a command that runs line through the platform shell.
func Shell(line string) CommandSpec {
	return CommandSpec{Shell: true, Line: line}
}

// Line returns a command for a string that is not run through the shell.
// The string is split once at the first space: everything after it is
// passed as a single argument, without any quoting rules.
func Line(s string) CommandSpec {
	return CommandSpec{Argv: config.SplitLine(s)}
}
