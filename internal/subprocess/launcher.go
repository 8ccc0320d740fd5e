package subprocess

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"

	"github.com/wagiedev/capture-go/internal/cli"
	"github.com/wagiedev/capture-go/internal/config"
	"github.com/wagiedev/capture-go/internal/errors"
)

// ExtraKillSignal names the extra that selects the kill signal.
const ExtraKillSignal = "kill_signal"

// ExecLauncher implements config.Launcher by spawning local processes.
type ExecLauncher struct {
	log      *slog.Logger
	platform config.Platform
}

// Compile-time verification that ExecLauncher implements the Launcher interface.
var _ config.Launcher = (*ExecLauncher)(nil)

// NewExecLauncher creates a launcher for the host platform.
//
// The logger receives debug, info and error messages about process startup.
// If nil, logging is disabled.
func NewExecLauncher(log *slog.Logger) *ExecLauncher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &ExecLauncher{
		log:      log.With("component", "exec_launcher"),
		platform: cli.HostPlatform(),
	}
}

// ValidateExtras implements config.Launcher.
func (l *ExecLauncher) ValidateExtras(extras map[string]any) error {
	keys := make([]string, 0, len(extras))
	for k := range extras {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		switch k {
		case ExtraKillSignal:
			if _, err := parseSignal(extras[k]); err != nil {
				return &errors.ConfigError{Option: "extras." + k, Err: err}
			}
		default:
			return &errors.ConfigError{Option: "extras." + k, Err: errors.ErrUnsupportedExtra}
		}
	}

	return nil
}

// Launch implements config.Launcher.
//
// Returns ExecutableNotFoundError if the program cannot be located and
// LaunchError if the process fails to start.
func (l *ExecLauncher) Launch(ctx context.Context, cmd *config.Command) (config.Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	killSignal := os.Kill

	if v, ok := cmd.Extras[ExtraKillSignal]; ok {
		sig, err := parseSignal(v)
		if err != nil {
			return nil, &errors.ConfigError{Option: "extras." + ExtraKillSignal, Err: err}
		}

		killSignal = sig
	}

	discoverer := cli.NewDiscoverer(&cli.Config{
		Platform: l.platform,
		Dir:      cmd.Dir,
		Logger:   l.log,
	})

	path, err := discoverer.Discover(ctx, cmd.Path)
	if err != nil {
		return nil, fmt.Errorf("discover executable: %w", err)
	}

	p := &pipes{}
	if err := p.open(); err != nil {
		l.log.Error("Failed to create pipes", "error", err)

		return nil, &errors.LaunchError{Args: cmd.Argv, Err: err}
	}

	//nolint:gosec // G204: running caller-supplied commands is the purpose of this package
	c := &exec.Cmd{
		Path:   path,
		Args:   cmd.Argv,
		Env:    cmd.Env,
		Dir:    cmd.Dir,
		Stdin:  p.childStdin,
		Stdout: p.childStdout,
		Stderr: p.childStderr,
	}

	if err := c.Start(); err != nil {
		p.closeAll()
		l.log.Error("Failed to start process", "path", path, "error", err)

		return nil, &errors.LaunchError{Args: cmd.Argv, Err: err}
	}

	// The child holds its own copies now.
	p.closeChildEnds()

	l.log.Info("Process started", "path", path, "pid", c.Process.Pid)

	return &process{
		cmd:        c,
		log:        l.log.With("pid", c.Process.Pid),
		stdin:      p.stdin,
		stdout:     p.stdout,
		stderr:     p.stderr,
		killSignal: killSignal,
	}, nil
}

// pipes holds both ends of the three standard stream pipes.
type pipes struct {
	stdin, childStdin   *os.File
	stdout, childStdout *os.File
	stderr, childStderr *os.File
}

func (p *pipes) open() error {
	var err error

	if p.childStdin, p.stdin, err = os.Pipe(); err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}

	if p.stdout, p.childStdout, err = os.Pipe(); err != nil {
		p.closeAll()

		return fmt.Errorf("stdout pipe: %w", err)
	}

	if p.stderr, p.childStderr, err = os.Pipe(); err != nil {
		p.closeAll()

		return fmt.Errorf("stderr pipe: %w", err)
	}

	return nil
}

func (p *pipes) closeChildEnds() {
	for _, f := range []*os.File{p.childStdin, p.childStdout, p.childStderr} {
		if f != nil {
			_ = f.Close()
		}
	}
}

func (p *pipes) closeAll() {
	p.closeChildEnds()

	for _, f := range []*os.File{p.stdin, p.stdout, p.stderr} {
		if f != nil {
			_ = f.Close()
		}
	}
}

// process implements config.Process for an exec.Cmd.
type process struct {
	cmd        *exec.Cmd
	log        *slog.Logger
	stdin      *os.File
	stdout     *os.File
	stderr     *os.File
	killSignal os.Signal
}

// Compile-time verification that process implements the Process interface.
var _ config.Process = (*process)(nil)

func (p *process) Pid() int { return p.cmd.Process.Pid }

func (p *process) Stdin() io.WriteCloser { return p.stdin }

func (p *process) Stdout() io.ReadCloser { return p.stdout }

func (p *process) Stderr() io.ReadCloser { return p.stderr }

// Wait reaps the process and returns its exit code.
func (p *process) Wait() (int, error) {
	err := p.cmd.Wait()
	if err != nil {
		if _, ok := stderrors.AsType[*exec.ExitError](err); !ok {
			p.log.Debug("Wait failed", "error", err)

			return -1, fmt.Errorf("wait: %w", err)
		}
	}

	code := exitCode(p.cmd.ProcessState)
	p.log.Debug("Process exited", "return_code", code)

	return code, nil
}

// Kill sends the kill signal. A process that already exited is ignored.
func (p *process) Kill() error {
	err := p.cmd.Process.Signal(p.killSignal)
	if err == nil || stderrors.Is(err, os.ErrProcessDone) {
		return nil
	}

	return fmt.Errorf("kill: %w", err)
}

// ForceKill sends SIGKILL regardless of the configured kill signal.
func (p *process) ForceKill() error {
	err := p.cmd.Process.Kill()
	if err == nil || stderrors.Is(err, os.ErrProcessDone) {
		return nil
	}

	return fmt.Errorf("force kill: %w", err)
}
