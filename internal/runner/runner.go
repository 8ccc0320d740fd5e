package runner

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/capture-go/internal/cli"
	"github.com/wagiedev/capture-go/internal/codec"
	"github.com/wagiedev/capture-go/internal/config"
	"github.com/wagiedev/capture-go/internal/errors"
	"github.com/wagiedev/capture-go/internal/subprocess"
	"github.com/wagiedev/capture-go/internal/tee"
)

// Runner executes one prepared run.
type Runner struct {
	log      *slog.Logger
	id       ulid.ULID
	spec     config.CommandSpec
	opts     *config.Options
	command  *config.Command
	launcher config.Launcher
	clock    clockwork.Clock
	codec    *codec.Codec // nil in binary mode
	fallback *codec.Codec
	payload  []byte
}

// New validates and resolves a run. It has no side effects; every
// configuration error surfaces here, before anything is spawned.
func New(spec config.CommandSpec, opts *config.Options) (*Runner, error) {
	if opts == nil {
		opts = &config.Options{}
	}

	spec = spec.Clone()

	if err := config.Validate(spec, opts); err != nil {
		return nil, err
	}

	id := ulid.Make()

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	log = log.With("component", "runner", "run_id", id.String())

	platform := cli.HostPlatform()
	if opts.Platform != nil {
		platform = *opts.Platform
	}

	r := &Runner{
		log:      log,
		id:       id,
		spec:     spec,
		opts:     opts,
		launcher: opts.Launcher,
		clock:    opts.Clock,
	}

	if r.clock == nil {
		r.clock = clockwork.NewRealClock()
	}

	if r.launcher == nil {
		r.launcher = subprocess.NewExecLauncher(log)
	}

	if err := r.resolveEncoding(platform); err != nil {
		return nil, err
	}

	if opts.Input != nil {
		r.payload = opts.Input
	}

	if err := r.launcher.ValidateExtras(opts.Extras); err != nil {
		return nil, err
	}

	command, err := cli.BuildCommand(spec, platform, opts.Extras)
	if err != nil {
		return nil, &errors.ConfigError{Option: "args", Err: err}
	}

	r.command = command

	log.Debug("Prepared run",
		"args", command.Argv,
		"path", command.Path,
		"text", r.codec != nil,
		"timeout", opts.Timeout,
	)

	return r, nil
}

// ID returns the run id.
func (r *Runner) ID() ulid.ULID {
	return r.id
}

// Command returns the resolved command.
func (r *Runner) Command() *config.Command {
	return r.command
}

func (r *Runner) resolveEncoding(platform config.Platform) error {
	fallback, err := codec.Lookup(cli.DefaultEncoding(platform))
	if err != nil {
		r.log.Debug("Platform encoding unknown, falling back to UTF-8", "error", err)

		fallback = codec.MustLookup(codec.UTF8)
	}

	r.fallback = fallback

	if !r.opts.IsText() && r.opts.InputString == nil {
		return nil
	}

	c := fallback

	if r.opts.Encoding != "" {
		c, err = codec.Lookup(r.opts.Encoding)
		if err != nil {
			return &errors.ConfigError{Option: "encoding", Err: err}
		}
	}

	if r.opts.IsText() {
		r.codec = c
	}

	if r.opts.InputString != nil {
		encoded, err := c.Encode(*r.opts.InputString)
		if err != nil {
			return &errors.ConfigError{
				Option: "input_string",
				Reason: fmt.Sprintf("not representable in %s", c.Name()),
				Err:    err,
			}
		}

		r.payload = encoded
	}

	return nil
}

// session is the live state of one launched process. Each done channel is
// closed after its result field is written.
type session struct {
	proc   config.Process
	stdout *tee.Tee
	stderr *tee.Tee

	exited chan struct{}
	status exitStatus

	pumped  chan struct{}
	pumpErr error

	fed     chan struct{}
	feedErr error
}

type exitStatus struct {
	code int
	err  error
}

// Run launches the process and supervises it until a result is assembled.
//
// Returns TimeoutError when the deadline expires first, InterruptedError
// when ctx ends first, DecodeError when text output could not be decoded,
// and ExitStatusError for a non-zero exit when checking is enabled.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.log.Info("Starting process", "args", r.command.Argv)

	proc, err := r.launcher.Launch(ctx, r.command)
	if err != nil {
		r.log.Error("Failed to launch process", "error", err)

		if _, ok := stderrors.AsType[errors.CaptureError](err); ok {
			return nil, err
		}

		return nil, &errors.LaunchError{Args: r.spec.Args(), Err: err}
	}

	s := r.start(proc)

	var deadline <-chan time.Time

	if r.opts.Timeout > 0 {
		timer := r.clock.NewTimer(r.opts.Timeout)
		defer timer.Stop()

		deadline = timer.Chan()
	}

	select {
	case <-s.exited:
	case <-deadline:
		return nil, r.abort(s, nil)
	case <-ctx.Done():
		return nil, r.abort(s, ctx.Err())
	}

	r.log.Info("Process exited", "return_code", s.status.code)

	select {
	case <-s.pumped:
	case <-deadline:
		return nil, r.abort(s, nil)
	case <-ctx.Done():
		return nil, r.abort(s, ctx.Err())
	}

	feedErr := r.joinFeeder(s)

	r.closeOutputs(s)

	return r.assemble(s, stderrors.Join(s.status.err, s.pumpErr, feedErr))
}

// start begins pumping, feeding and waiting.
func (r *Runner) start(proc config.Process) *session {
	s := &session{
		proc:   proc,
		exited: make(chan struct{}),
		pumped: make(chan struct{}),
		fed:    make(chan struct{}),
	}

	s.stdout = tee.New(&tee.Config{
		Name:     "stdout",
		Source:   proc.Stdout(),
		Sink:     r.sink(os.Stdout, r.opts.Stdout),
		Codec:    r.codec,
		Fallback: r.fallback,
		Logger:   r.log,
	})

	s.stderr = tee.New(&tee.Config{
		Name:     "stderr",
		Source:   proc.Stderr(),
		Sink:     r.sink(os.Stderr, r.opts.Stderr),
		Codec:    r.codec,
		Fallback: r.fallback,
		Logger:   r.log,
	})

	var pumps errgroup.Group

	pumps.Go(s.stdout.Pump)
	pumps.Go(s.stderr.Pump)

	go func() {
		s.pumpErr = pumps.Wait()
		close(s.pumped)
	}()

	f := &feeder{
		log:     r.log.With("component", "feeder"),
		stdin:   proc.Stdin(),
		payload: r.payload,
		source:  r.opts.Stdin,
	}

	go func() {
		s.feedErr = f.feed()
		close(s.fed)
	}()

	go func() {
		code, err := proc.Wait()
		s.status = exitStatus{code: code, err: err}
		close(s.exited)
	}()

	return s
}

func (r *Runner) sink(std io.Writer, external io.Writer) io.Writer {
	switch {
	case r.opts.CaptureOutput:
		return io.Discard
	case external != nil:
		return external
	default:
		return std
	}
}

// joinFeeder waits for the feeder after exit. A feeder still blocked after
// the grace period (stdin held open elsewhere, or a slow external source)
// is cut off by closing stdin.
func (r *Runner) joinFeeder(s *session) error {
	select {
	case <-s.fed:
		return s.feedErr
	case <-r.clock.After(r.opts.Grace()):
		r.log.Debug("Feeder still running after exit, closing stdin")

		_ = s.proc.Stdin().Close()

		return nil
	}
}

// abort kills the process, reaps it and drains what output it can within
// the grace period. A process that survives the kill signal for the grace
// period is killed with SIGKILL, and abort waits for it to be reaped.
// cause is nil for a deadline and the context error for an interruption.
func (r *Runner) abort(s *session, cause error) error {
	reason := "timeout"
	if cause != nil {
		reason = "interrupted"
	}

	r.log.Warn("Killing process", "reason", reason, "pid", s.proc.Pid())

	if err := s.proc.Kill(); err != nil {
		r.log.Warn("Failed to kill process", "error", err)
	}

	grace := r.clock.After(r.opts.Grace())

	select {
	case <-s.exited:
	case <-grace:
		r.log.Warn("Process survived kill signal, sending SIGKILL", "pid", s.proc.Pid())

		if err := s.proc.ForceKill(); err != nil {
			r.log.Warn("Failed to force kill process", "error", err)
		}

		<-s.exited

		grace = r.clock.After(r.opts.Grace())
	}

	expired := false

	select {
	case <-s.pumped:
	case <-grace:
		expired = true

		r.log.Warn("Output streams still open after grace period, finalizing buffers")
	}

	// Unblocks a feeder stuck writing to a pipe nobody reads.
	_ = s.proc.Stdin().Close()

	if !expired {
		select {
		case <-s.fed:
		case <-grace:
			expired = true
		}
	}

	if expired {
		select {
		case <-s.fed:
		default:
			r.log.Warn("Feeder still blocked on its input source, abandoning it")
		}
	}

	r.closeOutputs(s)
	s.stdout.Buffer().Finalize()
	s.stderr.Buffer().Finalize()

	stdout := s.stdout.Buffer().Bytes()
	stderr := s.stderr.Buffer().Bytes()

	if cause != nil {
		return &errors.InterruptedError{
			Args:   r.spec.Args(),
			Pid:    s.proc.Pid(),
			Stdout: stdout,
			Stderr: stderr,
			Err:    cause,
		}
	}

	return &errors.TimeoutError{
		Args:    r.spec.Args(),
		Timeout: r.opts.Timeout,
		Pid:     s.proc.Pid(),
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

func (r *Runner) closeOutputs(s *session) {
	for _, rc := range []io.Closer{s.proc.Stdout(), s.proc.Stderr()} {
		if err := rc.Close(); err != nil && !stderrors.Is(err, os.ErrClosed) {
			r.log.Debug("Failed to close output stream", "error", err)
		}
	}
}
