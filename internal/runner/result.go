package runner

import (
	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/capture-go/internal/errors"
	"github.com/wagiedev/capture-go/internal/tee"
)

// Result is a completed run.
type Result struct {
	// RunID identifies the run in log output.
	RunID ulid.ULID

	// Args is the command as given.
	Args []string

	// ReturnCode is the exit status. A negative value -N means the process
	// was killed by signal N.
	ReturnCode int

	// Stdout and Stderr hold the complete captured output. In text mode
	// they are UTF-8 with line endings normalized to "\n".
	Stdout []byte
	Stderr []byte

	// Text reports whether the output was decoded.
	Text bool
}

// StdoutText returns Stdout as a string.
func (r *Result) StdoutText() string {
	return string(r.Stdout)
}

// StderrText returns Stderr as a string.
func (r *Result) StderrText() string {
	return string(r.Stderr)
}

// CheckReturnCode returns an ExitStatusError if the return code is non-zero.
func (r *Result) CheckReturnCode() error {
	if r.ReturnCode == 0 {
		return nil
	}

	return &errors.ExitStatusError{
		Args:       r.Args,
		ReturnCode: r.ReturnCode,
		Stdout:     r.Stdout,
		Stderr:     r.Stderr,
	}
}

// assemble turns a finished session into the run's outcome. Decode
// failures come first (stdout before stderr), then stream and wait
// errors, then the exit status when checking.
func (r *Runner) assemble(s *session, runErr error) (*Result, error) {
	stdout := s.stdout.Buffer().Bytes()
	stderr := s.stderr.Buffer().Bytes()

	for _, t := range []*tee.Tee{s.stdout, s.stderr} {
		f := t.Failure()
		if f == nil {
			continue
		}

		r.log.Debug("Output could not be decoded", "stream", f.Stream, "start", f.Start)

		return nil, &errors.DecodeError{
			Stream:   f.Stream,
			Encoding: f.Encoding,
			Start:    f.Start,
			End:      f.End,
			Reason:   f.Reason,
			Partial:  f.Partial,
			Stdout:   stdout,
			Stderr:   stderr,
		}
	}

	if runErr != nil {
		return nil, runErr
	}

	res := &Result{
		RunID:      r.id,
		Args:       r.spec.Args(),
		ReturnCode: s.status.code,
		Stdout:     stdout,
		Stderr:     stderr,
		Text:       r.codec != nil,
	}

	if r.opts.Check {
		if err := res.CheckReturnCode(); err != nil {
			r.log.Debug("Checked run failed", "return_code", res.ReturnCode)

			return nil, err
		}
	}

	return res, nil
}
