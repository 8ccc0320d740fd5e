package capture

import (
	"io"
	"log/slog"
	"maps"
	"time"

	"github.com/jonboulle/clockwork"
)

// Option configures RunOptions using the functional options pattern.
type Option func(*RunOptions)

// applyRunOptions applies functional options to a RunOptions struct.
func applyRunOptions(opts []Option) *RunOptions {
	options := &RunOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *RunOptions) {
		o.Logger = logger
	}
}

// WithTimeout kills the process once it has run for d.
func WithTimeout(d time.Duration) Option {
	return func(o *RunOptions) {
		o.Timeout = d
	}
}

// WithCheck turns a non-zero exit status into an ExitStatusError.
func WithCheck() Option {
	return func(o *RunOptions) {
		o.Check = true
	}
}

// ===== Output =====

// WithText decodes captured output with the platform default encoding.
// Decoding and newline translation apply to the captured buffers only:
// passthrough sinks still receive the child's raw bytes, so "\r\n" reaches
// WithStdout unchanged while Result.Stdout holds "\n".
func WithText() Option {
	return func(o *RunOptions) {
		o.Text = true
	}
}

// WithEncoding decodes captured output with the named encoding, for example
// "utf-8", "cp850" or "shift_jis". It also encodes WithInputString.
func WithEncoding(name string) Option {
	return func(o *RunOptions) {
		o.Encoding = name
	}
}

// WithCaptureOutput captures output without forwarding it.
// Cannot be combined with WithStdout or WithStderr.
func WithCaptureOutput() Option {
	return func(o *RunOptions) {
		o.CaptureOutput = true
	}
}

// WithStdout forwards the child's stdout to w instead of os.Stdout.
// If w has a Flush method it is called after every write. w receives the
// raw bytes; in text mode they can differ from the decoded Result.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *RunOptions) {
		o.Stdout = w
	}
}

// WithStderr forwards the child's stderr to w instead of os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(o *RunOptions) {
		o.Stderr = w
	}
}

// ===== Input =====

// WithInput writes data to the child's stdin and then closes it.
func WithInput(data []byte) Option {
	return func(o *RunOptions) {
		o.Input = data
	}
}

// WithInputString encodes s with the run encoding and writes it to stdin.
func WithInputString(s string) Option {
	return func(o *RunOptions) {
		o.InputString = &s
	}
}

// WithStdin copies r into the child's stdin.
// Cannot be combined with WithInput or WithInputString.
func WithStdin(r io.Reader) Option {
	return func(o *RunOptions) {
		o.Stdin = r
	}
}

// ===== Advanced =====

// WithExtras passes launcher-specific settings. The default launcher
// understands "kill_signal"; any other key is rejected.
func WithExtras(extras map[string]any) Option {
	return func(o *RunOptions) {
		if o.Extras == nil {
			o.Extras = make(map[string]any, len(extras))
		}

		maps.Copy(o.Extras, extras)
	}
}

// WithLauncher replaces the os/exec based launcher.
func WithLauncher(l Launcher) Option {
	return func(o *RunOptions) {
		o.Launcher = l
	}
}

// WithPlatform resolves the default shell and encoding for p instead of the
// host.
func WithPlatform(p Platform) Option {
	return func(o *RunOptions) {
		o.Platform = &p
	}
}

// WithClock drives the timeout and grace timers from clock.
// Mostly useful with clockwork.NewFakeClock in tests.
func WithClock(clock clockwork.Clock) Option {
	return func(o *RunOptions) {
		o.Clock = clock
	}
}

// WithDrainGrace bounds how long output is drained after a kill.
// Defaults to 2 seconds.
func WithDrainGrace(d time.Duration) Option {
	return func(o *RunOptions) {
		o.DrainGrace = d
	}
}
