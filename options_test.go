package capture

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

// TestApplyRunOptions tests that every option lands in RunOptions.
func TestApplyRunOptions(t *testing.T) {
	var out, errOut bytes.Buffer

	clock := clockwork.NewFakeClock()
	launcher := NewExecLauncher(NopLogger())
	logger := NopLogger()

	o := applyRunOptions([]Option{
		WithLogger(logger),
		WithText(),
		WithEncoding("cp850"),
		WithTimeout(time.Minute),
		WithCheck(),
		WithInputString("in"),
		WithStdout(&out),
		WithStderr(&errOut),
		WithExtras(map[string]any{"kill_signal": "TERM"}),
		WithExtras(map[string]any{"other": 1}),
		WithLauncher(launcher),
		WithPlatform(Platform{OS: "windows"}),
		WithClock(clock),
		WithDrainGrace(time.Second),
	})

	require.Same(t, logger, o.Logger)
	require.True(t, o.Text)
	require.Equal(t, "cp850", o.Encoding)
	require.Equal(t, time.Minute, o.Timeout)
	require.True(t, o.Check)
	require.NotNil(t, o.InputString)
	require.Equal(t, "in", *o.InputString)
	require.Same(t, &out, o.Stdout)
	require.Same(t, &errOut, o.Stderr)
	require.Equal(t, map[string]any{"kill_signal": "TERM", "other": 1}, o.Extras)
	require.Equal(t, launcher, o.Launcher)
	require.True(t, o.Platform.IsWindows())
	require.Equal(t, clock, o.Clock)
	require.Equal(t, time.Second, o.Grace())
}

// TestApplyRunOptions_Defaults tests the zero configuration.
func TestApplyRunOptions_Defaults(t *testing.T) {
	o := applyRunOptions(nil)

	require.False(t, o.IsText())
	require.False(t, o.HasInput())
	require.Equal(t, DefaultDrainGrace, o.Grace())

	o = applyRunOptions([]Option{WithCaptureOutput(), WithStdin(strings.NewReader("x")), WithInput([]byte("y"))})
	require.True(t, o.CaptureOutput)
	require.NotNil(t, o.Stdin)
	require.True(t, o.HasInput())
}

// TestCommandConstructors tests Exec, Shell and Line.
func TestCommandConstructors(t *testing.T) {
	require.Equal(t, []string{"ls", "-l"}, Exec("ls", "-l").Argv)

	sh := Shell("ls | wc -l")
	require.True(t, sh.Shell)
	require.Equal(t, []string{"ls | wc -l"}, sh.Args())

	require.Equal(t, []string{"echo", "a b c"}, Line("echo a b c").Argv)
	require.Equal(t, []string{"pwd"}, Line("pwd").Argv)
}

// TestPlatformDefaults tests the re-exported platform helpers.
func TestPlatformDefaults(t *testing.T) {
	win := Platform{OS: "windows", Getenv: func(k string) string {
		if k == "COMSPEC" {
			return `C:\Windows\system32\cmd.exe`
		}

		return ""
	}}

	require.Equal(t, `C:\Windows\system32\cmd.exe`, DefaultShell(win, ""))
	require.Equal(t, "windows-1252", DefaultEncoding(win))
	require.Equal(t, "/bin/sh", DefaultShell(Platform{OS: "linux"}, ""))
	require.Equal(t, "utf-8", DefaultEncoding(Platform{OS: "linux"}))
	require.NotEmpty(t, HostPlatform().OS)
}

// TestNopLogger tests that the silent logger is disabled at every level.
func TestNopLogger(t *testing.T) {
	log := NopLogger()

	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		require.False(t, log.Enabled(context.Background(), level), "level %s", level)
	}
}
