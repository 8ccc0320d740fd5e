package runner

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/wagiedev/capture-go/internal/config"
)

// stubLauncher starts scripted in-memory processes.
type stubLauncher struct {
	script    func(p *stubProcess)
	holdOpen   bool
	ignoreKill bool
	launchErr  error
	launches  atomic.Int32
	last      atomic.Pointer[stubProcess]
}

func (l *stubLauncher) ValidateExtras(extras map[string]any) error {
	for k := range extras {
		return errors.New("stub launcher has no extra " + k)
	}

	return nil
}

func (l *stubLauncher) Launch(_ context.Context, _ *config.Command) (config.Process, error) {
	l.launches.Add(1)

	if l.launchErr != nil {
		return nil, l.launchErr
	}

	p := newStubProcess(l.holdOpen)
	p.ignoreKill = l.ignoreKill
	l.last.Store(p)

	go l.script(p)

	return p, nil
}

// stubProcess is a fake child whose streams are in-memory pipes.
type stubProcess struct {
	stdinR  *io.PipeReader
	stdinW  *io.PipeWriter
	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter
	stderrR *io.PipeReader
	stderrW *io.PipeWriter

	holdOpen   bool
	ignoreKill bool
	forceKills atomic.Int32
	codes      chan int
	killed     chan struct{}
	once       sync.Once
}

func newStubProcess(holdOpen bool) *stubProcess {
	p := &stubProcess{
		holdOpen: holdOpen,
		codes:    make(chan int, 1),
		killed:   make(chan struct{}),
	}

	p.stdinR, p.stdinW = io.Pipe()
	p.stdoutR, p.stdoutW = io.Pipe()
	p.stderrR, p.stderrW = io.Pipe()

	return p
}

func (p *stubProcess) Pid() int { return 4242 }

func (p *stubProcess) Stdin() io.WriteCloser { return p.stdinW }

func (p *stubProcess) Stdout() io.ReadCloser { return p.stdoutR }

func (p *stubProcess) Stderr() io.ReadCloser { return p.stderrR }

func (p *stubProcess) Wait() (int, error) { return <-p.codes, nil }

func (p *stubProcess) out(s string) { _, _ = p.stdoutW.Write([]byte(s)) }

func (p *stubProcess) err(s string) { _, _ = p.stderrW.Write([]byte(s)) }

func (p *stubProcess) readInput() ([]byte, error) { return io.ReadAll(p.stdinR) }

// exit ends the process: its end of every pipe closes.
func (p *stubProcess) exit(code int) {
	p.once.Do(func() {
		_ = p.stdinR.Close()

		if !p.holdOpen {
			_ = p.stdoutW.Close()
			_ = p.stderrW.Close()
		}

		p.codes <- code
	})
}

// Kill exits with -9 unless the process ignores kill signals.
func (p *stubProcess) Kill() error {
	p.markKilled()

	if !p.ignoreKill {
		p.exit(-9)
	}

	return nil
}

func (p *stubProcess) ForceKill() error {
	p.forceKills.Add(1)
	p.markKilled()
	p.exit(-9)

	return nil
}

func (p *stubProcess) markKilled() {
	select {
	case <-p.killed:
	default:
		close(p.killed)
	}
}

// waitKilled blocks the script until the process is killed.
func (p *stubProcess) waitKilled() {
	<-p.killed
}
