package tee

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/wagiedev/capture-go/internal/codec"
)

// DefaultUnitSize is the read size of a pump.
const DefaultUnitSize = 32 * 1024

// Config holds configuration for a single stream tee.
type Config struct {
	// Name identifies the stream ("stdout" or "stderr").
	Name string

	// Source is the read end of the child's stream.
	Source io.Reader

	// Sink receives the raw bytes as they arrive. If nil, io.Discard is used.
	// A sink with a Flush method is flushed after every unit.
	Sink io.Writer

	// Codec decodes units in text mode. If nil, the tee runs in binary mode.
	Codec *codec.Codec

	// Fallback decodes units the Codec rejects.
	// If nil, Codec itself decodes them lossily.
	Fallback *codec.Codec

	// Logger is an optional logger.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// UnitSize is the maximum read size.
	// If zero, DefaultUnitSize is used.
	UnitSize int
}

// Failure is the first decode failure seen on a stream. Start and End are
// absolute byte offsets in the raw stream, End exclusive. Partial is the
// text buffer right after the failing unit was stored.
type Failure struct {
	Stream   string
	Encoding string
	Start    int64
	End      int64
	Reason   string
	Partial  []byte
}

// Tee pumps one stream. Pump must be called at most once.
type Tee struct {
	cfg *Config
	log *slog.Logger
	buf *Buffer

	offset     int64
	skipLF     bool
	sinkFailed bool

	mu      sync.Mutex
	failure *Failure
}

// New creates a tee for cfg.
func New(cfg *Config) *Tee {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if cfg.Sink == nil {
		cfg.Sink = io.Discard
	}

	if cfg.UnitSize <= 0 {
		cfg.UnitSize = DefaultUnitSize
	}

	return &Tee{
		cfg: cfg,
		log: log.With("component", "tee", "stream", cfg.Name),
		buf: &Buffer{},
	}
}

// Buffer returns the capture buffer.
func (t *Tee) Buffer() *Buffer {
	return t.buf
}

// Failure returns the first decode failure, or nil.
func (t *Tee) Failure() *Failure {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.failure
}

// Pump reads the source until it ends and finalizes the buffer. End of
// stream and a closed source both end the pump without error.
func (t *Tee) Pump() error {
	defer t.buf.Finalize()

	chunk := make([]byte, t.cfg.UnitSize)

	var pending []byte

	for {
		n, err := t.cfg.Source.Read(chunk)
		if n > 0 {
			pending = t.split(append(pending, chunk[:n]...))
		}

		if err == nil {
			continue
		}

		if len(pending) > 0 {
			t.emit(pending)
		}

		if isEndOfStream(err) {
			t.log.Debug("Stream ended", "bytes", t.offset)

			return nil
		}

		t.log.Debug("Stream read failed", "error", err)

		return fmt.Errorf("read %s: %w", t.cfg.Name, err)
	}
}

// split emits every unit in data and returns the bytes held back.
func (t *Tee) split(data []byte) []byte {
	from := 0

	for {
		i := bytes.IndexByte(data[from:], '\n')
		if i < 0 {
			break
		}

		end := from + i + 1

		// A newline byte inside a multi-byte character is not a line end.
		if t.cfg.Codec != nil && t.cfg.Codec.Boundary(data[:end]) > 0 {
			from = end

			continue
		}

		t.emit(data[:end])
		data = data[end:]
		from = 0
	}

	carry := 0
	if t.cfg.Codec != nil {
		carry = t.cfg.Codec.Boundary(data)
	}

	if len(data) > carry {
		t.emit(data[:len(data)-carry])
	}

	return slices.Clone(data[len(data)-carry:])
}

// emit forwards and stores one unit.
func (t *Tee) emit(unit []byte) {
	t.forward(unit)

	if t.cfg.Codec == nil {
		t.buf.append(unit)
		t.offset += int64(len(unit))

		return
	}

	text, failure := t.cfg.Codec.Decode(unit)
	if failure != nil {
		fallback := t.cfg.Fallback
		if fallback == nil {
			fallback = t.cfg.Codec
		}

		text = fallback.DecodeLossy(unit)
	}

	stored := t.buf.append(t.translate(text))

	if failure != nil && stored {
		t.record(failure)
	}

	t.offset += int64(len(unit))
}

func (t *Tee) record(f *codec.Failure) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.failure != nil {
		return
	}

	t.failure = &Failure{
		Stream:   t.cfg.Name,
		Encoding: t.cfg.Codec.Name(),
		Start:    t.offset + int64(f.Start),
		End:      t.offset + int64(f.End),
		Reason:   f.Reason,
		Partial:  t.buf.Snapshot(),
	}

	t.log.Debug("Recorded decode failure",
		"start", t.failure.Start,
		"end", t.failure.End,
		"reason", f.Reason,
	)
}

// forward writes unit to the sink. Sink errors never stop the pump.
func (t *Tee) forward(unit []byte) {
	_, err := t.cfg.Sink.Write(unit)
	if err == nil {
		err = flush(t.cfg.Sink)
	}

	if err != nil && !t.sinkFailed {
		t.sinkFailed = true
		t.log.Warn("Passthrough sink failed, continuing capture", "error", err)
	}
}

func flush(w io.Writer) error {
	switch f := w.(type) {
	case interface{ Flush() error }:
		return f.Flush()
	case interface{ Flush() }:
		f.Flush()
	}

	return nil
}

// translate converts "\r\n" and lone "\r" to "\n", including a "\r\n" pair
// split across two units.
func (t *Tee) translate(p []byte) []byte {
	if len(p) == 0 {
		return p
	}

	if t.skipLF && p[0] == '\n' {
		p = p[1:]
	}

	t.skipLF = false

	if bytes.IndexByte(p, '\r') < 0 {
		return p
	}

	out := make([]byte, 0, len(p))

	for i := 0; i < len(p); i++ {
		if p[i] != '\r' {
			out = append(out, p[i])

			continue
		}

		out = append(out, '\n')

		switch {
		case i+1 == len(p):
			t.skipLF = true
		case p[i+1] == '\n':
			i++
		}
	}

	return out
}

func isEndOfStream(err error) bool {
	return stderrors.Is(err, io.EOF) ||
		stderrors.Is(err, os.ErrClosed) ||
		stderrors.Is(err, io.ErrClosedPipe)
}
