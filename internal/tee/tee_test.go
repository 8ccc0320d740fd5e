package tee

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/capture-go/internal/codec"
)

// mockChunkReader delivers data in controlled chunks to simulate various buffering scenarios.
type mockChunkReader struct {
	chunks [][]byte
	index  int
	err    error
}

func newMockChunkReader(chunks ...string) *mockChunkReader {
	byteChunks := make([][]byte, len(chunks))
	for i, chunk := range chunks {
		byteChunks[i] = []byte(chunk)
	}

	return &mockChunkReader{chunks: byteChunks, err: io.EOF}
}

func (r *mockChunkReader) Read(p []byte) (int, error) {
	if r.index >= len(r.chunks) {
		return 0, r.err
	}

	chunk := r.chunks[r.index]
	r.index++

	n := copy(p, chunk)

	return n, nil
}

// recordingSink records every write as a separate unit.
type recordingSink struct {
	mu      sync.Mutex
	units   []string
	flushes int
}

func (s *recordingSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.units = append(s.units, string(p))

	return len(p), nil
}

func (s *recordingSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flushes++

	return nil
}

type failingSink struct{}

func (failingSink) Write([]byte) (int, error) { return 0, errors.New("sink closed") }

// TestPump_Binary tests that binary capture is byte-exact.
func TestPump_Binary(t *testing.T) {
	sink := &recordingSink{}
	tee := New(&Config{
		Name:   "stdout",
		Source: newMockChunkReader("line one\nline ", "two\r\n\xff\x00partial"),
		Sink:   sink,
	})

	require.NoError(t, tee.Pump())
	require.Equal(t, "line one\nline two\r\n\xff\x00partial", string(tee.Buffer().Bytes()))
	require.True(t, tee.Buffer().Finalized())
	require.Nil(t, tee.Failure())
	require.Equal(t, []string{"line one\n", "line ", "two\r\n", "\xff\x00partial"}, sink.units)
	require.Equal(t, len(sink.units), sink.flushes)
}

// TestPump_EmptyStream tests that an empty stream gives an empty, non-nil buffer.
func TestPump_EmptyStream(t *testing.T) {
	tee := New(&Config{Name: "stderr", Source: newMockChunkReader()})

	require.NoError(t, tee.Pump())
	require.NotNil(t, tee.Buffer().Bytes())
	require.Empty(t, tee.Buffer().Bytes())
}

// TestPump_SplitsCompleteLines tests that one read holding several lines is
// forwarded line by line.
func TestPump_SplitsCompleteLines(t *testing.T) {
	sink := &recordingSink{}
	tee := New(&Config{Name: "stdout", Source: newMockChunkReader("a\nb\nc\n"), Sink: sink})

	require.NoError(t, tee.Pump())
	require.Equal(t, []string{"a\n", "b\n", "c\n"}, sink.units)
}

// TestPump_LongLineSmallUnit tests lines longer than the read size.
func TestPump_LongLineSmallUnit(t *testing.T) {
	long := strings.Repeat("x", 100) + "\n"
	tee := New(&Config{Name: "stdout", Source: strings.NewReader(long + long), UnitSize: 7})

	require.NoError(t, tee.Pump())
	require.Equal(t, long+long, string(tee.Buffer().Bytes()))
}

// TestPump_TextMultibyteCarry tests that a character split across reads is
// decoded whole and forwarded without splitting it.
func TestPump_TextMultibyteCarry(t *testing.T) {
	sink := &recordingSink{}
	tee := New(&Config{
		Name:   "stdout",
		Source: newMockChunkReader("price: \xe2\x82", "\xac 5\n"),
		Sink:   sink,
		Codec:  codec.MustLookup("utf-8"),
	})

	require.NoError(t, tee.Pump())
	require.Equal(t, "price: € 5\n", string(tee.Buffer().Bytes()))
	require.Nil(t, tee.Failure())
	require.Equal(t, []string{"price: ", "€ 5\n"}, sink.units)
}

// TestPump_UniversalNewlines tests line ending translation in text mode.
func TestPump_UniversalNewlines(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   string
	}{
		{"crlf", []string{"a\r\nb\r\n"}, "a\nb\n"},
		{"lone cr", []string{"progress 1\rprogress 2\r"}, "progress 1\nprogress 2\n"},
		{"crlf split across reads", []string{"a\r", "\nb"}, "a\nb"},
		{"cr then text across reads", []string{"a\r", "b"}, "a\nb"},
		{"mixed", []string{"1\n2\r\n3\r4"}, "1\n2\n3\n4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			tee := New(&Config{
				Name:   "stdout",
				Source: newMockChunkReader(tt.chunks...),
				Sink:   sink,
				Codec:  codec.MustLookup("utf-8"),
			})

			require.NoError(t, tee.Pump())
			require.Equal(t, tt.want, string(tee.Buffer().Bytes()))
			require.Equal(t, strings.Join(tt.chunks, ""), strings.Join(sink.units, ""),
				"passthrough must stay untranslated")
		})
	}
}

// TestPump_DecodeFailureContinues tests that a decode failure is recorded with
// absolute offsets while the pump keeps capturing.
func TestPump_DecodeFailureContinues(t *testing.T) {
	sink := &recordingSink{}
	tee := New(&Config{
		Name:     "stdout",
		Source:   newMockChunkReader("ok\n", "bad \xff here\n", "more \xfe\n", "tail\n"),
		Sink:     sink,
		Codec:    codec.MustLookup("utf-8"),
		Fallback: codec.MustLookup("iso-8859-1"),
	})

	require.NoError(t, tee.Pump())

	failure := tee.Failure()
	require.NotNil(t, failure)
	require.Equal(t, "stdout", failure.Stream)
	require.Equal(t, "utf-8", failure.Encoding)
	require.Equal(t, int64(7), failure.Start)
	require.Equal(t, int64(8), failure.End)
	require.Equal(t, "invalid start byte", failure.Reason)
	require.Equal(t, "ok\nbad ÿ here\n", string(failure.Partial))

	require.Equal(t, "ok\nbad ÿ here\nmore þ\ntail\n", string(tee.Buffer().Bytes()))
	require.Equal(t, "ok\nbad \xff here\nmore \xfe\ntail\n", strings.Join(sink.units, ""))
}

// TestPump_TruncatedCharAtEOF tests that an incomplete character at end of
// stream is a decode failure.
func TestPump_TruncatedCharAtEOF(t *testing.T) {
	tee := New(&Config{
		Name:   "stderr",
		Source: newMockChunkReader("end\xe2\x82"),
		Codec:  codec.MustLookup("utf-8"),
	})

	require.NoError(t, tee.Pump())

	failure := tee.Failure()
	require.NotNil(t, failure)
	require.Equal(t, int64(3), failure.Start)
	require.Equal(t, int64(5), failure.End)
	require.Equal(t, "unexpected end of data", failure.Reason)
}

// TestPump_SinkErrorsIgnored tests that a failing sink does not stop capture.
func TestPump_SinkErrorsIgnored(t *testing.T) {
	tee := New(&Config{Name: "stdout", Source: newMockChunkReader("a\n", "b\n"), Sink: failingSink{}})

	require.NoError(t, tee.Pump())
	require.Equal(t, "a\nb\n", string(tee.Buffer().Bytes()))
}

// TestPump_ClosedSourceEndsNormally tests closed-source errors.
func TestPump_ClosedSourceEndsNormally(t *testing.T) {
	for _, err := range []error{os.ErrClosed, io.ErrClosedPipe, &os.PathError{Op: "read", Path: "|0", Err: os.ErrClosed}} {
		r := newMockChunkReader("partial")
		r.err = err

		tee := New(&Config{Name: "stdout", Source: r})
		require.NoError(t, tee.Pump())
		require.Equal(t, "partial", string(tee.Buffer().Bytes()))
	}
}

// TestPump_ReadError tests that other read errors are returned.
func TestPump_ReadError(t *testing.T) {
	r := newMockChunkReader("x")
	r.err = errors.New("device on fire")

	tee := New(&Config{Name: "stderr", Source: r})

	err := tee.Pump()
	require.ErrorContains(t, err, "read stderr: device on fire")
	require.Equal(t, "x", string(tee.Buffer().Bytes()))
	require.True(t, tee.Buffer().Finalized())
}

// TestPump_Incremental tests that units reach the sink before the stream ends.
func TestPump_Incremental(t *testing.T) {
	pr, pw := io.Pipe()
	sinkR, sinkW := io.Pipe()

	tee := New(&Config{Name: "stdout", Source: pr, Sink: sinkW})

	done := make(chan error, 1)

	go func() { done <- tee.Pump() }()

	_, err := pw.Write([]byte("prompt> "))
	require.NoError(t, err)

	got := make([]byte, len("prompt> "))
	_, err = io.ReadFull(sinkR, got)
	require.NoError(t, err)
	require.Equal(t, "prompt> ", string(got))

	go func() {
		_, _ = io.Copy(io.Discard, sinkR)
	}()

	require.NoError(t, pw.Close())
	require.NoError(t, <-done)
	require.Equal(t, "prompt> ", string(tee.Buffer().Bytes()))
}

// TestBuffer_LateAppendsDropped tests forced finalization.
func TestBuffer_LateAppendsDropped(t *testing.T) {
	var b Buffer

	require.True(t, b.append([]byte("early")))
	require.True(t, b.Finalize())
	require.False(t, b.Finalize())
	require.False(t, b.append([]byte("late")))
	require.Equal(t, "early", string(b.Bytes()))
	require.Equal(t, 5, b.Len())

	snap := b.Snapshot()
	snap[0] = 'X'
	require.True(t, bytes.Equal([]byte("early"), b.Bytes()))
}
