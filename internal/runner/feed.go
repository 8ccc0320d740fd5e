package runner

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"
)

// feeder writes the run's input to the child's stdin and always closes it.
type feeder struct {
	log     *slog.Logger
	stdin   io.WriteCloser
	payload []byte
	source  io.Reader
}

// feed writes the payload, or copies the external source, then closes
// stdin. A child that exits without reading its input is not an error.
func (f *feeder) feed() error {
	var err error

	switch {
	case f.payload != nil:
		f.log.Debug("Writing input payload", "bytes", len(f.payload))

		_, err = f.stdin.Write(f.payload)
	case f.source != nil:
		var n int64

		n, err = io.Copy(f.stdin, f.source)
		f.log.Debug("Copied input source", "bytes", n)
	}

	closeErr := f.stdin.Close()

	if isBrokenPipe(err) {
		f.log.Debug("Child stopped reading stdin", "error", err)

		err = nil
	}

	if isBrokenPipe(closeErr) {
		closeErr = nil
	}

	if err = stderrors.Join(err, closeErr); err != nil {
		f.log.Warn("Failed to feed stdin", "error", err)

		return fmt.Errorf("feed stdin: %w", err)
	}

	return nil
}

func isBrokenPipe(err error) bool {
	return err != nil && (stderrors.Is(err, syscall.EPIPE) ||
		stderrors.Is(err, os.ErrClosed) ||
		stderrors.Is(err, io.ErrClosedPipe))
}
