package tee

import (
	"slices"
	"sync"
)

// Buffer is an append-only capture buffer with a single writer. It is
// finalized exactly once, either when its stream ends or when a run forces
// it closed. Appends after finalization are dropped.
type Buffer struct {
	mu    sync.Mutex
	data  []byte
	final bool
}

// append adds p and reports whether it was stored.
func (b *Buffer) append(p []byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.final {
		return false
	}

	b.data = append(b.data, p...)

	return true
}

// Finalize freezes the buffer. It reports whether this call did it.
func (b *Buffer) Finalize() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.final {
		return false
	}

	b.final = true

	return true
}

// Finalized reports whether the buffer is frozen.
func (b *Buffer) Finalized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.final
}

// Len returns the number of bytes captured so far.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.data)
}

// Snapshot returns a copy of the bytes captured so far.
func (b *Buffer) Snapshot() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.data)
}

// Bytes returns the captured bytes. It never returns nil, so an empty
// stream is distinguishable from one that was not captured.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.data == nil {
		return []byte{}
	}

	return b.data
}
