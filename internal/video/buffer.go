package video

import (
	"errors"
	"sync"
)

// ErrDrained is returned by a second Drain
var ErrDrained = errors.New("chunk buffer already drained")

// ChunkBuffer is the append-only list of encoded chunks of one capture
type ChunkBuffer struct {
	mu      sync.Mutex
	chunks  [][]byte
	size    int
	drained bool
}

// Append stores a copy of chunk. Empty chunks and chunks arriving after
// the buffer was drained or discarded are dropped.
func (b *ChunkBuffer) Append(chunk []byte) bool {
	if len(chunk) == 0 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drained {
		return false
	}
	b.chunks = append(b.chunks, append([]byte(nil), chunk...))
	b.size += len(chunk)
	return true
}

// Len returns the number of buffered chunks
func (b *ChunkBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chunks)
}

// Size returns the number of buffered bytes
func (b *ChunkBuffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Drain concatenates all chunks in arrival order. It succeeds once.
func (b *ChunkBuffer) Drain() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drained {
		return nil, ErrDrained
	}
	out := make([]byte, 0, b.size)
	for _, c := range b.chunks {
		out = append(out, c...)
	}
	b.chunks, b.size, b.drained = nil, 0, true
	return out, nil
}

// Discard drops everything buffered and closes the buffer
func (b *ChunkBuffer) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chunks, b.size, b.drained = nil, 0, true
}
