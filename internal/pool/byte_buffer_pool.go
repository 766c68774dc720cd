// Package pool provides pooled byte buffers for index serialization.
package pool

import (
	"sync"
)

const (
	// IndexBufferDefaultSize is the initial capacity of a pooled buffer,
	// sized for a typical index of a few hundred entries.
	IndexBufferDefaultSize = 16 * 1024

	// indexBufferMaxThreshold caps what goes back into the pool so one
	// huge index does not pin memory forever.
	indexBufferMaxThreshold = 1024 * 1024
)

// ByteBuffer is a minimal growable buffer that implements io.Writer.
type ByteBuffer struct {
	B []byte
}

// Write appends p to the buffer. It never fails.
func (bb *ByteBuffer) Write(p []byte) (int, error) {
	bb.B = append(bb.B, p...)

	return len(p), nil
}

// Bytes returns the accumulated bytes.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of accumulated bytes.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Reset empties the buffer but keeps its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

var indexBufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, IndexBufferDefaultSize)}
	},
}

// GetIndexBuffer obtains a reset buffer from the pool.
func GetIndexBuffer() *ByteBuffer {
	bb := indexBufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutIndexBuffer returns a buffer to the pool. Oversized buffers are
// dropped instead of pooled.
func PutIndexBuffer(bb *ByteBuffer) {
	if cap(bb.B) > indexBufferMaxThreshold {
		return
	}
	indexBufferPool.Put(bb)
}
