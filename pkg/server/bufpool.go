package server

import "sync"

// ============================================================================
// Buffer Pool for Reply Payloads
// ============================================================================
//
// Read and getxattr replies carry up to MaxReadSize bytes. Pooled buffers are
// reused across calls and returned once the reply has been written,
// whether or not the write succeeded.

const (
	// smallBufferSize covers most getxattr values and small reads.
	smallBufferSize = 4 << 10 // 4KB

	// mediumBufferSize covers typical stdio-sized reads.
	mediumBufferSize = 64 << 10 // 64KB

	// largeBufferSize matches DefaultMaxReadSize.
	largeBufferSize = 1 << 20 // 1MB
)

// bufferPool manages a set of byte slice pools organized by size class.
type bufferPool struct {
	small  sync.Pool // 4KB buffers
	medium sync.Pool // 64KB buffers
	large  sync.Pool // 1MB buffers
}

var globalBufferPool = &bufferPool{
	small: sync.Pool{
		New: func() any {
			buf := make([]byte, smallBufferSize)
			return &buf
		},
	},
	medium: sync.Pool{
		New: func() any {
			buf := make([]byte, mediumBufferSize)
			return &buf
		},
	},
	large: sync.Pool{
		New: func() any {
			buf := make([]byte, largeBufferSize)
			return &buf
		},
	},
}

// Get returns a byte slice of exactly size bytes, backed by a pooled buffer
// when one of the size classes fits. Larger requests are allocated directly.
func (p *bufferPool) Get(size int) []byte {
	var bufPtr *[]byte

	switch {
	case size <= smallBufferSize:
		bufPtr = p.small.Get().(*[]byte)
	case size <= mediumBufferSize:
		bufPtr = p.medium.Get().(*[]byte)
	case size <= largeBufferSize:
		bufPtr = p.large.Get().(*[]byte)
	default:
		return make([]byte, size)
	}

	buf := *bufPtr
	return buf[:size]
}

// Put returns buf to the pool matching its capacity. Buffers that do not
// match a size class are left to the garbage collector.
func (p *bufferPool) Put(buf []byte) {
	if buf == nil {
		return
	}

	fullBuf := buf[:cap(buf)]
	switch cap(buf) {
	case smallBufferSize:
		p.small.Put(&fullBuf)
	case mediumBufferSize:
		p.medium.Put(&fullBuf)
	case largeBufferSize:
		p.large.Put(&fullBuf)
	}
}

// GetBuffer acquires a buffer from the global pool.
//
// Usage:
//
//	buf := GetBuffer(size)
//	defer PutBuffer(buf)
func GetBuffer(size int) []byte {
	return globalBufferPool.Get(size)
}

// PutBuffer returns a buffer to the global pool.
func PutBuffer(buf []byte) {
	globalBufferPool.Put(buf)
}
