package cache

import (
	"sync"
	"sync/atomic"
)

// pool recycles the backing arrays of released buffers. Reuse keeps the
// cache's steady-state allocation rate low under a write-heavy workload,
// the same role sync.Pool plays for bufio/bytes.Buffer elsewhere in the
// ecosystem.
var pool = sync.Pool{
	New: func() any {
		return new([]byte)
	},
}

// Buffer is a reference-counted, immutable byte holder. A reader that
// calls Read on the cache receives a Buffer already Retain()-ed on its
// behalf; it must call Release when done. The buffer's bytes never
// change after construction, so a reader may keep using it after a
// concurrent Remove or overwrite drops the map's own reference.
type Buffer struct {
	data []byte
	refs int32
}

// newBuffer copies src into a freshly retained buffer (refcount 1).
func newBuffer(src []byte) *Buffer {
	ptr, _ := pool.Get().(*[]byte)
	buf := *ptr
	if cap(buf) < len(src) {
		buf = make([]byte, len(src))
	} else {
		buf = buf[:len(src)]
	}
	copy(buf, src)
	*ptr = buf

	return &Buffer{data: buf, refs: 1}
}

// Bytes returns the buffer's contents. The slice must not be mutated;
// doing so would corrupt the buffer for every other holder of it.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes held.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Retain increments the buffer's refcount and returns it, for callers
// that hand the same buffer to more than one concurrent reader.
func (b *Buffer) Retain() *Buffer {
	atomic.AddInt32(&b.refs, 1)
	return b
}

// Release decrements the buffer's refcount. Once it drops to zero the
// backing array is returned to the pool for reuse; the caller must not
// touch the buffer again after calling Release.
func (b *Buffer) Release() {
	if atomic.AddInt32(&b.refs, -1) == 0 {
		data := b.data
		pool.Put(&data)
	}
}
