// Package bufpool provides pooled byte slices for Job.Buf, sized for
// typical byte-stream read/write chunks rather than block-device I/O.
// Submitting a read or write doesn't require a pooled buffer — Job.Buf
// is always caller-owned — but a caller issuing many short-lived Jobs
// can avoid per-submission allocation by drawing from here and
// returning the buffer once its completion callback has run.
package bufpool

import "sync"

// bucket is one size class: a capacity and the sync.Pool backing it.
// Buckets are held smallest-first so Get can stop at the first one
// that fits.
type bucket struct {
	size int
	pool *sync.Pool
}

func newBucket(size int) bucket {
	return bucket{
		size: size,
		pool: &sync.Pool{New: func() any { b := make([]byte, size); return &b }},
	}
}

// buckets are the pool's size classes. A multiplexer driving many
// concurrent short reads rarely wants more than a page or few at a
// time; 256KB is enough headroom for bulk transfers before a caller
// should just allocate its own buffer.
var buckets = []bucket{
	newBucket(4 * 1024),
	newBucket(16 * 1024),
	newBucket(64 * 1024),
	newBucket(256 * 1024),
}

// Get returns a buffer of at least the requested size, drawn from the
// smallest bucket that fits, or allocated directly if size exceeds
// every bucket. The caller must call Put once the Job that owns the
// buffer has completed.
func Get(size int) []byte {
	for _, b := range buckets {
		if size <= b.size {
			buf := *b.pool.Get().(*[]byte)
			return buf[:size]
		}
	}
	return make([]byte, size)
}

// Put returns a buffer to the bucket matching its capacity. Buffers
// whose capacity doesn't match a bucket exactly (e.g. a caller-grown
// slice, or one too large for any bucket) are dropped instead of
// pooled.
func Put(buf []byte) {
	c := cap(buf)
	buf = buf[:c]
	for _, b := range buckets {
		if c == b.size {
			b.pool.Put(&buf)
			return
		}
	}
}
