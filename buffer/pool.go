package buffer

import "sync"

const (
	// maxPooledSize is the largest request the pool will serve. A 16384x16384
	// 8-bit frame with full-resolution chroma stays under this.
	maxPooledSize = 1 << 30

	// buffersPerSize bounds how many free buffers are retained per size
	// class, keeping worst-case pool footprint proportional to the number of
	// distinct frame geometries in flight.
	buffersPerSize = 4
)

// RecyclePool hands out byte buffers and accepts them back for reuse,
// matching on exact allocated size. Down-conversion requests the same few
// sizes over and over, so exact-size matching avoids both fragmentation and
// per-frame allocation on the hot path.
//
// The pool is safe for concurrent use from multiple decode goroutines; all
// synchronization is internal.
type RecyclePool struct {
	mu   sync.Mutex
	free map[int][][]byte
}

// NewRecyclePool returns an empty pool.
func NewRecyclePool() *RecyclePool {
	return &RecyclePool{free: make(map[int][][]byte)}
}

// GetBuffer returns a buffer of exactly n bytes, reusing a recycled
// allocation when one of matching size is available. It returns nil when n
// is not positive or exceeds the pool's size ceiling; callers treat nil as
// allocation failure.
func (p *RecyclePool) GetBuffer(n int) []byte {
	if n <= 0 || n > maxPooledSize {
		return nil
	}
	p.mu.Lock()
	bucket := p.free[n]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.free[n] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		clear(buf)
		return buf
	}
	p.mu.Unlock()
	return make([]byte, n)
}

// RecycleBuffer returns a buffer to the pool under its allocated size,
// which may exceed the logical length the caller used. Buffers outside the
// pool's limits, or arriving when the size class is full, are dropped for
// the garbage collector to reclaim.
func (p *RecyclePool) RecycleBuffer(buf []byte, allocated int) {
	if buf == nil || allocated <= 0 || allocated > maxPooledSize || allocated > cap(buf) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free[allocated]) >= buffersPerSize {
		return
	}
	p.free[allocated] = append(p.free[allocated], buf[:allocated])
}
