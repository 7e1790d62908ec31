// Package pool provides object pooling for buffers used on the read path.
// Pooling keeps the tokenizer and streaming sources allocation-free after
// warm-up, which matters when many byte ranges are parsed concurrently.
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool is a typed wrapper around sync.Pool with hit/miss statistics.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)

	hits   int64
	misses int64
}

// New creates a typed pool. The reset function, if non-nil, is applied
// before an object is returned to the pool.
func New[T any](newFn func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.misses, 1)
		return newFn()
	}
	return p
}

// Get retrieves an object from the pool, allocating if empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.hits, 1)
	return p.pool.Get().(T)
}

// Put returns an object to the pool after resetting it.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	p.pool.Put(obj)
}

// Stats returns the pool's Get call count and allocation count.
func (p *Pool[T]) Stats() (gets, allocs int64) {
	return atomic.LoadInt64(&p.hits), atomic.LoadInt64(&p.misses)
}

// BufferPool manages byte buffers in power-of-two size buckets.
type BufferPool struct {
	pools []*Pool[[]byte]
	sizes []int
}

// NewBufferPool creates a buffer pool with buckets from 4KB to 16MB.
// Requests larger than the largest bucket are allocated directly.
func NewBufferPool() *BufferPool {
	sizes := []int{
		4096,     // 4KB
		65536,    // 64KB
		1048576,  // 1MB
		16777216, // 16MB
	}

	pools := make([]*Pool[[]byte], len(sizes))
	for i, size := range sizes {
		size := size
		pools[i] = New(
			func() []byte { return make([]byte, size) },
			nil,
		)
	}

	return &BufferPool{pools: pools, sizes: sizes}
}

// Get returns a buffer of at least the requested size, length set to size.
func (p *BufferPool) Get(size int) []byte {
	for i, s := range p.sizes {
		if s >= size {
			return p.pools[i].Get()[:size]
		}
	}
	return make([]byte, size)
}

// Put returns a buffer to its bucket. Buffers whose capacity matches no
// bucket are left to the garbage collector.
func (p *BufferPool) Put(buf []byte) {
	size := cap(buf)
	for i, s := range p.sizes {
		if s == size {
			p.pools[i].Put(buf[:s])
			return
		}
	}
}

// GlobalBufferPool is the process-wide buffer pool used by streaming sources.
var GlobalBufferPool = NewBufferPool()
