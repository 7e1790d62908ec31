package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedPool(t *testing.T) {
	resets := 0
	p := New(
		func() *[]int { s := make([]int, 0, 4); return &s },
		func(s *[]int) { *s = (*s)[:0]; resets++ },
	)

	s := p.Get()
	*s = append(*s, 1, 2)
	p.Put(s)
	assert.Equal(t, 1, resets)

	s2 := p.Get()
	assert.Empty(t, *s2)

	gets, allocs := p.Stats()
	assert.Equal(t, int64(2), gets)
	assert.GreaterOrEqual(t, allocs, int64(1))
}

func TestBufferPoolBuckets(t *testing.T) {
	p := NewBufferPool()

	buf := p.Get(1000)
	require.Len(t, buf, 1000)
	assert.Equal(t, 4096, cap(buf))
	p.Put(buf)

	big := p.Get(32 * 1024 * 1024)
	assert.Len(t, big, 32*1024*1024)
	p.Put(big)
}

func TestGlobalBufferPool(t *testing.T) {
	buf := GlobalBufferPool.Get(64 * 1024)
	require.Len(t, buf, 64*1024)
	GlobalBufferPool.Put(buf)
}
