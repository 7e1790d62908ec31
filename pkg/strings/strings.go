// Package strings provides zero-copy string utilities shared by the parsing hot path.
package strings

import (
	"fmt"
	"sync"
	"unsafe"
)

// BytesToString converts a byte slice to a string without allocation.
// WARNING: the returned string shares memory with the byte slice.
// Do not modify the byte slice after calling this function.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// StringToBytes converts a string to a byte slice without allocation.
// WARNING: the returned slice shares memory with the string.
// Do not modify the returned slice.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Clone returns a copy of s backed by freshly allocated memory.
// Use it before retaining a string produced by BytesToString.
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, s)
	return BytesToString(b)
}

// Builder accumulates bytes and yields a string without a final copy.
type Builder struct {
	buf []byte
}

// NewBuilder creates a builder with the given initial capacity.
func NewBuilder(capacity int) *Builder {
	return &Builder{buf: make([]byte, 0, capacity)}
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns the built string using zero-copy conversion.
func (b *Builder) String() string {
	return BytesToString(b.buf)
}

// Len returns the number of accumulated bytes.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset resets the builder for reuse.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

var builderPool = sync.Pool{
	New: func() interface{} {
		return NewBuilder(256)
	},
}

// GetBuilder retrieves a pooled builder.
func GetBuilder() *Builder {
	return builderPool.Get().(*Builder)
}

// PutBuilder returns a builder to the pool.
func PutBuilder(b *Builder) {
	b.Reset()
	builderPool.Put(b)
}

// Sprintf provides a pooled alternative to fmt.Sprintf.
func Sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}

	b := GetBuilder()
	defer PutBuilder(b)

	fmt.Fprintf(b, format, args...)
	return Clone(b.String())
}
