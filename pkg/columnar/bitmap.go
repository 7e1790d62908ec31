package columnar

// Bitmap is a bit-packed validity indicator: 64 entries per word.
// A set bit means the entry at that position is present (non-NA).
type Bitmap struct {
	words []uint64
	count int
}

// Append records the validity of the next entry.
func (b *Bitmap) Append(valid bool) {
	word := b.count / 64
	bit := b.count % 64

	if word >= len(b.words) {
		b.words = append(b.words, 0)
	}
	if valid {
		b.words[word] |= 1 << bit
	}
	b.count++
}

// Valid reports whether entry i is present.
func (b *Bitmap) Valid(i int) bool {
	return b.words[i/64]&(1<<(i%64)) != 0
}

// Len returns the number of recorded entries.
func (b *Bitmap) Len() int {
	return b.count
}

// NullCount returns the number of missing entries.
func (b *Bitmap) NullCount() int {
	nulls := b.count
	for i := 0; i < b.count; i++ {
		if b.Valid(i) {
			nulls--
		}
	}
	return nulls
}

// appendAll copies all entries from another bitmap.
func (b *Bitmap) appendAll(o *Bitmap) {
	for i := 0; i < o.count; i++ {
		b.Append(o.Valid(i))
	}
}
