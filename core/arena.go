package core

import "unsafe"

const arenaChunkSize = 64 * 1024

// Arena owns the byte buffers produced while parsing one document: decoded
// string payloads and filtered stream data. Buffers are carved out of large
// chunks and are never released individually; dropping the Arena releases
// everything at once.
//
// Composite values (arrays, dictionaries) are ordinary Go values; the Arena
// only keeps a running size for them so that BytesUsed stays meaningful.
type Arena struct {
	chunks    [][]byte
	cur       []byte
	allocated int64
	tracked   int64
	values    int64
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc returns a zeroed slice of n bytes owned by the arena.
func (a *Arena) Alloc(n int) []byte {
	if n <= 0 {
		return nil
	}
	if a == nil {
		return make([]byte, n)
	}
	a.allocated += int64(n)

	// Large requests get a chunk of their own so they don't waste the tail
	// of the current one.
	if n > arenaChunkSize/4 {
		buf := make([]byte, n)
		a.chunks = append(a.chunks, buf)
		return buf
	}
	if len(a.cur) < n {
		a.cur = make([]byte, arenaChunkSize)
		a.chunks = append(a.chunks, a.cur)
	}
	buf := a.cur[:n:n]
	a.cur = a.cur[n:]
	return buf
}

// Copy stores a copy of b in the arena.
func (a *Arena) Copy(b []byte) []byte {
	buf := a.Alloc(len(b))
	copy(buf, b)
	return buf
}

// Track records the footprint of a value: one interface slot plus the
// payload it refers to.
func (a *Arena) Track(obj Object) {
	if a == nil {
		return
	}
	a.values++
	n := int64(unsafe.Sizeof(Object(nil)))
	switch v := obj.(type) {
	case String:
		n += int64(len(v))
	case HexString:
		n += int64(len(v))
	case Name:
		n += int64(len(v))
	case Array:
		n += int64(len(v)) * int64(unsafe.Sizeof(Object(nil)))
	case Dict:
		n += int64(len(v)) * int64(unsafe.Sizeof(Object(nil))+unsafe.Sizeof(""))
	case *Stream:
		n += int64(unsafe.Sizeof(Stream{}))
	}
	a.tracked += n
}

// Size reports the number of bytes handed out or tracked by the arena.
func (a *Arena) Size() int64 {
	if a == nil {
		return 0
	}
	return a.allocated + a.tracked
}

// Values reports how many values were tracked.
func (a *Arena) Values() int64 {
	if a == nil {
		return 0
	}
	return a.values
}

// Footprint reports the chunk capacity plus the tracked value bytes, which
// live outside the chunks.
func (a *Arena) Footprint() int64 {
	if a == nil {
		return 0
	}
	return a.Reserved() + a.tracked
}

// Reserved reports the total capacity of the chunks held by the arena.
func (a *Arena) Reserved() int64 {
	if a == nil {
		return 0
	}
	var n int64
	for _, c := range a.chunks {
		n += int64(cap(c))
	}
	return n
}
