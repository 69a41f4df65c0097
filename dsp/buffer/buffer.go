package buffer

import "github.com/cwbudde/algo-yin/dsp/core"

// Buffer wraps a float32 slice with reuse-friendly semantics.
// Detectors accept raw []float32; use Samples() to bridge.
type Buffer struct {
	samples []float32
}

// New returns a zero-filled Buffer of the given length.
func New(length int) *Buffer {
	if length < 0 {
		length = 0
	}
	return &Buffer{samples: make([]float32, length)}
}

// FromSlice wraps an existing slice without copying.
// Mutations to the slice are visible through the Buffer and vice versa.
func FromSlice(s []float32) *Buffer {
	return &Buffer{samples: s}
}

// Samples returns the underlying slice.
func (b *Buffer) Samples() []float32 {
	return b.samples
}

// Len returns the current number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Cap returns the current capacity of the backing slice.
func (b *Buffer) Cap() int {
	return cap(b.samples)
}

// Resize sets the length to n, reusing existing capacity when possible.
// New elements beyond the previous length are zeroed.
func (b *Buffer) Resize(n int) {
	if n < 0 {
		n = 0
	}
	oldLen := len(b.samples)
	if n <= cap(b.samples) {
		b.samples = core.EnsureLen(b.samples, n)
	} else {
		s := make([]float32, n)
		core.CopyInto(s, b.samples)
		b.samples = s
	}
	// Newly exposed elements may hold stale data from earlier use of the
	// backing array.
	if n > oldLen {
		core.Zero(b.samples[oldLen:])
	}
}

// Zero sets all samples to 0.
func (b *Buffer) Zero() {
	core.Zero(b.samples)
}

// LoadWindow fills the buffer with src[start:start+Len()]. Positions that
// fall outside src are zero. It returns the number of samples taken from src.
func (b *Buffer) LoadWindow(src []float32, start int) int {
	b.Zero()
	if start < 0 || start >= len(src) {
		return 0
	}
	return core.CopyInto(b.samples, src[start:])
}

// Copy returns a deep copy of the buffer.
func (b *Buffer) Copy() *Buffer {
	s := make([]float32, len(b.samples))
	core.CopyInto(s, b.samples)
	return &Buffer{samples: s}
}
