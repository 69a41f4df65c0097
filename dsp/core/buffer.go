package core

// Sample is the set of sample types handled by the helpers in this package.
type Sample interface {
	~float32 | ~float64
}

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
// Reused elements keep their previous contents.
func EnsureLen[T Sample](buf []T, n int) []T {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]T, n)
}

// Zero sets all values in buf to 0.
func Zero[T Sample](buf []T) {
	clear(buf)
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto[T Sample](dst, src []T) int {
	return copy(dst, src)
}

// ToFloat64 widens src into dst and returns dst resized to len(src).
func ToFloat64(dst []float64, src []float32) []float64 {
	dst = EnsureLen(dst, len(src))
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}
