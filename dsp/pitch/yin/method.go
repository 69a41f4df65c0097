package yin

import (
	"fmt"
	"strings"
)

// Method selects how the difference function is computed.
type Method int

const (
	// MethodDirect evaluates the difference function lag by lag in float32.
	// It is O(half^2) and is the reference behaviour.
	MethodDirect Method = iota
	// MethodFFT derives the same difference function from an FFT
	// cross-correlation in float64. Results agree with MethodDirect up to
	// rounding and are considerably faster for large windows.
	MethodFFT
)

// String returns the lower-case method name.
func (m Method) String() string {
	switch m {
	case MethodDirect:
		return "direct"
	case MethodFFT:
		return "fft"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod parses "direct" or "fft" (case-insensitive).
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct", "":
		return MethodDirect, nil
	case "fft":
		return MethodFFT, nil
	default:
		return 0, fmt.Errorf("yin: unknown difference method %q", s)
	}
}
