package yin

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-yin/dsp/core"
)

// ErrLengthMismatch is returned when a window does not match the detector size.
var ErrLengthMismatch = errors.New("yin: window length mismatch")

func validateBufferSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("yin buffer size must be > 0: %d", size)
	}
	return nil
}

func validateSampleRate(sampleRate float64) error {
	if !core.IsFinitePositive(sampleRate) {
		return fmt.Errorf("yin sample rate must be positive and finite: %f", sampleRate)
	}
	return nil
}

func validateThreshold(threshold float64) error {
	if !core.IsFinite(threshold) {
		return fmt.Errorf("yin threshold must be finite: %f", threshold)
	}
	return nil
}

func validateMethod(m Method) error {
	if m != MethodDirect && m != MethodFFT {
		return fmt.Errorf("yin difference method is invalid: %d", m)
	}
	return nil
}
