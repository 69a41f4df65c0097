// Package time computes time-domain level statistics of analysis windows.
package time

import "math"

// Stats holds level statistics of one window.
//
//nolint:revive
type Stats struct {
	Length        int
	DC            float64 // mean
	RMS           float64
	RMS_dB        float64 // dBFS, -Inf for silence
	Peak          float64 // max |x|
	Peak_dB       float64
	CrestFactor   float64 // peak / RMS (linear), 0 for silence
	ZeroCrossings int
}

// ampTodB converts an amplitude value to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(a)
}

// Calculate computes all statistics in a single pass. Sums are accumulated
// in float64.
func Calculate(frame []float32) Stats {
	n := len(frame)
	if n == 0 {
		return Stats{RMS_dB: math.Inf(-1), Peak_dB: math.Inf(-1)}
	}

	var sum, sumSq, peak float64
	var crossings int
	for i, v := range frame {
		x := float64(v)
		sum += x
		sumSq += x * x
		if a := math.Abs(x); a > peak {
			peak = a
		}
		if i > 0 && float64(frame[i-1])*x < 0 {
			crossings++
		}
	}

	rms := math.Sqrt(sumSq / float64(n))
	crest := 0.0
	if rms > 0 {
		crest = peak / rms
	}
	return Stats{
		Length:        n,
		DC:            sum / float64(n),
		RMS:           rms,
		RMS_dB:        ampTodB(rms),
		Peak:          peak,
		Peak_dB:       ampTodB(peak),
		CrestFactor:   crest,
		ZeroCrossings: crossings,
	}
}

// RMS returns the root-mean-square of frame.
func RMS(frame []float32) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range frame {
		x := float64(v)
		sumSq += x * x
	}
	return math.Sqrt(sumSq / float64(len(frame)))
}

// RMSdB returns the RMS level of frame in dBFS.
func RMSdB(frame []float32) float64 {
	return ampTodB(RMS(frame))
}
