package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a float32 sine wave starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = float32(amplitude * math.Sin(step*float64(i)))
	}
	return out
}

// Harmonics generates a sum of sines at freqHz multiples with the given
// per-partial amplitudes. amplitudes[0] is the fundamental.
func Harmonics(freqHz, sampleRate float64, amplitudes []float64, length int) []float32 {
	out := make([]float32, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		var v float64
		for k, a := range amplitudes {
			v += a * math.Sin(step*float64(k+1)*float64(i))
		}
		out[i] = float32(v)
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = float32((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// Mix returns the element-wise sum of the given signals, truncated to the
// shortest one.
func Mix(signals ...[]float32) []float32 {
	if len(signals) == 0 {
		return nil
	}
	n := len(signals[0])
	for _, s := range signals[1:] {
		n = min(n, len(s))
	}
	out := make([]float32, n)
	for _, s := range signals {
		for i := range out {
			out[i] += s[i]
		}
	}
	return out
}

// Silence returns n zero samples.
func Silence(n int) []float32 {
	return make([]float32, n)
}
