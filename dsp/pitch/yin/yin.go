package yin

import "github.com/cwbudde/algo-yin/dsp/core"

// DefaultThreshold is the conventional YIN absolute threshold.
const DefaultThreshold = 0.15

// minLag is the first lag considered as a period. Lags 0 and 1 are never
// plausible periods.
const minLag = 2

// Result is a single pitch estimate.
//
// Frequency is only meaningful when Detected is true. Clarity is
// 1 - d'(tau) at the chosen lag: 1 means perfect periodicity.
type Result struct {
	Frequency float32
	Clarity   float32
	Detected  bool
}

// Detect estimates the pitch of samples. half = len(samples)/2 lags are
// evaluated; windows shorter than 6 samples leave the search range empty
// and are reported as undetected. threshold is not validated.
func Detect(samples []float32, sampleRate, threshold float32) Result {
	buf := make([]float32, len(samples)/2)
	Difference(buf, samples)
	CumulativeMeanNormalize(buf)
	return estimate(buf, sampleRate, threshold)
}

// Difference writes the squared-difference function of samples into dst:
//
//	dst[tau] = sum_{i<len(dst)} (samples[i] - samples[i+tau])^2
//
// for every tau in [0, len(dst)). samples must hold at least 2*len(dst)
// values; Difference panics otherwise.
func Difference(dst, samples []float32) {
	half := len(dst)
	if len(samples) < 2*half {
		panic("yin: difference buffer longer than half the samples")
	}
	head := samples[:half]
	for tau := range dst {
		shifted := samples[tau : tau+half]
		var sum float32
		for i, v := range head {
			d := v - shifted[i]
			// The explicit conversion keeps the compiler from fusing d*d+sum.
			sum += float32(d * d)
		}
		dst[tau] = sum
	}
}

// CumulativeMeanNormalize turns a difference function into the cumulative
// mean normalized difference d'(tau) in place. buf[0] is set to exactly 1.
//
// A window of silence yields 0/0 = NaN for every tau >= 1; NaN never passes
// the threshold comparison so silence is reported as undetected.
func CumulativeMeanNormalize(buf []float32) {
	if len(buf) == 0 {
		return
	}
	buf[0] = 1
	var runningSum float32
	for tau := 1; tau < len(buf); tau++ {
		runningSum += buf[tau]
		buf[tau] = buf[tau] * float32(tau) / runningSum
	}
}

// AbsoluteThreshold returns the first lag >= 2 whose normalized difference
// is strictly below threshold, advanced while the following value keeps
// decreasing. The search stops at the first crossing even if a deeper
// minimum exists at a larger lag.
func AbsoluteThreshold(buf []float32, threshold float32) (int, bool) {
	for tau := minLag; tau < len(buf); tau++ {
		if buf[tau] < threshold {
			for tau+1 < len(buf) && buf[tau+1] < buf[tau] {
				tau++
			}
			return tau, true
		}
	}
	return 0, false
}

// ParabolicInterpolation refines tau by fitting a parabola through
// buf[tau-1], buf[tau] and buf[tau+1]. It returns tau unchanged at the
// buffer edges or when the vertex offset is not finite.
func ParabolicInterpolation(buf []float32, tau int) float32 {
	if tau <= 0 || tau >= len(buf)-1 {
		return float32(tau)
	}
	s0, s1, s2 := buf[tau-1], buf[tau], buf[tau+1]
	shift := (s0 - s2) / (2 * (s0 - float32(2*s1) + s2))
	if !core.IsFinite32(shift) {
		return float32(tau)
	}
	return float32(tau) + shift
}

// estimate runs the threshold search and refinement over a normalized buffer.
func estimate(buf []float32, sampleRate, threshold float32) Result {
	te, ok := AbsoluteThreshold(buf, threshold)
	if !ok {
		return Result{}
	}
	refined := ParabolicInterpolation(buf, te)
	return Result{
		Frequency: sampleRate / refined,
		Clarity:   1 - buf[te],
		Detected:  true,
	}
}
