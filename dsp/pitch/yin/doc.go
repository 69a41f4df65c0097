// Package yin implements the YIN fundamental-frequency estimator
// (de Cheveigné & Kawahara, 2002) over a single float32 analysis window.
//
// The estimator runs four stages over the first half of the window:
//   - Difference: squared-difference function per lag.
//   - CumulativeMeanNormalize: rescale by the running mean, buf[0] = 1.
//   - AbsoluteThreshold: first lag below the threshold, descended to its local minimum.
//   - ParabolicInterpolation: sub-sample refinement of that lag.
//
// Detect is stateless and allocates its scratch buffer per call. Detector
// keeps the scratch buffer (and an optional FFT plan) for repeated use on
// equally sized windows.
package yin
