// Package buffer provides a reusable float32 sample buffer and pool for
// frame-by-frame pitch analysis. Detectors accept raw []float32 slices;
// Buffer is an optional convenience that helps callers reuse analysis
// windows instead of allocating one per frame.
package buffer
