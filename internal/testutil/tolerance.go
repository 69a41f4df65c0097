package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-yin/dsp/core"
)

// RequireRelativeNear fails t if got deviates from want by more than rel
// (relative tolerance, e.g. 0.01 for 1%).
func RequireRelativeNear(t *testing.T, got, want, rel float64) {
	t.Helper()
	if want == 0 {
		if math.Abs(got) > rel {
			t.Fatalf("got %v, want 0 (abs tol %v)", got, rel)
		}
		return
	}
	if !core.NearlyEqual(got, want, rel) {
		t.Fatalf("got %v, want %v (rel diff %.5f > %.5f)", got, want, math.Abs(got-want)/math.Abs(want), rel)
	}
}

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps relative to max(1, |want|).
func RequireSliceNearlyEqual(t *testing.T, got, want []float32, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		g, w := float64(got[i]), float64(want[i])
		scale := math.Max(1, math.Abs(w))
		if diff := math.Abs(g - w); diff > eps*scale {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, g, w, diff, eps*scale)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float32) {
	t.Helper()
	for i, v := range data {
		if !core.IsFinite32(v) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}
