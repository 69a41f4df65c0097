package yin

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-yin/dsp/core"
)

// fftDifference computes the YIN difference function through
//
//	d(tau) = e(0) + e(tau) - 2 r(tau)
//
// where e(tau) is the energy of samples[tau:tau+half] and r(tau) is the
// cross-correlation of the window head with the whole window.
type fftDifference struct {
	size    int // window length
	half    int
	fftSize int
	plan    *algofft.Plan[complex128]

	x       []float64
	squares []float64
	full    []complex128
	head    []complex128
	fullF   []complex128
	headF   []complex128
}

// minFFTSize keeps tiny windows away from degenerate plan sizes.
const minFFTSize = 16

func newFFTDifference(size int) (*fftDifference, error) {
	half := size / 2
	if half == 0 {
		return &fftDifference{size: size}, nil
	}
	fftSize := max(nextPowerOf2(size+half), minFFTSize)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("yin: failed to create FFT plan: %w", err)
	}

	return &fftDifference{
		size:    size,
		half:    half,
		fftSize: fftSize,
		plan:    plan,
		x:       make([]float64, size),
		squares: make([]float64, size),
		full:    make([]complex128, fftSize),
		head:    make([]complex128, fftSize),
		fullF:   make([]complex128, fftSize),
		headF:   make([]complex128, fftSize),
	}, nil
}

// compute writes the difference function of samples into dst.
// len(samples) must equal f.size and len(dst) must equal f.half.
func (f *fftDifference) compute(dst, samples []float32) error {
	if f.half == 0 {
		return nil
	}

	f.x = core.ToFloat64(f.x, samples)
	vecmath.MulBlock(f.squares, f.x, f.x)

	clear(f.full)
	clear(f.head)
	for i, v := range f.x {
		f.full[i] = complex(v, 0)
	}
	for i := range f.half {
		f.head[i] = complex(f.x[i], 0)
	}

	if err := f.plan.Forward(f.fullF, f.full); err != nil {
		return fmt.Errorf("yin: forward FFT failed: %w", err)
	}
	if err := f.plan.Forward(f.headF, f.head); err != nil {
		return fmt.Errorf("yin: forward FFT failed: %w", err)
	}

	// FULL * conj(HEAD) -> r(tau) = sum_i x[i+tau] * x[i]
	for k, h := range f.headF {
		f.fullF[k] *= complex(real(h), -imag(h))
	}

	if err := f.plan.Inverse(f.full, f.fullF); err != nil {
		return fmt.Errorf("yin: inverse FFT failed: %w", err)
	}

	var e0 float64
	for _, s := range f.squares[:f.half] {
		e0 += s
	}

	eTau := e0
	for tau := range dst {
		d := e0 + eTau - 2*real(f.full[tau])
		if d < 0 {
			// Rounding noise around exact zero.
			d = 0
		}
		dst[tau] = float32(d)
		eTau += f.squares[tau+f.half] - f.squares[tau]
	}
	dst[0] = 0

	return nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
