package yin

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-yin/internal/testutil"
)

func TestNewDetector(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		sampleRate float64
		opts       []Option
		wantErr    bool
	}{
		{name: "valid defaults", size: 2048, sampleRate: 44100},
		{name: "valid fft", size: 1024, sampleRate: 48000, opts: []Option{WithMethod(MethodFFT)}},
		{name: "valid tiny fft", size: 1, sampleRate: 48000, opts: []Option{WithMethod(MethodFFT)}},
		{name: "nil option ignored", size: 64, sampleRate: 8000, opts: []Option{nil}},
		{name: "invalid size", size: 0, sampleRate: 44100, wantErr: true},
		{name: "invalid negative size", size: -4, sampleRate: 44100, wantErr: true},
		{name: "invalid zero rate", size: 2048, sampleRate: 0, wantErr: true},
		{name: "invalid NaN rate", size: 2048, sampleRate: math.NaN(), wantErr: true},
		{name: "invalid +Inf rate", size: 2048, sampleRate: math.Inf(1), wantErr: true},
		{
			name: "invalid NaN threshold", size: 2048, sampleRate: 44100,
			opts: []Option{WithThreshold(math.NaN())}, wantErr: true,
		},
		{
			name: "invalid method", size: 2048, sampleRate: 44100,
			opts: []Option{WithMethod(Method(7))}, wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDetector(tt.size, tt.sampleRate, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewDetector() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && d == nil {
				t.Fatal("NewDetector() returned nil without error")
			}
		})
	}
}

func TestDetectorAccessors(t *testing.T) {
	d, err := NewDetector(1024, 48000, WithThreshold(0.1), WithMethod(MethodFFT))
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}
	if d.BufferSize() != 1024 {
		t.Fatalf("BufferSize() = %d, want 1024", d.BufferSize())
	}
	if d.SampleRate() != 48000 {
		t.Fatalf("SampleRate() = %v, want 48000", d.SampleRate())
	}
	if math.Abs(d.Threshold()-0.1) > 1e-7 {
		t.Fatalf("Threshold() = %v, want 0.1", d.Threshold())
	}
	if d.Method() != MethodFFT {
		t.Fatalf("Method() = %v, want fft", d.Method())
	}

	if err := d.SetThreshold(0.2); err != nil {
		t.Fatalf("SetThreshold() error = %v", err)
	}
	if err := d.SetThreshold(math.Inf(1)); err == nil {
		t.Fatal("SetThreshold(+Inf) should fail")
	}
	if math.Abs(d.Threshold()-0.2) > 1e-7 {
		t.Fatalf("Threshold() = %v after rejected update, want 0.2", d.Threshold())
	}
}

func TestDetectorLengthMismatch(t *testing.T) {
	d, err := NewDetector(512, 44100)
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}
	_, err = d.Detect(make([]float32, 511))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("Detect() error = %v, want ErrLengthMismatch", err)
	}
}

func TestDetectorMatchesDetect(t *testing.T) {
	d, err := NewDetector(2048, 44100, WithThreshold(0.1))
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}

	signals := [][]float32{
		testutil.DeterministicSine(440, 44100, 0.5, 2048),
		testutil.Silence(2048),
		testutil.DeterministicSine(123.47, 44100, 0.9, 2048),
		testutil.DeterministicNoise(5, 0.3, 2048),
	}
	// Reusing the scratch buffer across different inputs must not leak state.
	for i, s := range signals {
		got, err := d.Detect(s)
		if err != nil {
			t.Fatalf("signal %d: Detect() error = %v", i, err)
		}
		want := Detect(s, 44100, 0.1)
		if got != want {
			t.Fatalf("signal %d: Detector = %+v, Detect = %+v", i, got, want)
		}
	}
}

func TestDetectorFFTMatchesDirect(t *testing.T) {
	direct, err := NewDetector(2048, 44100)
	if err != nil {
		t.Fatalf("NewDetector(direct) error = %v", err)
	}
	fft, err := NewDetector(2048, 44100, WithMethod(MethodFFT))
	if err != nil {
		t.Fatalf("NewDetector(fft) error = %v", err)
	}

	for _, freq := range []float64{98, 220, 440, 880, 1760} {
		samples := testutil.DeterministicSine(freq, 44100, 0.6, 2048)

		want, err := direct.Detect(samples)
		if err != nil {
			t.Fatalf("%v Hz: direct Detect() error = %v", freq, err)
		}
		got, err := fft.Detect(samples)
		if err != nil {
			t.Fatalf("%v Hz: fft Detect() error = %v", freq, err)
		}

		if got.Detected != want.Detected {
			t.Fatalf("%v Hz: fft detected=%v, direct detected=%v", freq, got.Detected, want.Detected)
		}
		testutil.RequireRelativeNear(t, float64(got.Frequency), float64(want.Frequency), 1e-3)
		testutil.RequireRelativeNear(t, float64(got.Clarity), float64(want.Clarity), 1e-3)
	}
}

func TestDetectorFFTSilence(t *testing.T) {
	d, err := NewDetector(1024, 44100, WithMethod(MethodFFT))
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}
	got, err := d.Detect(testutil.Silence(1024))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got.Detected {
		t.Fatalf("Detect(silence) = %+v, want undetected", got)
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{in: "direct", want: MethodDirect},
		{in: "", want: MethodDirect},
		{in: " FFT ", want: MethodFFT},
		{in: "autocorr", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMethod(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMethod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("ParseMethod(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if !tt.wantErr && got.String() == "" {
				t.Fatal("String() is empty")
			}
		})
	}
}
