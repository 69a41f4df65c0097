package yin

import "fmt"

// Option configures a Detector.
type Option func(*detectorConfig) error

type detectorConfig struct {
	threshold float64
	method    Method
}

func defaultDetectorConfig() detectorConfig {
	return detectorConfig{
		threshold: DefaultThreshold,
		method:    MethodDirect,
	}
}

// WithThreshold sets the absolute threshold. Any finite value is accepted;
// typical values are 0.10-0.15.
func WithThreshold(threshold float64) Option {
	return func(cfg *detectorConfig) error {
		if err := validateThreshold(threshold); err != nil {
			return err
		}
		cfg.threshold = threshold
		return nil
	}
}

// WithMethod selects the difference function implementation.
func WithMethod(m Method) Option {
	return func(cfg *detectorConfig) error {
		if err := validateMethod(m); err != nil {
			return err
		}
		cfg.method = m
		return nil
	}
}

// Detector runs YIN on fixed-size windows and reuses its scratch buffer
// between calls, so Detect does not allocate in steady state.
//
// A Detector is not safe for concurrent use.
type Detector struct {
	size       int
	sampleRate float32
	threshold  float32
	method     Method

	buf []float32
	fft *fftDifference
}

// NewDetector creates a detector for windows of bufferSize samples.
func NewDetector(bufferSize int, sampleRate float64, opts ...Option) (*Detector, error) {
	if err := validateBufferSize(bufferSize); err != nil {
		return nil, err
	}
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}

	cfg := defaultDetectorConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("yin detector option: %w", err)
		}
	}

	d := &Detector{
		size:       bufferSize,
		sampleRate: float32(sampleRate),
		threshold:  float32(cfg.threshold),
		method:     cfg.method,
		buf:        make([]float32, bufferSize/2),
	}
	if cfg.method == MethodFFT {
		fft, err := newFFTDifference(bufferSize)
		if err != nil {
			return nil, err
		}
		d.fft = fft
	}
	return d, nil
}

// BufferSize returns the expected window length.
func (d *Detector) BufferSize() int { return d.size }

// SampleRate returns the sample rate in Hz.
func (d *Detector) SampleRate() float64 { return float64(d.sampleRate) }

// Threshold returns the absolute threshold.
func (d *Detector) Threshold() float64 { return float64(d.threshold) }

// Method returns the difference function implementation in use.
func (d *Detector) Method() Method { return d.method }

// SetThreshold updates the absolute threshold.
func (d *Detector) SetThreshold(threshold float64) error {
	if err := validateThreshold(threshold); err != nil {
		return err
	}
	d.threshold = float32(threshold)
	return nil
}

// Detect estimates the pitch of samples, which must hold exactly
// BufferSize values.
func (d *Detector) Detect(samples []float32) (Result, error) {
	if len(samples) != d.size {
		return Result{}, fmt.Errorf("%w: expected %d samples, got %d", ErrLengthMismatch, d.size, len(samples))
	}

	if d.fft != nil {
		if err := d.fft.compute(d.buf, samples); err != nil {
			return Result{}, err
		}
	} else {
		Difference(d.buf, samples)
	}
	CumulativeMeanNormalize(d.buf)

	return estimate(d.buf, d.sampleRate, d.threshold), nil
}
