package pitch

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-yin/dsp/core"
	"github.com/cwbudde/algo-yin/dsp/pitch/yin"
)

const (
	defaultMinConfidence = 0.85
	defaultMinFrequency  = 60.0
	defaultMaxFrequency  = 1500.0
)

var (
	// ErrInvalidConfig is returned by New for out-of-range options.
	ErrInvalidConfig = errors.New("pitch: invalid config")
)

// Config holds the detector configuration.
type Config struct {
	core.ProcessorConfig

	Threshold     float64
	Method        yin.Method
	MinConfidence float64
	MinFrequency  float64
	MaxFrequency  float64
}

// DefaultConfig returns the configuration used by New without options.
func DefaultConfig() Config {
	return Config{
		ProcessorConfig: core.ApplyProcessorOptions(),
		Threshold:       yin.DefaultThreshold,
		Method:          yin.MethodDirect,
		MinConfidence:   defaultMinConfidence,
		MinFrequency:    defaultMinFrequency,
		MaxFrequency:    defaultMaxFrequency,
	}
}

// Option mutates a Config.
type Option func(*Config) error

// WithSampleRate sets the sample rate in Hz.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) error {
		if !core.IsFinitePositive(sampleRate) {
			return fmt.Errorf("%w: sample rate must be positive and finite: %v", ErrInvalidConfig, sampleRate)
		}
		core.WithSampleRate(sampleRate)(&cfg.ProcessorConfig)
		return nil
	}
}

// WithBlockSize sets the analysis window length in samples.
func WithBlockSize(size int) Option {
	return func(cfg *Config) error {
		if size <= 0 {
			return fmt.Errorf("%w: block size must be > 0: %d", ErrInvalidConfig, size)
		}
		core.WithBlockSize(size)(&cfg.ProcessorConfig)
		return nil
	}
}

// WithThreshold sets the YIN absolute threshold.
func WithThreshold(threshold float64) Option {
	return func(cfg *Config) error {
		if !core.IsFinite(threshold) {
			return fmt.Errorf("%w: threshold must be finite: %v", ErrInvalidConfig, threshold)
		}
		cfg.Threshold = threshold
		return nil
	}
}

// WithMethod selects the difference function implementation.
func WithMethod(m yin.Method) Option {
	return func(cfg *Config) error {
		if m != yin.MethodDirect && m != yin.MethodFFT {
			return fmt.Errorf("%w: unknown method %v", ErrInvalidConfig, m)
		}
		cfg.Method = m
		return nil
	}
}

// WithMinConfidence sets the minimum clarity in [0, 1] for a voiced frame.
func WithMinConfidence(c float64) Option {
	return func(cfg *Config) error {
		if !core.IsFinite(c) || c < 0 || c > 1 {
			return fmt.Errorf("%w: min confidence must be in [0, 1]: %v", ErrInvalidConfig, c)
		}
		cfg.MinConfidence = c
		return nil
	}
}

// WithFrequencyRange sets the accepted frequency range in Hz.
func WithFrequencyRange(minHz, maxHz float64) Option {
	return func(cfg *Config) error {
		if !core.IsFinitePositive(minHz) || !core.IsFinitePositive(maxHz) || minHz >= maxHz {
			return fmt.Errorf("%w: frequency range [%v, %v]", ErrInvalidConfig, minHz, maxHz)
		}
		cfg.MinFrequency = minHz
		cfg.MaxFrequency = maxHz
		return nil
	}
}
