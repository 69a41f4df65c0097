package pitch

import (
	"fmt"

	"github.com/cwbudde/algo-yin/dsp/pitch/note"
	"github.com/cwbudde/algo-yin/dsp/pitch/yin"
)

// Reason explains why a frame was rejected by the gate.
type Reason int

const (
	// ReasonNone marks a voiced frame.
	ReasonNone Reason = iota
	ReasonUndetected
	ReasonLowConfidence
	ReasonBelowRange
	ReasonAboveRange
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "voiced"
	case ReasonUndetected:
		return "undetected"
	case ReasonLowConfidence:
		return "low confidence"
	case ReasonBelowRange:
		return "below range"
	case ReasonAboveRange:
		return "above range"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Estimate is a gated pitch estimate. Note is only set when Voiced.
type Estimate struct {
	Frequency float64
	Clarity   float64
	Voiced    bool
	Reason    Reason
	Note      note.Note
}

// Detector runs YIN on fixed-size windows and gates the result.
// It is not safe for concurrent use.
type Detector struct {
	cfg Config
	yin *yin.Detector
}

// New creates a Detector from DefaultConfig and opts.
func New(opts ...Option) (*Detector, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	y, err := yin.NewDetector(cfg.BlockSize, cfg.SampleRate,
		yin.WithThreshold(cfg.Threshold),
		yin.WithMethod(cfg.Method),
	)
	if err != nil {
		return nil, fmt.Errorf("pitch: %w", err)
	}
	return &Detector{cfg: cfg, yin: y}, nil
}

// Config returns the active configuration.
func (d *Detector) Config() Config { return d.cfg }

// Detect estimates and gates the pitch of buf, which must hold exactly
// BlockSize samples.
func (d *Detector) Detect(buf []float32) (Estimate, error) {
	r, err := d.yin.Detect(buf)
	if err != nil {
		return Estimate{}, fmt.Errorf("pitch: %w", err)
	}
	return d.Gate(r), nil
}

// Gate applies the confidence and range gate to a raw YIN result.
func (d *Detector) Gate(r yin.Result) Estimate {
	e := Estimate{
		Frequency: float64(r.Frequency),
		Clarity:   float64(r.Clarity),
	}
	switch {
	case !r.Detected:
		e.Reason = ReasonUndetected
	case e.Clarity < d.cfg.MinConfidence:
		e.Reason = ReasonLowConfidence
	case e.Frequency < d.cfg.MinFrequency:
		e.Reason = ReasonBelowRange
	case e.Frequency > d.cfg.MaxFrequency:
		e.Reason = ReasonAboveRange
	default:
		if n, err := note.FromFrequency(e.Frequency); err == nil {
			e.Note = n
			e.Voiced = true
		}
	}
	return e
}
