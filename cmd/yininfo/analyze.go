package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-yin/dsp/buffer"
	"github.com/cwbudde/algo-yin/dsp/pitch"
	timestats "github.com/cwbudde/algo-yin/stats/time"
)

type row struct {
	frame    int
	start    int
	levelDB  float64
	estimate pitch.Estimate
}

type report struct {
	source     string
	sampleRate float64
	rows       []row
}

type analyzer struct {
	size, hop, offset, frames int
	jobs                      int
	newDetector               func(sampleRate float64) (*pitch.Detector, error)
	logger                    *slog.Logger

	pool *buffer.Pool
}

// frameStarts returns the first sample of each window. With limit <= 0 it
// returns every window that fits entirely in total samples, or a single
// zero-padded window when none does. With limit > 0 exactly limit windows
// are returned while they start inside the signal; trailing ones are
// zero-padded.
func frameStarts(total, size, hop, offset, limit int) []int {
	if hop <= 0 {
		hop = size
	}
	var starts []int
	for start := max(offset, 0); start < total; start += hop {
		if limit > 0 && len(starts) == limit {
			break
		}
		if limit <= 0 && start+size > total && len(starts) > 0 {
			break
		}
		starts = append(starts, start)
	}
	return starts
}

// run analyses the in-memory sources followed by the WAV files at paths.
// Reports keep input order.
func (a *analyzer) run(ctx context.Context, sources []source, paths []string) ([]report, error) {
	if a.pool == nil {
		a.pool = buffer.NewPool()
	}
	reports := make([]report, len(sources)+len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.jobs, 1))
	for i := range reports {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var src source
			if i < len(sources) {
				src = sources[i]
			} else {
				path := paths[i-len(sources)]
				var err error
				if src, err = loadWAV(path); err != nil {
					return err
				}
				a.logger.Debug("decoded", "file", path, "rate", src.sampleRate, "samples", len(src.samples))
			}
			rep, err := a.analyze(src)
			if err != nil {
				return fmt.Errorf("%s: %w", src.name, err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (a *analyzer) analyze(src source) (report, error) {
	det, err := a.newDetector(src.sampleRate)
	if err != nil {
		return report{}, err
	}
	starts := frameStarts(len(src.samples), a.size, a.hop, a.offset, a.frames)
	if len(starts) == 0 {
		a.logger.Warn("no windows", "source", src.name, "samples", len(src.samples), "offset", a.offset)
	}

	frame := a.pool.Get(a.size)
	defer a.pool.Put(frame)

	rep := report{source: src.name, sampleRate: src.sampleRate, rows: make([]row, 0, len(starts))}
	for i, start := range starts {
		if n := frame.LoadWindow(src.samples, start); n < a.size {
			a.logger.Debug("zero-padded window", "source", src.name, "frame", i, "samples", n)
		}
		e, err := det.Detect(frame.Samples())
		if err != nil {
			return report{}, err
		}
		rep.rows = append(rep.rows, row{
			frame:    i,
			start:    start,
			levelDB:  timestats.RMSdB(frame.Samples()),
			estimate: e,
		})
	}
	return rep, nil
}

func printReports(w io.Writer, reports []report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Source\tFrame\tTime [s]\tLevel [dBFS]\tFreq [Hz]\tClarity\tNote\tCents\tVerdict\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "------\t-----\t--------\t------------\t---------\t-------\t----\t-----\t-------\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rep := range reports {
		for _, r := range rep.rows {
			e := r.estimate
			hz, noteName, cents := "-", "-", "-"
			level := "-inf"
			if !math.IsInf(r.levelDB, -1) {
				level = fmt.Sprintf("%.1f", r.levelDB)
			}
			if e.Reason != pitch.ReasonUndetected {
				hz = fmt.Sprintf("%.2f", e.Frequency)
			}
			if e.Voiced {
				noteName = e.Note.String()
				cents = fmt.Sprintf("%+.1f", e.Note.Cents)
			}
			if _, err := fmt.Fprintf(tw, "%s\t%d\t%.3f\t%s\t%s\t%.3f\t%s\t%s\t%s\n",
				rep.source,
				r.frame,
				float64(r.start)/rep.sampleRate,
				level,
				hz,
				e.Clarity,
				noteName,
				cents,
				e.Reason,
			); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}
	return tw.Flush()
}
