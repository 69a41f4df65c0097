// Command yininfo runs the YIN pitch detector over WAV files or synthetic
// signals and prints one row per analysis window.
//
// Usage:
//
//	yininfo [flags] [file.wav ...]
//
// Examples:
//
//	yininfo voice.wav
//	yininfo -size 4096 -hop 1024 -frames 20 guitar.wav bass.wav
//	yininfo -synth sine:440
//	yininfo -synth noise -threshold 0.3 -min-confidence 0
//
// Flags that are not given on the command line default to YIN_<FLAG>
// environment variables (e.g. YIN_THRESHOLD, YIN_MIN_FREQ), which may also be
// read from the file named by -env.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cwbudde/algo-yin/dsp/pitch"
	"github.com/cwbudde/algo-yin/dsp/pitch/yin"
)

type options struct {
	rate          float64
	size          int
	threshold     float64
	offset        int
	frames        int
	hop           int
	method        string
	synth         string
	minConfidence float64
	minFreq       float64
	maxFreq       float64
	jobs          int
	envFile       string
	verbose       bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fset := flag.NewFlagSet("yininfo", flag.ContinueOnError)
	fset.SetOutput(stderr)

	var o options
	fset.Float64Var(&o.rate, "rate", 44100, "sample rate for -synth in Hz (WAV files use their own)")
	fset.IntVar(&o.size, "size", 2048, "analysis window length in samples")
	fset.Float64Var(&o.threshold, "threshold", yin.DefaultThreshold, "YIN absolute threshold")
	fset.IntVar(&o.offset, "offset", 0, "first sample of the first window")
	fset.IntVar(&o.frames, "frames", 0, "number of windows per source (0 = all full windows)")
	fset.IntVar(&o.hop, "hop", 0, "samples between window starts (0 = -size)")
	fset.StringVar(&o.method, "method", "direct", "difference method: direct or fft")
	fset.StringVar(&o.synth, "synth", "", "analyse a synthetic signal instead of files: sine:FREQ, noise or silence")
	fset.Float64Var(&o.minConfidence, "min-confidence", 0.85, "minimum clarity for a voiced frame")
	fset.Float64Var(&o.minFreq, "min-freq", 60, "lowest accepted frequency in Hz")
	fset.Float64Var(&o.maxFreq, "max-freq", 1500, "highest accepted frequency in Hz")
	fset.IntVar(&o.jobs, "jobs", 4, "number of files analysed concurrently")
	fset.StringVar(&o.envFile, "env", ".env", "optional dotenv file with YIN_* defaults")
	fset.BoolVar(&o.verbose, "v", false, "verbose diagnostics")
	fset.Usage = func() {
		fmt.Fprintf(stderr, "Usage: yininfo [flags] [file.wav ...]\n\n")
		fmt.Fprintf(stderr, "Estimates the pitch of WAV files or synthetic signals with YIN.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fset.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  yininfo voice.wav\n")
		fmt.Fprintf(stderr, "  yininfo -size 4096 -hop 1024 -frames 20 guitar.wav\n")
		fmt.Fprintf(stderr, "  yininfo -synth sine:440\n")
	}
	if err := fset.Parse(args); err != nil {
		return err
	}

	env, err := readEnv(o.envFile)
	if err != nil {
		return err
	}
	if err := applyEnv(fset, env, os.LookupEnv); err != nil {
		return err
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	logger.Debug("config", "env", o.envFile, "entries", len(env), "size", o.size, "hop", o.hop,
		"threshold", o.threshold, "method", o.method)
	if o.hop <= 0 {
		o.hop = o.size
	}

	method, err := yin.ParseMethod(o.method)
	if err != nil {
		return err
	}
	newDetector := func(sampleRate float64) (*pitch.Detector, error) {
		return pitch.New(
			pitch.WithSampleRate(sampleRate),
			pitch.WithBlockSize(o.size),
			pitch.WithThreshold(o.threshold),
			pitch.WithMethod(method),
			pitch.WithMinConfidence(o.minConfidence),
			pitch.WithFrequencyRange(o.minFreq, o.maxFreq),
		)
	}
	// Validate the configuration once before touching any input.
	if _, err := newDetector(o.rate); err != nil {
		return err
	}

	var sources []source
	switch {
	case o.synth != "":
		n := o.offset + o.size
		if o.frames > 1 {
			n += (o.frames - 1) * o.hop
		}
		src, err := synthesize(o.synth, o.rate, n)
		if err != nil {
			return err
		}
		sources = append(sources, src)
	case fset.NArg() == 0:
		fset.Usage()
		return errors.New("no input: give WAV files or -synth")
	}

	an := analyzer{
		size:        o.size,
		hop:         o.hop,
		offset:      o.offset,
		frames:      o.frames,
		jobs:        o.jobs,
		newDetector: newDetector,
		logger:      logger,
	}
	reports, err := an.run(context.Background(), sources, fset.Args())
	if err != nil {
		return err
	}
	return printReports(stdout, reports)
}

// readEnv loads a dotenv file. A missing file is not an error.
func readEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return env, nil
}

// envKey maps a flag name to its environment variable, e.g. min-freq to
// YIN_MIN_FREQ.
func envKey(flagName string) string {
	return "YIN_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

// applyEnv sets every flag that was not given on the command line from the
// process environment or, failing that, from file.
func applyEnv(fset *flag.FlagSet, file map[string]string, lookup func(string) (string, bool)) error {
	explicit := make(map[string]bool)
	fset.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	var err error
	fset.VisitAll(func(f *flag.Flag) {
		if err != nil || explicit[f.Name] || f.Name == "env" {
			return
		}
		key := envKey(f.Name)
		v, ok := lookup(key)
		if !ok {
			v, ok = file[key]
		}
		if !ok {
			return
		}
		if setErr := fset.Set(f.Name, v); setErr != nil {
			err = fmt.Errorf("%s: %w", key, setErr)
		}
	})
	return err
}
