package main

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// source is a mono signal to analyse.
type source struct {
	name       string
	sampleRate float64
	samples    []float32
}

var errInvalidWAV = errors.New("invalid wav file")

// loadWAV decodes a PCM WAV file and mixes it down to mono.
func loadWAV(path string) (source, error) {
	f, err := os.Open(path)
	if err != nil {
		return source{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return source{}, fmt.Errorf("%s: %w", path, errInvalidWAV)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return source{}, fmt.Errorf("%s: decode: %w", path, err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return source{}, fmt.Errorf("%s: %w: missing format", path, errInvalidWAV)
	}

	return source{
		name:       path,
		sampleRate: float64(buf.Format.SampleRate),
		samples:    mixToMono(buf, int(dec.BitDepth)),
	}, nil
}

// mixToMono averages interleaved channels and scales integer PCM to [-1, 1).
// 8-bit WAV data is unsigned and is recentred first.
func mixToMono(buf *audio.IntBuffer, bitDepth int) []float32 {
	channels := 1
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		channels = buf.Format.NumChannels
	}
	if bitDepth <= 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := 1 / math.Exp2(float64(bitDepth-1))
	bias := 0
	if bitDepth == 8 {
		bias = 128
	}

	frames := len(buf.Data) / channels
	out := make([]float32, frames)
	for i := range out {
		var sum float64
		for _, v := range buf.Data[i*channels : (i+1)*channels] {
			sum += float64(v - bias)
		}
		out[i] = float32(sum / float64(channels) * scale)
	}
	return out
}

// synthesize builds a test signal from desc: "sine:FREQ", "noise" or
// "silence".
func synthesize(desc string, sampleRate float64, n int) (source, error) {
	kind, arg, _ := strings.Cut(strings.ToLower(strings.TrimSpace(desc)), ":")
	samples := make([]float32, n)
	switch kind {
	case "sine":
		freq, err := strconv.ParseFloat(arg, 64)
		if err != nil || freq <= 0 || math.IsInf(freq, 0) {
			return source{}, fmt.Errorf("synth %q: frequency must be a positive number", desc)
		}
		w := 2 * math.Pi * freq / sampleRate
		for i := range samples {
			samples[i] = float32(0.8 * math.Sin(w*float64(i)))
		}
	case "noise":
		rng := rand.New(rand.NewPCG(1, 2))
		for i := range samples {
			samples[i] = float32(0.8 * (2*rng.Float64() - 1))
		}
	case "silence":
	default:
		return source{}, fmt.Errorf("synth %q: unknown signal (want sine:FREQ, noise or silence)", desc)
	}
	return source{name: "synth:" + strings.TrimSpace(desc), sampleRate: sampleRate, samples: samples}, nil
}
