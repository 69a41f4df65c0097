package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func TestFrameStarts(t *testing.T) {
	tests := []struct {
		name                             string
		total, size, hop, offset, limit int
		want                             []int
	}{
		{name: "all full windows", total: 10, size: 4, hop: 2, want: []int{0, 2, 4, 6}},
		{name: "hop defaults to size", total: 10, size: 4, want: []int{0, 4}},
		{name: "offset", total: 10, size: 4, hop: 4, offset: 3, want: []int{3}},
		{name: "short signal pads once", total: 3, size: 4, hop: 4, want: []int{0}},
		{name: "limit pads tail", total: 10, size: 4, hop: 4, limit: 3, want: []int{0, 4, 8}},
		{name: "limit stops at end", total: 10, size: 4, hop: 4, limit: 9, want: []int{0, 4, 8}},
		{name: "offset past end", total: 10, size: 4, hop: 4, offset: 20, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := frameStarts(tt.total, tt.size, tt.hop, tt.offset, tt.limit)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("frameStarts = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMixToMono(t *testing.T) {
	stereo := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 2, SampleRate: 8000},
		Data:   []int{16384, 0, -32768, -32768},
	}
	got := mixToMono(stereo, 16)
	want := []float32{0.25, -1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mixToMono(16-bit stereo) = %v, want %v", got, want)
	}

	unsigned := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:   []int{128, 192, 0},
	}
	got = mixToMono(unsigned, 8)
	want = []float32{0, 0.5, -1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mixToMono(8-bit) = %v, want %v", got, want)
	}
}

func TestSynthesize(t *testing.T) {
	src, err := synthesize("sine:440", 44100, 100)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if src.name != "synth:sine:440" || len(src.samples) != 100 || src.samples[0] != 0 {
		t.Fatalf("unexpected source: %s len=%d", src.name, len(src.samples))
	}
	for _, desc := range []string{"sine", "sine:-1", "sine:abc", "square:100"} {
		if _, err := synthesize(desc, 44100, 10); err == nil {
			t.Fatalf("synthesize(%q) succeeded, want error", desc)
		}
	}
}

func TestEnvKey(t *testing.T) {
	if got := envKey("min-confidence"); got != "YIN_MIN_CONFIDENCE" {
		t.Fatalf("envKey = %q", got)
	}
}

func TestApplyEnv(t *testing.T) {
	fset := flag.NewFlagSet("test", flag.ContinueOnError)
	size := fset.Int("size", 2048, "")
	threshold := fset.Float64("threshold", 0.15, "")
	method := fset.String("method", "direct", "")
	if err := fset.Parse([]string{"-size", "512"}); err != nil {
		t.Fatal(err)
	}
	file := map[string]string{"YIN_SIZE": "4096", "YIN_THRESHOLD": "0.2", "YIN_METHOD": "direct"}
	lookup := func(key string) (string, bool) {
		if key == "YIN_METHOD" {
			return "fft", true
		}
		return "", false
	}
	if err := applyEnv(fset, file, lookup); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if *size != 512 {
		t.Fatalf("size = %d, want command-line 512", *size)
	}
	if *threshold != 0.2 {
		t.Fatalf("threshold = %v, want 0.2 from file", *threshold)
	}
	if *method != "fft" {
		t.Fatalf("method = %q, want fft from environment", *method)
	}

	bad := map[string]string{"YIN_THRESHOLD": "high"}
	if err := applyEnv(fset, bad, func(string) (string, bool) { return "", false }); err == nil {
		t.Fatal("expected error for malformed value")
	}
}

func TestRunSynthSine(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-env", "", "-synth", "sine:440", "-frames", "2", "-hop", "1024"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v (stderr: %s)", err, stderr.String())
	}
	out := stdout.String()
	if got := strings.Count(out, "synth:sine:440"); got != 2 {
		t.Fatalf("rows = %d, want 2:\n%s", got, out)
	}
	if !strings.Contains(out, "A4") || !strings.Contains(out, "voiced") {
		t.Fatalf("expected a voiced A4 row:\n%s", out)
	}
}

func TestRunSynthSilence(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-env", "", "-synth", "silence"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "undetected") {
		t.Fatalf("expected undetected row:\n%s", stdout.String())
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no input", args: []string{"-env", ""}},
		{name: "bad method", args: []string{"-env", "", "-method", "cepstrum", "-synth", "noise"}},
		{name: "bad range", args: []string{"-env", "", "-min-freq", "900", "-max-freq", "100", "-synth", "noise"}},
		{name: "missing file", args: []string{"-env", "", filepath.Join(t.TempDir(), "missing.wav")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(tt.args, &stdout, &stderr); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func writeTestWAV(t *testing.T, path string, sampleRate int, samples []float32) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(v * 32767)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
}

func TestLoadWAVAndRun(t *testing.T) {
	dir := t.TempDir()
	src, err := synthesize("sine:220", 22050, 4096)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "a3.wav")
	writeTestWAV(t, path, 22050, src.samples)

	loaded, err := loadWAV(path)
	if err != nil {
		t.Fatalf("loadWAV: %v", err)
	}
	if loaded.sampleRate != 22050 || len(loaded.samples) != 4096 {
		t.Fatalf("loaded rate=%v len=%d", loaded.sampleRate, len(loaded.samples))
	}

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-env", "", "-jobs", "2", path, path}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Count(stdout.String(), "A3"); got != 4 {
		t.Fatalf("A3 rows = %d, want 4:\n%s", got, stdout.String())
	}
}

func TestLoadWAVInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	if err := os.WriteFile(path, []byte("not a wav file"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadWAV(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunSilenceLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-env", "", "-synth", "silence", "-size", "256"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "-inf") {
		t.Fatalf("expected -inf level for silence:\n%s", stdout.String())
	}
}
