// Package note converts between frequencies and equal-tempered note names
// (A4 = 440 Hz, MIDI note 69).
package note

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-yin/dsp/core"
)

const (
	// A4Frequency is the concert pitch reference in Hz.
	A4Frequency = 440.0
	// A4Midi is the MIDI note number of A4.
	A4Midi = 69
)

var (
	// ErrInvalidFrequency is returned for frequencies that are not finite and positive.
	ErrInvalidFrequency = errors.New("note: frequency must be positive and finite")
	// ErrInvalidNote is returned when a note name cannot be parsed.
	ErrInvalidNote = errors.New("note: invalid note name")
)

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var naturalOffsets = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// Note is an equal-tempered pitch with an optional cent deviation.
type Note struct {
	Name   string // sharp spelling, e.g. "C#"
	Octave int
	Midi   int
	Cents  float64 // deviation from the nominal pitch, in [-50, 50]
}

// String returns scientific pitch notation, e.g. "A4".
func (n Note) String() string {
	return n.Name + strconv.Itoa(n.Octave)
}

// Frequency returns the frequency of the note including its cent deviation.
func (n Note) Frequency() float64 {
	return MidiToFrequency(float64(n.Midi) + n.Cents/100)
}

// FrequencyToMidi returns the fractional MIDI note number for hz.
func FrequencyToMidi(hz float64) float64 {
	return A4Midi + 12*math.Log2(hz/A4Frequency)
}

// MidiToFrequency returns the frequency of a (fractional) MIDI note number.
func MidiToFrequency(midi float64) float64 {
	return A4Frequency * math.Exp2((midi-A4Midi)/12)
}

// FromMidi returns the note for a MIDI note number.
func FromMidi(midi int) Note {
	pc := midi % 12
	if pc < 0 {
		pc += 12
	}
	return Note{
		Name:   sharpNames[pc],
		Octave: (midi-pc)/12 - 1,
		Midi:   midi,
	}
}

// FromFrequency returns the nearest note to hz and its deviation in cents.
func FromFrequency(hz float64) (Note, error) {
	if !core.IsFinitePositive(hz) {
		return Note{}, fmt.Errorf("%w: %v", ErrInvalidFrequency, hz)
	}
	m := FrequencyToMidi(hz)
	nearest := math.Round(m)
	n := FromMidi(int(nearest))
	n.Cents = 100 * (m - nearest)
	return n, nil
}

// Parse reads scientific pitch notation such as "A4", "C#3", "Bb2" or "G-1".
// Flats are normalised to their sharp spelling.
func Parse(s string) (Note, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Note{}, fmt.Errorf("%w: empty", ErrInvalidNote)
	}
	pc, ok := naturalOffsets[byte(strings.ToUpper(s[:1])[0])]
	if !ok {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}
	rest := s[1:]
	if rest != "" {
		switch rest[0] {
		case '#':
			pc++
			rest = rest[1:]
		case 'b':
			pc--
			rest = rest[1:]
		}
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Note{}, fmt.Errorf("%w: %q: octave: %w", ErrInvalidNote, s, err)
	}
	return FromMidi((octave+1)*12 + pc), nil
}

// ToFrequency returns the frequency of the named pitch class in octave,
// e.g. ToFrequency("A", 4) = 440.
func ToFrequency(name string, octave int) (float64, error) {
	n, err := Parse(name + strconv.Itoa(octave))
	if err != nil {
		return 0, err
	}
	return MidiToFrequency(float64(n.Midi)), nil
}

// IntervalBetween returns the signed distance in semitones from a to b.
func IntervalBetween(a, b string) (int, error) {
	na, err := Parse(a)
	if err != nil {
		return 0, err
	}
	nb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return nb.Midi - na.Midi, nil
}
