package bridge

import "github.com/cwbudde/algo-yin/dsp/pitch/yin"

// RecordSize is the size in bytes of a Record as seen by the host.
const RecordSize = 12

// Record is the fixed-layout pitch result handed to the host.
//
// Field order and widths are part of the boundary contract: frequency at
// offset 0, clarity at 4, detected at 8, 4-byte alignment.
type Record struct {
	Frequency float32
	Clarity   float32
	Detected  uint32 // 0 = no pitch, 1 = pitch detected
}

func recordFromResult(r yin.Result) Record {
	rec := Record{Frequency: r.Frequency, Clarity: r.Clarity}
	if r.Detected {
		rec.Detected = 1
	}
	return rec
}
