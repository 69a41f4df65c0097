package bridge

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/cwbudde/algo-yin/dsp/pitch/yin"
)

// Bridge owns every region and result record handed to the host.
//
// The zero value is not usable; create one with New.
type Bridge struct {
	mu          sync.Mutex
	regions     map[uintptr]region
	regionBytes uintptr
	results     map[uintptr]*Record
}

// New returns an empty Bridge.
func New() *Bridge {
	return &Bridge{
		regions: make(map[uintptr]region),
		results: make(map[uintptr]*Record),
	}
}

// Stats reports what the host currently owns.
type Stats struct {
	Regions     int
	RegionBytes uintptr
	Results     int
}

// Stats returns the outstanding allocations.
func (b *Bridge) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		Regions:     len(b.regions),
		RegionBytes: b.regionBytes,
		Results:     len(b.results),
	}
}

// DetectPitch runs YIN over length float32 samples stored at addr and
// returns the address of a newly allocated Record. The caller owns the
// record and must pass it to FreeResult once.
//
// The region is only read during the call; the host must not write to it
// concurrently.
func (b *Bridge) DetectPitch(addr uintptr, length int, sampleRate, threshold float32) uintptr {
	samples := b.Float32s(addr, length)
	rec := recordFromResult(yin.Detect(samples, sampleRate, threshold))
	return b.storeRecord(&rec)
}

func (b *Bridge) storeRecord(rec *Record) uintptr {
	h := uintptr(unsafe.Pointer(rec))

	b.mu.Lock()
	defer b.mu.Unlock()
	b.results[h] = rec
	return h
}

// record dereferences a handle. Unknown handles yield nil, so the accessors
// fault on use-after-free instead of reading stale memory.
func (b *Bridge) record(h uintptr) *Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.results[h]
}

// Frequency returns the frequency field of a live record.
func (b *Bridge) Frequency(h uintptr) float32 { return b.record(h).Frequency }

// Clarity returns the clarity field of a live record.
func (b *Bridge) Clarity(h uintptr) float32 { return b.record(h).Clarity }

// Detected returns the detected flag (0 or 1) of a live record.
func (b *Bridge) Detected(h uintptr) uint32 { return b.record(h).Detected }

// FreeResult releases a record returned by DetectPitch. A zero handle is a
// no-op; releasing the same record twice panics.
func (b *Bridge) FreeResult(h uintptr) {
	if h == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.results[h]; !ok {
		panic(fmt.Sprintf("bridge: free of unknown result %#x", h))
	}
	delete(b.results, h)
}

// Estimate performs the full host sequence for samples: acquire, copy,
// detect, read, free and release. Every allocation is released on return,
// including when a step panics.
func (b *Bridge) Estimate(samples []float32, sampleRate, threshold float32) yin.Result {
	size := uintptr(len(samples)) * 4
	addr := b.Acquire(size)
	defer b.Release(addr, size)

	copy(b.Float32s(addr, len(samples)), samples)

	h := b.DetectPitch(addr, len(samples), sampleRate, threshold)
	defer b.FreeResult(h)

	return yin.Result{
		Frequency: b.Frequency(h),
		Clarity:   b.Clarity(h),
		Detected:  b.Detected(h) != 0,
	}
}
