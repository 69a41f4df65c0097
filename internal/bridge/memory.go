package bridge

import (
	"fmt"
	"math"
	"unsafe"
)

// Alignment is the alignment of every region returned by Acquire. It matches
// the widest primitive crossing the boundary (float32 / uint32).
const Alignment = 4

// maxRegionSize is the largest size whose rounding to Alignment cannot overflow.
const maxRegionSize = math.MaxInt - (Alignment - 1)

type region struct {
	words []uint32
	size  uintptr
}

// Acquire allocates a zeroed region of size bytes aligned to Alignment and
// returns its address. Acquire(0) returns 0.
//
// A size that cannot form a valid allocation panics.
func (b *Bridge) Acquire(size uintptr) uintptr {
	if size > maxRegionSize {
		panic(fmt.Sprintf("bridge: invalid allocation request of %d bytes", size))
	}
	if size == 0 {
		return 0
	}

	words := make([]uint32, (size+Alignment-1)/Alignment)
	addr := uintptr(unsafe.Pointer(&words[0]))

	b.mu.Lock()
	defer b.mu.Unlock()
	b.regions[addr] = region{words: words, size: size}
	b.regionBytes += size
	return addr
}

// Release frees a region returned by Acquire. size must be the value passed
// to Acquire. Releasing an unknown address, releasing twice, or passing a
// different size panics. Release(0, 0) is a no-op.
func (b *Bridge) Release(addr, size uintptr) {
	if addr == 0 && size == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.regions[addr]
	if !ok {
		panic(fmt.Sprintf("bridge: release of unknown region %#x", addr))
	}
	if r.size != size {
		panic(fmt.Sprintf("bridge: release of region %#x with size %d, acquired with %d", addr, size, r.size))
	}
	delete(b.regions, addr)
	b.regionBytes -= size
}

// Bytes returns the region at addr as a byte slice of its acquired size.
func (b *Bridge) Bytes(addr uintptr) []byte {
	if addr == 0 {
		return nil
	}
	r := b.lookup(addr)
	return unsafe.Slice((*byte)(unsafe.Pointer(&r.words[0])), r.size)
}

// Float32s returns a view of count float32 values starting at addr. addr
// must be the base of an acquired region large enough to hold them.
func (b *Bridge) Float32s(addr uintptr, count int) []float32 {
	if count < 0 {
		panic(fmt.Sprintf("bridge: negative sample count %d", count))
	}
	if count == 0 {
		return nil
	}
	r := b.lookup(addr)
	if uintptr(count) > r.size/4 {
		panic(fmt.Sprintf("bridge: %d samples exceed region %#x of %d bytes", count, addr, r.size))
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.words[0])), count)
}

func (b *Bridge) lookup(addr uintptr) region {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.regions[addr]
	if !ok {
		panic(fmt.Sprintf("bridge: unknown region %#x", addr))
	}
	return r
}
