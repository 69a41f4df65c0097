//go:build wasip1

// Command yinabi is a WebAssembly reactor exporting the YIN detector over a
// flat uint32/float32 ABI. Build it with
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o yin.wasm ./cmd/yinabi
//
// A host acquires input memory with alloc, writes little-endian float32
// samples into it, calls detect_pitch, reads the result through the get_*
// accessors and finally calls free_result and dealloc.
package main

import "github.com/cwbudde/algo-yin/internal/bridge"

var abi = bridge.New()

func main() {}

//go:wasmexport alloc
func alloc(size uint32) uint32 {
	return uint32(abi.Acquire(uintptr(size)))
}

//go:wasmexport dealloc
func dealloc(ptr, size uint32) {
	abi.Release(uintptr(ptr), uintptr(size))
}

//go:wasmexport detect_pitch
func detectPitch(ptr, length uint32, sampleRate, threshold float32) uint32 {
	return uint32(abi.DetectPitch(uintptr(ptr), int(length), sampleRate, threshold))
}

//go:wasmexport get_frequency
func getFrequency(h uint32) float32 {
	return abi.Frequency(uintptr(h))
}

//go:wasmexport get_clarity
func getClarity(h uint32) float32 {
	return abi.Clarity(uintptr(h))
}

//go:wasmexport get_detected
func getDetected(h uint32) uint32 {
	return abi.Detected(uintptr(h))
}

//go:wasmexport free_result
func freeResult(h uint32) {
	abi.FreeResult(uintptr(h))
}
