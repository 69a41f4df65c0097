// Package bridge implements the manual-ownership protocol used to run pitch
// detection for a host that cannot share this process's garbage collector,
// such as JavaScript driving a WebAssembly instance.
//
// Every object that crosses the boundary is identified by its address:
//
//   - Memory regions come from Acquire and go back through Release with the
//     same size. The host writes samples into a region before DetectPitch.
//   - DetectPitch returns the address of a Record. The host reads it through
//     the accessors (or directly, using the fixed 12-byte layout) and hands it
//     back with FreeResult exactly once.
//
// The Go heap does not move objects, so an address stays valid as long as the
// object is reachable. The Bridge keeps every live region and record in a
// table until it is released. Addresses are turned back into slices only
// through that table, never by pointer arithmetic on host input.
//
// Misuse (unknown address, size mismatch, double release) panics: the
// boundary has no error channel and the host cannot recover from it.
package bridge
