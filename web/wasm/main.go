//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cwbudde/algo-yin/dsp/buffer"
	"github.com/cwbudde/algo-yin/dsp/pitch/yin"
	"github.com/cwbudde/algo-yin/internal/bridge"
)

var (
	abi   = bridge.New()
	pool  = buffer.NewPool()
	funcs []js.Func
)

func main() {
	api := js.Global().Get("Object").New()

	api.Set("alloc", export(func(args []js.Value) any {
		if len(args) < 1 {
			return 0
		}
		return float64(abi.Acquire(uintptr(args[0].Int())))
	}))

	api.Set("dealloc", export(func(args []js.Value) any {
		if len(args) < 2 {
			return js.Null()
		}
		abi.Release(addr(args[0]), uintptr(args[1].Int()))
		return js.Null()
	}))

	// write copies the bytes of a typed array into an acquired region and
	// returns the number of bytes copied.
	api.Set("write", export(func(args []js.Value) any {
		if len(args) < 2 {
			return 0
		}
		return js.CopyBytesToGo(abi.Bytes(addr(args[0])), byteView(args[1]))
	}))

	api.Set("detectPitch", export(func(args []js.Value) any {
		if len(args) < 4 {
			return 0
		}
		h := abi.DetectPitch(addr(args[0]), args[1].Int(), float32(args[2].Float()), float32(args[3].Float()))
		return float64(h)
	}))

	api.Set("frequency", export(func(args []js.Value) any {
		if len(args) < 1 {
			return 0
		}
		return abi.Frequency(addr(args[0]))
	}))

	api.Set("clarity", export(func(args []js.Value) any {
		if len(args) < 1 {
			return 0
		}
		return abi.Clarity(addr(args[0]))
	}))

	api.Set("detected", export(func(args []js.Value) any {
		if len(args) < 1 {
			return 0
		}
		return abi.Detected(addr(args[0]))
	}))

	api.Set("freeResult", export(func(args []js.Value) any {
		if len(args) < 1 {
			return js.Null()
		}
		abi.FreeResult(addr(args[0]))
		return js.Null()
	}))

	// detect(samples Float32Array, sampleRate, threshold?) runs the whole
	// acquire/detect/release sequence and returns a plain object.
	api.Set("detect", export(func(args []js.Value) any {
		if len(args) < 2 {
			return js.Null()
		}
		input := args[0]
		threshold := float32(yin.DefaultThreshold)
		if len(args) > 2 && args[2].Type() == js.TypeNumber {
			threshold = float32(args[2].Float())
		}

		frame := pool.Get(input.Length())
		defer pool.Put(frame)
		samples := frame.Samples()
		for i := range samples {
			samples[i] = float32(input.Index(i).Float())
		}

		r := abi.Estimate(samples, float32(args[1].Float()), threshold)
		out := js.Global().Get("Object").New()
		out.Set("frequency", r.Frequency)
		out.Set("clarity", r.Clarity)
		out.Set("detected", r.Detected)
		return out
	}))

	js.Global().Set("AlgoYIN", api)
	select {}
}

func addr(v js.Value) uintptr {
	return uintptr(v.Int())
}

// byteView returns a Uint8Array over the same memory as a typed array.
func byteView(v js.Value) js.Value {
	return js.Global().Get("Uint8Array").New(v.Get("buffer"), v.Get("byteOffset"), v.Get("byteLength"))
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
