//go:build js && wasm

package jsplatform

import (
	"context"
	"encoding/binary"
	"math"
	"syscall/js"

	"github.com/st-keller/knowu/platform"
)

func (h *Host) constructor(names ...string) (js.Value, bool) {
	for _, name := range names {
		if ctor := h.global.Get(name); ctor.Type() == js.TypeFunction {
			return ctor, true
		}
	}
	return js.Value{}, false
}

// RenderOscillator builds oscillator -> (compressor ->) destination on an
// offline context and awaits startRendering().
func (h *Host) RenderOscillator(ctx context.Context, spec platform.OscillatorSpec) ([]float32, float64, error) {
	ctor, ok := h.constructor("OfflineAudioContext", "webkitOfflineAudioContext")
	if !ok {
		return nil, 0, platform.Unavailable("offline-audio")
	}

	type pending struct {
		audio   js.Value
		promise js.Value
	}
	p, err := guard("offline-audio", func() (pending, error) {
		audio := ctor.New(spec.Channels, spec.Frames, spec.SampleRate)
		osc := audio.Call("createOscillator")
		osc.Set("type", spec.Waveform)
		osc.Get("frequency").Set("value", spec.Frequency)

		out := audio.Get("destination")
		if spec.Compressor {
			comp := audio.Call("createDynamicsCompressor")
			comp.Call("connect", out)
			out = comp
		}
		osc.Call("connect", out)
		osc.Call("start", 0)

		return pending{audio: audio, promise: audio.Call("startRendering")}, nil
	})
	if err != nil {
		return nil, 0, err
	}

	buffer, err := await(ctx, p.promise)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, err
		}
		return nil, 0, platform.Failed("offline-audio", err)
	}

	samples, err := guard("offline-audio", func() ([]float32, error) {
		return float32s(buffer.Call("getChannelData", 0)), nil
	})
	if err != nil {
		return nil, 0, err
	}

	return samples, num(p.audio.Get("baseLatency")), nil
}

// float32s copies a Float32Array through its bytes; wasm is little-endian.
func float32s(arr js.Value) []float32 {
	n := arr.Get("byteLength").Int()
	view := js.Global().Get("Uint8Array").New(arr.Get("buffer"), arr.Get("byteOffset"), n)
	raw := make([]byte, n)
	js.CopyBytesToGo(raw, view)

	out := make([]float32, n/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out
}

// BaseLatency opens a realtime context, reads baseLatency and closes it.
func (h *Host) BaseLatency() (float64, error) {
	ctor, ok := h.constructor("AudioContext")
	if !ok {
		return 0, platform.Unavailable("audio-context")
	}
	return guard("audio-context", func() (float64, error) {
		audio := ctor.New()
		defer audio.Call("close")
		return num(audio.Get("baseLatency")), nil
	})
}
