package probe

import (
	"context"
	"math"

	"github.com/st-keller/knowu/platform"
	"github.com/st-keller/knowu/signal"
	"github.com/st-keller/knowu/types"
)

// AudioFingerprint is the audio signal.
type AudioFingerprint struct {
	Fingerprint float64  `json:"fingerprint"`
	BaseLatency *float64 `json:"baseLatency"`
}

// OscillatorSpec is the fixed render used by the audio probe: one second of a
// 10 kHz sine through a dynamics compressor at 44.1 kHz, mono.
var OscillatorSpec = platform.OscillatorSpec{
	Channels:   1,
	Frames:     44100,
	SampleRate: 44100,
	Waveform:   "sine",
	Frequency:  10000,
	Compressor: true,
}

// Audio renders OscillatorSpec offline and reports the sum of absolute sample
// magnitudes together with the context's base latency hint.
func Audio(p platform.Audio) types.Probe {
	return func(ctx context.Context) signal.Value {
		samples, latency, err := p.RenderOscillator(ctx, OscillatorSpec)
		if err != nil {
			return signal.Unavailable(err)
		}
		if err := ctx.Err(); err != nil {
			return signal.Unavailable(err)
		}

		var sum float64
		for _, s := range samples {
			sum += math.Abs(float64(s))
		}

		return signal.Of(AudioFingerprint{
			Fingerprint: sum,
			BaseLatency: nonZero(latency),
		})
	}
}

// AudioBaseLatency reports a realtime audio context's base latency.
func AudioBaseLatency(p platform.Audio) types.Probe {
	return func(context.Context) signal.Value {
		latency, err := p.BaseLatency()
		if err != nil || latency == 0 {
			return signal.Unavailable(err)
		}
		return signal.Of(latency)
	}
}

func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
