package hostplatform

import (
	"context"
	"fmt"
	"math"

	"github.com/st-keller/knowu/platform"
)

// Dynamics compressor defaults of the Web Audio API.
const (
	compressorThreshold = -24.0 // dB
	compressorKnee      = 30.0  // dB
	compressorRatio     = 12.0
	compressorAttack    = 0.003 // s
	compressorRelease   = 0.25  // s
)

// cancelCheckFrames is how often rendering polls the context.
const cancelCheckFrames = 4096

// RenderOscillator renders spec in software. Only the first channel is produced.
func (h *Host) RenderOscillator(ctx context.Context, spec platform.OscillatorSpec) ([]float32, float64, error) {
	if spec.Frames <= 0 || spec.SampleRate <= 0 {
		return nil, 0, platform.Failed("offline-audio", fmt.Errorf("invalid render %d frames at %g Hz", spec.Frames, spec.SampleRate))
	}
	wave, err := waveform(spec.Waveform)
	if err != nil {
		return nil, 0, platform.Failed("offline-audio", err)
	}

	var comp *compressor
	if spec.Compressor {
		comp = newCompressor(spec.SampleRate)
	}

	out := make([]float32, spec.Frames)
	step := spec.Frequency / spec.SampleRate
	for i := range out {
		if i%cancelCheckFrames == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}

		_, phase := math.Modf(float64(i) * step)
		s := wave(phase)
		if comp != nil {
			s = comp.process(s)
		}
		out[i] = float32(s)
	}

	return out, 0, nil
}

func waveform(name string) (func(phase float64) float64, error) {
	switch name {
	case "", "sine":
		return func(p float64) float64 { return math.Sin(2 * math.Pi * p) }, nil
	case "square":
		return func(p float64) float64 {
			if p < 0.5 {
				return 1
			}
			return -1
		}, nil
	case "sawtooth":
		return func(p float64) float64 { return 2*p - 1 }, nil
	case "triangle":
		return func(p float64) float64 { return 1 - 4*math.Abs(p-0.5) }, nil
	default:
		return nil, fmt.Errorf("unsupported waveform %q", name)
	}
}

// compressor is a feed-forward soft-knee compressor with attack/release
// smoothing of the gain reduction.
type compressor struct {
	attack  float64
	release float64
	gain    float64 // current reduction, dB (<= 0)
}

func newCompressor(sampleRate float64) *compressor {
	return &compressor{
		attack:  math.Exp(-1 / (compressorAttack * sampleRate)),
		release: math.Exp(-1 / (compressorRelease * sampleRate)),
	}
}

func (c *compressor) process(s float64) float64 {
	level := -120.0
	if a := math.Abs(s); a > 1e-6 {
		level = 20 * math.Log10(a)
	}

	target := staticCurve(level) - level
	coeff := c.release
	if target < c.gain {
		coeff = c.attack
	}
	c.gain = coeff*c.gain + (1-coeff)*target

	return s * math.Pow(10, c.gain/20)
}

func staticCurve(x float64) float64 {
	over := x - compressorThreshold
	switch {
	case 2*over < -compressorKnee:
		return x
	case 2*math.Abs(over) <= compressorKnee:
		k := over + compressorKnee/2
		return x + (1/compressorRatio-1)*k*k/(2*compressorKnee)
	default:
		return compressorThreshold + over/compressorRatio
	}
}
