package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/st-keller/knowu/platform"
	"github.com/st-keller/knowu/platform/platformtest"
)

func TestAudioSumsMagnitudes(t *testing.T) {
	var got platform.OscillatorSpec
	fake := &platformtest.Fake{
		RenderOscillatorFunc: func(_ context.Context, spec platform.OscillatorSpec) ([]float32, float64, error) {
			got = spec
			return []float32{0.5, -0.25, 1}, 0, nil
		},
	}

	assert.JSONEq(t, `{"fingerprint":1.75,"baseLatency":null}`, run(t, Audio(fake)))
	assert.Equal(t, OscillatorSpec, got)
	assert.Equal(t, 44100, got.Frames)
	assert.Equal(t, 10000.0, got.Frequency)
	assert.True(t, got.Compressor)
}

func TestAudioReportsLatency(t *testing.T) {
	fake := &platformtest.Fake{
		RenderOscillatorFunc: func(context.Context, platform.OscillatorSpec) ([]float32, float64, error) {
			return []float32{-0.5}, 0.005, nil
		},
	}

	assert.JSONEq(t, `{"fingerprint":0.5,"baseLatency":0.005}`, run(t, Audio(fake)))
}

func TestAudioFailures(t *testing.T) {
	failing := &platformtest.Fake{
		RenderOscillatorFunc: func(context.Context, platform.OscillatorSpec) ([]float32, float64, error) {
			return nil, 0, errors.New("render failed")
		},
	}
	assert.Equal(t, `null`, run(t, Audio(failing)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	late := &platformtest.Fake{
		RenderOscillatorFunc: func(context.Context, platform.OscillatorSpec) ([]float32, float64, error) {
			return []float32{1}, 0, nil
		},
	}
	v := Audio(late)(ctx)
	assert.False(t, v.Available())
	assert.ErrorIs(t, v.Err(), context.Canceled)
}

func TestAudioBaseLatency(t *testing.T) {
	fake := &platformtest.Fake{BaseLatencyFunc: func() (float64, error) { return 0.01, nil }}
	assert.Equal(t, `0.01`, run(t, AudioBaseLatency(fake)))

	fake.BaseLatencyFunc = func() (float64, error) { return 0, nil }
	assert.Equal(t, `null`, run(t, AudioBaseLatency(fake)))
}
