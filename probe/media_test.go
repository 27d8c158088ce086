package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/st-keller/knowu/platform/platformtest"
)

func TestMediaProbes(t *testing.T) {
	fake := &platformtest.Fake{
		MatchMediaFunc: platformtest.MediaQueries(
			"(color-gamut: p3)",
			"(color-gamut: srgb)",
			"(prefers-contrast: no-preference)",
			"(forced-colors: none)",
			"(inverted-colors: inverted)",
			"(prefers-reduced-motion: reduce)",
		),
	}

	assert.Equal(t, `"p3"`, run(t, ColorGamut(fake)))
	assert.Equal(t, `"none"`, run(t, Contrast(fake)))
	assert.Equal(t, `false`, run(t, ForcedColors(fake)))
	assert.Equal(t, `true`, run(t, InvertedColors(fake)))
	assert.Equal(t, `true`, run(t, ReducedMotion(fake)))
	assert.Equal(t, `null`, run(t, ReducedTransparency(fake)))
}

func TestFirstMatchError(t *testing.T) {
	fake := &platformtest.Fake{
		MatchMediaFunc: func(string) (bool, error) { return false, errors.New("boom") },
	}

	v := ColorGamut(fake)(context.Background())
	assert.False(t, v.Available())
	assert.EqualError(t, v.Err(), "boom")
}

func TestMonochrome(t *testing.T) {
	tests := []struct {
		name    string
		queries []string
		want    string
	}{
		{
			name:    "four bit display",
			queries: []string{"(min-monochrome: 0)", "(max-monochrome: 4)", "(max-monochrome: 5)", "(max-monochrome: 8)"},
			want:    `4`,
		},
		{
			name:    "color display",
			queries: []string{"(min-monochrome: 0)", "(max-monochrome: 0)"},
			want:    `0`,
		},
		{
			name:    "feature unsupported",
			queries: []string{"(max-monochrome: 2)"},
			want:    `null`,
		},
		{
			name:    "depth beyond search range",
			queries: []string{"(min-monochrome: 0)", "(max-monochrome: 33)"},
			want:    `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &platformtest.Fake{MatchMediaFunc: platformtest.MediaQueries(tt.queries...)}
			assert.Equal(t, tt.want, run(t, Monochrome(fake)))
		})
	}
}
