package probe

import (
	"context"
	"fmt"

	"github.com/st-keller/knowu/platform"
	"github.com/st-keller/knowu/signal"
	"github.com/st-keller/knowu/types"
)

// MediaOption pairs a media-feature predicate with the value reported when it
// is the first to match.
type MediaOption struct {
	Query string
	Value any
}

// maxMonochromeBits bounds the linear search for the monochrome depth.
const maxMonochromeBits = 32

// FirstMatch evaluates options in order and reports the value of the first
// matching predicate, or Unavailable when none match.
func FirstMatch(p platform.MediaMatcher, options []MediaOption) types.Probe {
	return func(context.Context) signal.Value {
		for _, opt := range options {
			matched, err := p.MatchMedia(opt.Query)
			if err != nil {
				return signal.Unavailable(err)
			}
			if matched {
				return signal.Of(opt.Value)
			}
		}
		return signal.Unavailable(nil)
	}
}

// ColorGamut reports the widest supported gamut: rec2020, p3 or srgb.
func ColorGamut(p platform.MediaMatcher) types.Probe {
	return FirstMatch(p, []MediaOption{
		{"(color-gamut: rec2020)", "rec2020"},
		{"(color-gamut: p3)", "p3"},
		{"(color-gamut: srgb)", "srgb"},
	})
}

// Contrast reports the contrast preference: more, less or none.
func Contrast(p platform.MediaMatcher) types.Probe {
	return FirstMatch(p, []MediaOption{
		{"(prefers-contrast: more)", "more"},
		{"(prefers-contrast: less)", "less"},
		{"(prefers-contrast: no-preference)", "none"},
	})
}

// ForcedColors reports whether a forced color palette is active.
func ForcedColors(p platform.MediaMatcher) types.Probe {
	return FirstMatch(p, []MediaOption{
		{"(forced-colors: active)", true},
		{"(forced-colors: none)", false},
	})
}

// InvertedColors reports whether the display inverts colors.
func InvertedColors(p platform.MediaMatcher) types.Probe {
	return FirstMatch(p, []MediaOption{
		{"(inverted-colors: inverted)", true},
		{"(inverted-colors: none)", false},
	})
}

// ReducedMotion reports the reduced motion preference.
func ReducedMotion(p platform.MediaMatcher) types.Probe {
	return FirstMatch(p, []MediaOption{
		{"(prefers-reduced-motion: reduce)", true},
		{"(prefers-reduced-motion: no-preference)", false},
	})
}

// ReducedTransparency reports the reduced transparency preference.
func ReducedTransparency(p platform.MediaMatcher) types.Probe {
	return FirstMatch(p, []MediaOption{
		{"(prefers-reduced-transparency: reduce)", true},
		{"(prefers-reduced-transparency: no-preference)", false},
	})
}

// Monochrome reports the bits per pixel of a monochrome display (0 for color
// displays). It probes (max-monochrome: i) upward from 0 and reports the first
// satisfied bound; Unavailable when (min-monochrome: 0) itself does not match.
func Monochrome(p platform.MediaMatcher) types.Probe {
	return func(context.Context) signal.Value {
		supported, err := p.MatchMedia("(min-monochrome: 0)")
		if err != nil || !supported {
			return signal.Unavailable(err)
		}

		for i := 0; i <= maxMonochromeBits; i++ {
			matched, err := p.MatchMedia(fmt.Sprintf("(max-monochrome: %d)", i))
			if err != nil {
				return signal.Unavailable(err)
			}
			if matched {
				return signal.Of(i)
			}
		}

		return signal.Unavailable(nil)
	}
}
