package probe

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"strings"

	"golang.org/x/text/language"

	"github.com/st-keller/knowu/platform"
	"github.com/st-keller/knowu/signal"
	"github.com/st-keller/knowu/types"
)

// ScreenInfo is the screen signal.
type ScreenInfo struct {
	Resolution      [2]int `json:"resolution"`
	ColorDepth      int    `json:"colorDepth"`
	AvailResolution [2]int `json:"availResolution"`
}

// MathValues is the math signal: fixed inputs through the host's math library.
type MathValues struct {
	Acos float64 `json:"acos"`
	Asin float64 `json:"asin"`
	Atan float64 `json:"atan"`
	Sin  float64 `json:"sin"`
	Cos  float64 `json:"cos"`
	Tan  float64 `json:"tan"`
	Exp  float64 `json:"exp"`
	Log  float64 `json:"log"`
}

const unknownTimeZone = "unknown"

// TimeZone reports the IANA time zone, or "unknown".
func TimeZone(p platform.Environment) types.Probe {
	return func(context.Context) signal.Value {
		tz, err := p.TimeZone()
		if err != nil || tz == "" {
			return signal.Of(unknownTimeZone)
		}
		return signal.Of(tz)
	}
}

// DateTimeLocale reports the date/time formatting locale as a canonical BCP 47
// tag. A locale that does not parse is reported verbatim.
func DateTimeLocale(p platform.Environment) types.Probe {
	return func(context.Context) signal.Value {
		raw, err := p.DateTimeLocale()
		if err != nil || raw == "" {
			return signal.Unavailable(err)
		}
		tag, err := language.Parse(raw)
		if err != nil {
			return signal.Of(raw)
		}
		return signal.Of(tag.String())
	}
}

// Languages reports the preferred languages, falling back to the single
// navigator language when no list is exposed.
func Languages(p platform.Environment) types.Probe {
	return func(context.Context) signal.Value {
		nav, err := p.Navigator()
		if err != nil {
			return signal.Unavailable(err)
		}
		if nav.Languages != nil {
			return signal.Of(nav.Languages)
		}
		if nav.Language == "" {
			return signal.Unavailable(errors.New("no language reported"))
		}
		return signal.Of([]string{nav.Language})
	}
}

// navigatorField builds a probe over one navigator field; zero values and
// non-finite floats are reported as Unavailable.
func navigatorField[T comparable](p platform.Environment, get func(platform.Navigator) T) types.Probe {
	return func(context.Context) signal.Value {
		nav, err := p.Navigator()
		if err != nil {
			return signal.Unavailable(err)
		}
		var zero T
		v := get(nav)
		if v == zero {
			return signal.Unavailable(nil)
		}
		if f, ok := any(v).(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return signal.Unavailable(errors.New("non-finite value reported"))
		}
		return signal.Of(v)
	}
}

// PlatformName reports the navigator platform string.
func PlatformName(p platform.Environment) types.Probe {
	return navigatorField(p, func(n platform.Navigator) string { return n.Platform })
}

// Vendor reports the navigator vendor string.
func Vendor(p platform.Environment) types.Probe {
	return navigatorField(p, func(n platform.Navigator) string { return n.Vendor })
}

// CPUClass reports the legacy CPU class string.
func CPUClass(p platform.Environment) types.Probe {
	return navigatorField(p, func(n platform.Navigator) string { return n.CPUClass })
}

// HardwareConcurrency reports the number of logical processors.
func HardwareConcurrency(p platform.Environment) types.Probe {
	return navigatorField(p, func(n platform.Navigator) int { return n.HardwareConcurrency })
}

// DeviceMemory reports the approximate device memory in GiB.
func DeviceMemory(p platform.Environment) types.Probe {
	return navigatorField(p, func(n platform.Navigator) float64 { return n.DeviceMemory })
}

// VendorFlavors reports browser-vendor globals: chrome, safari, opera.
func VendorFlavors(p platform.Environment) types.Probe {
	return func(context.Context) signal.Value {
		has := func(path string) bool {
			ok, err := p.HasGlobal(path)
			return err == nil && ok
		}

		var userAgent string
		if nav, err := p.Navigator(); err == nil {
			userAgent = nav.UserAgent
		}

		flavors := []string{}
		if has("chrome.webstore") {
			flavors = append(flavors, "chrome")
		}
		if has("safari") {
			flavors = append(flavors, "safari")
		}
		if has("opera") || strings.Contains(userAgent, "OPR/") {
			flavors = append(flavors, "opera")
		}
		return signal.Of(flavors)
	}
}

// Architecture reports the byte order of the running process, read from the
// in-memory layout of float32(1.0).
func Architecture() types.Probe {
	return func(context.Context) signal.Value {
		return signal.Of(ByteOrder())
	}
}

// ByteOrder returns "little" or "big".
func ByteOrder() string {
	var buf [4]byte
	binary.NativeEndian.PutUint32(buf[:], math.Float32bits(1.0))
	// 1.0 is 0x3f800000: the low-order byte is zero.
	if buf[0] == 0 {
		return "little"
	}
	return "big"
}

// Math evaluates fixed inputs through the host's math library. Library
// implementations differ in the last bits of these results.
func Math(p platform.Environment) types.Probe {
	return func(context.Context) signal.Value {
		var (
			out      MathValues
			firstErr error
		)
		eval := func(fn string, x float64) float64 {
			v, err := p.Math(fn, x)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			return v
		}

		quarterPi := math.Pi / 4
		out.Acos = eval("acos", quarterPi)
		out.Asin = eval("asin", quarterPi)
		out.Atan = eval("atan", quarterPi)
		out.Sin = eval("sin", quarterPi)
		out.Cos = eval("cos", quarterPi)
		out.Tan = eval("tan", quarterPi)
		out.Exp = eval("exp", 1)
		out.Log = eval("log", 10)

		if firstErr != nil {
			return signal.Unavailable(firstErr)
		}
		return signal.Of(out)
	}
}

// Screen reports resolution, available resolution and color depth.
func Screen(p platform.Environment) types.Probe {
	return func(context.Context) signal.Value {
		s, err := p.Screen()
		if err != nil {
			return signal.Unavailable(err)
		}
		return signal.Of(ScreenInfo{
			Resolution:      [2]int{s.Width, s.Height},
			ColorDepth:      s.ColorDepth,
			AvailResolution: [2]int{s.AvailWidth, s.AvailHeight},
		})
	}
}

// ScreenResolution reports [width, height]. It duplicates screen.resolution
// under the top-level key existing collectors read.
func ScreenResolution(p platform.Environment) types.Probe {
	return func(context.Context) signal.Value {
		s, err := p.Screen()
		if err != nil {
			return signal.Unavailable(err)
		}
		return signal.Of([2]int{s.Width, s.Height})
	}
}
