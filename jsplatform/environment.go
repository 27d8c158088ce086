//go:build js && wasm

package jsplatform

import (
	"syscall/js"

	"github.com/st-keller/knowu/platform"
)

// Navigator reads the navigator object.
func (h *Host) Navigator() (platform.Navigator, error) {
	return guard("navigator", func() (platform.Navigator, error) {
		nav := h.global.Get("navigator")
		if !defined(nav) {
			return platform.Navigator{}, platform.Unavailable("navigator")
		}

		out := platform.Navigator{
			UserAgent:           str(nav.Get("userAgent")),
			Language:            str(nav.Get("language")),
			Platform:            str(nav.Get("platform")),
			Vendor:              str(nav.Get("vendor")),
			CPUClass:            str(nav.Get("cpuClass")),
			HardwareConcurrency: int(num(nav.Get("hardwareConcurrency"))),
			DeviceMemory:        num(nav.Get("deviceMemory")),
			MaxTouchPoints:      int(num(nav.Get("maxTouchPoints"))),
			PDFViewerEnabled:    nav.Get("pdfViewerEnabled").Truthy(),
		}
		if langs := nav.Get("languages"); defined(langs) {
			out.Languages = stringList(langs, str)
		}
		out.Plugins = stringList(nav.Get("plugins"), func(p js.Value) string {
			return str(p.Get("name"))
		})
		if out.Plugins == nil {
			out.Plugins = []string{}
		}
		return out, nil
	})
}

// Screen reads the screen object.
func (h *Host) Screen() (platform.Screen, error) {
	return guard("screen", func() (platform.Screen, error) {
		s := h.global.Get("screen")
		if !defined(s) {
			return platform.Screen{}, platform.Unavailable("screen")
		}
		return platform.Screen{
			Width:       int(num(s.Get("width"))),
			Height:      int(num(s.Get("height"))),
			AvailWidth:  int(num(s.Get("availWidth"))),
			AvailHeight: int(num(s.Get("availHeight"))),
			ColorDepth:  int(num(s.Get("colorDepth"))),
		}, nil
	})
}

func (h *Host) resolvedOptions() (js.Value, error) {
	intl := h.global.Get("Intl")
	if !defined(intl) {
		return js.Value{}, platform.Unavailable("intl")
	}
	return intl.Get("DateTimeFormat").New().Call("resolvedOptions"), nil
}

// TimeZone reads Intl.DateTimeFormat().resolvedOptions().timeZone.
func (h *Host) TimeZone() (string, error) {
	return guard("intl", func() (string, error) {
		opts, err := h.resolvedOptions()
		if err != nil {
			return "", err
		}
		return str(opts.Get("timeZone")), nil
	})
}

// DateTimeLocale reads Intl.DateTimeFormat().resolvedOptions().locale.
func (h *Host) DateTimeLocale() (string, error) {
	return guard("intl", func() (string, error) {
		opts, err := h.resolvedOptions()
		if err != nil {
			return "", err
		}
		return str(opts.Get("locale")), nil
	})
}

// Math calls Math[fn](x).
func (h *Host) Math(fn string, x float64) (float64, error) {
	return guard("math", func() (float64, error) {
		f := h.global.Get("Math").Get(fn)
		if f.Type() != js.TypeFunction {
			return 0, platform.Unavailable("math")
		}
		return h.global.Get("Math").Call(fn, x).Float(), nil
	})
}
