// Package platformtest provides a configurable in-memory Platform for tests.
package platformtest

import (
	"context"
	"sync"

	"github.com/st-keller/knowu/platform"
)

// Fake implements platform.Platform. Every hook left nil reports the capability
// as unavailable, so a zero Fake models a host with nothing to offer.
type Fake struct {
	RenderCanvasFunc     func(scene platform.CanvasScene) (string, error)
	GLInfoFunc           func() (platform.GLInfo, error)
	GLExtensionsFunc     func() ([]string, error)
	TextWidthFunc        func(text, fontFamily, fontSize string) (float64, error)
	RenderOscillatorFunc func(ctx context.Context, spec platform.OscillatorSpec) ([]float32, float64, error)
	BaseLatencyFunc      func() (float64, error)
	MatchMediaFunc       func(query string) (bool, error)
	NavigatorFunc        func() (platform.Navigator, error)
	ScreenFunc           func() (platform.Screen, error)
	TimeZoneFunc         func() (string, error)
	DateTimeLocaleFunc   func() (string, error)
	HasGlobalFunc        func(path string) (bool, error)
	MathFunc             func(fn string, x float64) (float64, error)
	TitleFunc            func() (string, error)
	QuerySelectorAllFunc func(selector string) ([]platform.ElementStyle, error)
	CanCreateEventFunc   func(eventType string) (bool, error)
	AttributionFunc      func() (string, error)

	mu        sync.Mutex
	listeners map[int]func()
	nextID    int
}

var _ platform.Platform = (*Fake)(nil)

// MediaQueries returns a MatchMediaFunc that matches exactly the given queries.
func MediaQueries(matching ...string) func(string) (bool, error) {
	set := make(map[string]struct{}, len(matching))
	for _, q := range matching {
		set[q] = struct{}{}
	}
	return func(q string) (bool, error) {
		_, ok := set[q]
		return ok, nil
	}
}

func (f *Fake) RenderCanvas(scene platform.CanvasScene) (string, error) {
	if f.RenderCanvasFunc == nil {
		return "", platform.Unavailable("canvas")
	}
	return f.RenderCanvasFunc(scene)
}

func (f *Fake) GLInfo() (platform.GLInfo, error) {
	if f.GLInfoFunc == nil {
		return platform.GLInfo{}, platform.Unavailable("webgl")
	}
	return f.GLInfoFunc()
}

func (f *Fake) GLExtensions() ([]string, error) {
	if f.GLExtensionsFunc == nil {
		return nil, platform.Unavailable("webgl")
	}
	return f.GLExtensionsFunc()
}

func (f *Fake) TextWidth(text, fontFamily, fontSize string) (float64, error) {
	if f.TextWidthFunc == nil {
		return 0, platform.Unavailable("text-measure")
	}
	return f.TextWidthFunc(text, fontFamily, fontSize)
}

func (f *Fake) RenderOscillator(ctx context.Context, spec platform.OscillatorSpec) ([]float32, float64, error) {
	if f.RenderOscillatorFunc == nil {
		return nil, 0, platform.Unavailable("offline-audio")
	}
	return f.RenderOscillatorFunc(ctx, spec)
}

func (f *Fake) BaseLatency() (float64, error) {
	if f.BaseLatencyFunc == nil {
		return 0, platform.Unavailable("audio")
	}
	return f.BaseLatencyFunc()
}

func (f *Fake) MatchMedia(query string) (bool, error) {
	if f.MatchMediaFunc == nil {
		return false, platform.Unavailable("matchMedia")
	}
	return f.MatchMediaFunc(query)
}

func (f *Fake) Navigator() (platform.Navigator, error) {
	if f.NavigatorFunc == nil {
		return platform.Navigator{}, platform.Unavailable("navigator")
	}
	return f.NavigatorFunc()
}

func (f *Fake) Screen() (platform.Screen, error) {
	if f.ScreenFunc == nil {
		return platform.Screen{}, platform.Unavailable("screen")
	}
	return f.ScreenFunc()
}

func (f *Fake) TimeZone() (string, error) {
	if f.TimeZoneFunc == nil {
		return "", platform.Unavailable("intl")
	}
	return f.TimeZoneFunc()
}

func (f *Fake) DateTimeLocale() (string, error) {
	if f.DateTimeLocaleFunc == nil {
		return "", platform.Unavailable("intl")
	}
	return f.DateTimeLocaleFunc()
}

func (f *Fake) HasGlobal(path string) (bool, error) {
	if f.HasGlobalFunc == nil {
		return false, platform.Unavailable("global")
	}
	return f.HasGlobalFunc(path)
}

func (f *Fake) Math(fn string, x float64) (float64, error) {
	if f.MathFunc == nil {
		return 0, platform.Unavailable("math")
	}
	return f.MathFunc(fn, x)
}

func (f *Fake) Title() (string, error) {
	if f.TitleFunc == nil {
		return "", platform.Unavailable("document")
	}
	return f.TitleFunc()
}

func (f *Fake) QuerySelectorAll(selector string) ([]platform.ElementStyle, error) {
	if f.QuerySelectorAllFunc == nil {
		return nil, platform.Unavailable("document")
	}
	return f.QuerySelectorAllFunc(selector)
}

func (f *Fake) CanCreateEvent(eventType string) (bool, error) {
	if f.CanCreateEventFunc == nil {
		return false, platform.Unavailable("document")
	}
	return f.CanCreateEventFunc(eventType)
}

func (f *Fake) AttributionSourceID() (string, error) {
	if f.AttributionFunc == nil {
		return "", platform.Unavailable("document")
	}
	return f.AttributionFunc()
}

// OnLoad records fn; FireLoad runs it.
func (f *Fake) OnLoad(fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listeners == nil {
		f.listeners = make(map[int]func())
	}
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

// Listeners returns the number of pending load listeners.
func (f *Fake) Listeners() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

// FireLoad dispatches the load event: every pending listener runs once and is
// then discarded, like a browser's one-shot load event.
func (f *Fake) FireLoad() {
	f.mu.Lock()
	pending := f.listeners
	f.listeners = nil
	f.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}
