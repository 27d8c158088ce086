// Package platform describes the host capabilities that fingerprint probes query.
//
// A host (a browser through syscall/js, a native process, a test fake) implements
// Platform. Every method reports a missing capability by returning an error that
// matches ErrUnavailable; probes turn such errors into unavailable signals.
package platform

import "context"

// Platform is the full capability surface used by the standard probe set.
type Platform interface {
	Canvas
	Graphics
	TextMeasurer
	Audio
	MediaMatcher
	Environment
	Document
	Lifecycle
}

// Canvas renders a fixed 2D scene on a scratch surface.
type Canvas interface {
	// RenderCanvas draws scene on a surface that is discarded afterwards and
	// returns the encoded raster as a data URL.
	RenderCanvas(scene CanvasScene) (string, error)
}

// Graphics queries a scratch WebGL-style rendering context.
type Graphics interface {
	GLInfo() (GLInfo, error)
	GLExtensions() ([]string, error)
}

// TextMeasurer measures rendered text width with a temporary element.
type TextMeasurer interface {
	TextWidth(text, fontFamily, fontSize string) (float64, error)
}

// Audio exposes offline and realtime audio contexts.
type Audio interface {
	// RenderOscillator renders spec through an offline (non-audible) context and
	// returns the first channel's samples plus the context's base latency hint
	// (zero when the host does not report one).
	RenderOscillator(ctx context.Context, spec OscillatorSpec) ([]float32, float64, error)
	// BaseLatency returns the base latency of a short-lived realtime context.
	BaseLatency() (float64, error)
}

// MediaMatcher evaluates CSS media-feature predicates such as
// "(prefers-contrast: more)".
type MediaMatcher interface {
	MatchMedia(query string) (bool, error)
}

// Environment exposes navigator, screen, locale, global object and math library
// facts.
type Environment interface {
	Navigator() (Navigator, error)
	Screen() (Screen, error)
	TimeZone() (string, error)
	DateTimeLocale() (string, error)
	// HasGlobal reports whether a dotted path (e.g. "chrome.webstore") exists on
	// the global object. Intermediate segments must be non-null; the last one is
	// a property presence check, so a property holding null still counts.
	HasGlobal(path string) (bool, error)
	// Math evaluates the host's implementation of a unary math function.
	Math(fn string, x float64) (float64, error)
}

// Document exposes the hosting document.
type Document interface {
	Title() (string, error)
	QuerySelectorAll(selector string) ([]ElementStyle, error)
	// CanCreateEvent reports whether document.createEvent accepts eventType.
	CanCreateEvent(eventType string) (bool, error)
	// AttributionSourceID returns the private click measurement attribute of a
	// scratch anchor element.
	AttributionSourceID() (string, error)
}

// Lifecycle exposes the host's page-load event.
type Lifecycle interface {
	// OnLoad registers fn to run once when the host finishes loading. The
	// returned function removes the listener if it has not fired yet.
	OnLoad(fn func()) (cancel func())
}

// CanvasScene is the fixed scene drawn by the canvas probe.
type CanvasScene struct {
	Width        int
	Height       int
	Background   string
	Foreground   string
	Font         string
	TextBaseline string
	Text         string
	TextX        int
	TextY        int
}

// GLInfo carries the raw parameters of a rendering context. The Unmasked fields
// are only meaningful when DebugRendererInfo is true.
type GLInfo struct {
	Vendor            string
	Renderer          string
	Version           string
	UnmaskedVendor    string
	UnmaskedRenderer  string
	DebugRendererInfo bool
}

// OscillatorSpec configures the offline audio render.
type OscillatorSpec struct {
	Channels   int
	Frames     int
	SampleRate float64
	Waveform   string
	Frequency  float64
	Compressor bool
}

// Navigator mirrors the navigator object. Zero values mean "not reported".
type Navigator struct {
	UserAgent           string
	Language            string
	Languages           []string
	Platform            string
	Vendor              string
	CPUClass            string
	HardwareConcurrency int
	DeviceMemory        float64
	MaxTouchPoints      int
	PDFViewerEnabled    bool
	Plugins             []string
}

// Screen mirrors the screen object.
type Screen struct {
	Width       int
	Height      int
	AvailWidth  int
	AvailHeight int
	ColorDepth  int
}

// ElementStyle is the computed visibility-related style of one element.
type ElementStyle struct {
	Display    string
	Visibility string
	Opacity    string
}
