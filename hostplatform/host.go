// Package hostplatform implements platform.Platform for a native process.
//
// A native process has no DOM, no WebGL context and no media queries; those
// capabilities report platform.ErrUnavailable. Hardware and locale facts come
// from the operating system, and the canvas and audio probes are served by
// pure-Go renderers.
package hostplatform

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/st-keller/knowu/logger"
	"github.com/st-keller/knowu/platform"
)

var _ platform.Platform = (*Host)(nil)

// Host is the native platform.
type Host struct {
	title     string
	userAgent string
	getenv    func(string) string
	log       logger.Logger

	navigator func() (platform.Navigator, error)
}

// Option configures a Host.
type Option func(*Host)

// WithTitle sets the document title drawn by the canvas probe.
func WithTitle(title string) Option {
	return func(h *Host) {
		h.title = title
	}
}

// WithUserAgent overrides the reported user agent.
func WithUserAgent(ua string) Option {
	return func(h *Host) {
		h.userAgent = ua
	}
}

// WithEnv replaces os.Getenv for locale and time zone lookups.
func WithEnv(getenv func(string) string) Option {
	return func(h *Host) {
		if getenv != nil {
			h.getenv = getenv
		}
	}
}

// WithLogger sets the logger for host lookups that fail.
func WithLogger(l logger.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// New creates a native host.
func New(opts ...Option) *Host {
	h := &Host{
		userAgent: DefaultUserAgent("dev"),
		getenv:    os.Getenv,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.navigator = sync.OnceValues(h.readNavigator)

	return h
}

// DefaultUserAgent builds the user agent a native host reports.
func DefaultUserAgent(version string) string {
	return fmt.Sprintf("knowu/%s (%s; %s) %s", version, runtime.GOOS, runtime.GOARCH, runtime.Version())
}

// Title returns the configured title.
func (h *Host) Title() (string, error) {
	if h.title == "" {
		return "", platform.Unavailable("document")
	}
	return h.title, nil
}

// QuerySelectorAll is unavailable without a document.
func (h *Host) QuerySelectorAll(string) ([]platform.ElementStyle, error) {
	return nil, platform.Unavailable("document")
}

// CanCreateEvent is unavailable without a document.
func (h *Host) CanCreateEvent(string) (bool, error) {
	return false, platform.Unavailable("document")
}

// AttributionSourceID is unavailable without a document.
func (h *Host) AttributionSourceID() (string, error) {
	return "", platform.Unavailable("document")
}

// GLInfo is unavailable: there is no rendering context.
func (h *Host) GLInfo() (platform.GLInfo, error) {
	return platform.GLInfo{}, platform.Unavailable("webgl")
}

// GLExtensions is unavailable: there is no rendering context.
func (h *Host) GLExtensions() ([]string, error) {
	return nil, platform.Unavailable("webgl")
}

// MatchMedia is unavailable: there is no viewport.
func (h *Host) MatchMedia(string) (bool, error) {
	return false, platform.Unavailable("matchMedia")
}

// Screen is unavailable: a native process has no screen object.
func (h *Host) Screen() (platform.Screen, error) {
	return platform.Screen{}, platform.Unavailable("screen")
}

// HasGlobal is unavailable: there is no global object.
func (h *Host) HasGlobal(string) (bool, error) {
	return false, platform.Unavailable("globals")
}

// BaseLatency is unavailable: no realtime audio device is opened.
func (h *Host) BaseLatency() (float64, error) {
	return 0, platform.Unavailable("audio-context")
}

// OnLoad fires fn once, asynchronously: a native process is loaded as soon as
// it runs.
func (h *Host) OnLoad(fn func()) func() {
	const (
		pending = iota
		fired
		cancelled
	)

	var state atomic.Int32
	go func() {
		if state.CompareAndSwap(pending, fired) {
			fn()
		}
	}()

	return func() {
		state.CompareAndSwap(pending, cancelled)
	}
}
