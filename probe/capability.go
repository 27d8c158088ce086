package probe

import (
	"context"
	"errors"

	"github.com/st-keller/knowu/platform"
	"github.com/st-keller/knowu/signal"
	"github.com/st-keller/knowu/types"
)

// TouchInfo is the touchSupport signal.
type TouchInfo struct {
	MaxTouchPoints int  `json:"maxTouchPoints"`
	TouchEvent     bool `json:"touchEvent"`
	TouchStart     bool `json:"touchStart"`
}

type touchHost interface {
	platform.Environment
	platform.Document
}

// OpenDatabase reports whether the legacy WebSQL entry point exists.
func OpenDatabase(p platform.Environment) types.Probe {
	return func(context.Context) signal.Value {
		ok, err := p.HasGlobal("openDatabase")
		if err != nil {
			return unavailableOr(err, signal.Of(false))
		}
		return signal.Of(ok)
	}
}

// LocalStorage reports whether localStorage exists.
func LocalStorage(p platform.Environment) types.Probe {
	return storage(p, "localStorage")
}

// SessionStorage reports whether sessionStorage exists.
func SessionStorage(p platform.Environment) types.Probe {
	return storage(p, "sessionStorage")
}

// storage treats an access failure as presence: hosts refuse access to a storage
// area that exists but is blocked by policy.
func storage(p platform.Environment, name string) types.Probe {
	return func(context.Context) signal.Value {
		ok, err := p.HasGlobal(name)
		if err != nil {
			return unavailableOr(err, signal.Of(true))
		}
		return signal.Of(ok)
	}
}

// Plugins lists installed plugin names; empty when the host reports none.
func Plugins(p platform.Environment) types.Probe {
	return func(context.Context) signal.Value {
		nav, err := p.Navigator()
		if err != nil {
			return list(nil)
		}
		return list(nav.Plugins)
	}
}

// TouchSupport reports touch points and the touch event surfaces.
func TouchSupport(p touchHost) types.Probe {
	return func(context.Context) signal.Value {
		var info TouchInfo
		if nav, err := p.Navigator(); err == nil {
			info.MaxTouchPoints = nav.MaxTouchPoints
		}
		if ok, err := p.CanCreateEvent("TouchEvent"); err == nil {
			info.TouchEvent = ok
		}
		if ok, err := p.HasGlobal("ontouchstart"); err == nil {
			info.TouchStart = ok
		}
		return signal.Of(info)
	}
}

// PDFViewerEnabled reports true when the built-in PDF viewer is enabled and
// Unavailable otherwise.
func PDFViewerEnabled(p platform.Environment) types.Probe {
	return func(context.Context) signal.Value {
		nav, err := p.Navigator()
		if err != nil || !nav.PDFViewerEnabled {
			return signal.Unavailable(err)
		}
		return signal.Of(true)
	}
}

// ApplePay reports "available" when the payment session API exists.
func ApplePay(p platform.Environment) types.Probe {
	return func(context.Context) signal.Value {
		ok, err := p.HasGlobal("ApplePaySession")
		if err != nil {
			return unavailableOr(err, signal.Of("unavailable"))
		}
		if ok {
			return signal.Of("available")
		}
		return signal.Of("unavailable")
	}
}

// PrivateClickMeasurement reports the attribution source id of a scratch anchor.
func PrivateClickMeasurement(p platform.Document) types.Probe {
	return func(context.Context) signal.Value {
		id, err := p.AttributionSourceID()
		if err != nil {
			return signal.Unavailable(err)
		}
		if id == "" {
			return signal.Unavailable(errors.New("attribution source id not set"))
		}
		return signal.Of(id)
	}
}
