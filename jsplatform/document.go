//go:build js && wasm

package jsplatform

import (
	"strconv"
	"syscall/js"

	"github.com/st-keller/knowu/platform"
)

// Title returns document.title.
func (h *Host) Title() (string, error) {
	return guard("document", func() (string, error) {
		doc, err := h.document()
		if err != nil {
			return "", err
		}
		return str(doc.Get("title")), nil
	})
}

// QuerySelectorAll returns the computed visibility style of each match.
func (h *Host) QuerySelectorAll(selector string) ([]platform.ElementStyle, error) {
	return guard("document", func() ([]platform.ElementStyle, error) {
		doc, err := h.document()
		if err != nil {
			return nil, err
		}
		nodes := doc.Call("querySelectorAll", selector)
		out := make([]platform.ElementStyle, 0, nodes.Length())
		for i := 0; i < nodes.Length(); i++ {
			style := h.global.Call("getComputedStyle", nodes.Index(i))
			out = append(out, platform.ElementStyle{
				Display:    str(style.Get("display")),
				Visibility: str(style.Get("visibility")),
				Opacity:    str(style.Get("opacity")),
			})
		}
		return out, nil
	})
}

// CanCreateEvent reports whether document.createEvent accepts eventType. A
// rejection is an answer, not a failure.
func (h *Host) CanCreateEvent(eventType string) (bool, error) {
	doc, err := h.document()
	if err != nil {
		return false, err
	}
	ok, err := guard("createEvent", func() (bool, error) {
		doc.Call("createEvent", eventType)
		return true, nil
	})
	if err != nil {
		return false, nil
	}
	return ok, nil
}

// AttributionSourceID reads the attribution source id of a scratch anchor.
func (h *Host) AttributionSourceID() (string, error) {
	return guard("private-click-measurement", func() (string, error) {
		doc, err := h.document()
		if err != nil {
			return "", err
		}
		a := doc.Call("createElement", "a")
		for _, prop := range []string{"attributionSourceId", "attributionsourceid"} {
			v := a.Get(prop)
			if !defined(v) {
				continue
			}
			if v.Type() == js.TypeNumber {
				return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
			}
			if s := str(v); s != "" {
				return s, nil
			}
		}
		return "", platform.Unavailable("private-click-measurement")
	})
}
