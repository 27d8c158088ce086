//go:build js && wasm

package jsplatform

import (
	"syscall/js"

	"github.com/st-keller/knowu/platform"
)

// RenderCanvas draws scene on a detached canvas and returns toDataURL().
func (h *Host) RenderCanvas(scene platform.CanvasScene) (string, error) {
	return guard("canvas", func() (string, error) {
		doc, err := h.document()
		if err != nil {
			return "", err
		}
		canvas := doc.Call("createElement", "canvas")
		canvas.Set("width", scene.Width)
		canvas.Set("height", scene.Height)

		ctx := canvas.Call("getContext", "2d")
		if !defined(ctx) {
			return "", platform.Unavailable("canvas")
		}
		ctx.Set("textBaseline", scene.TextBaseline)
		ctx.Set("font", scene.Font)
		ctx.Set("fillStyle", scene.Background)
		ctx.Call("fillRect", 0, 0, scene.Width, scene.Height)
		ctx.Set("fillStyle", scene.Foreground)
		ctx.Call("fillText", scene.Text, scene.TextX, scene.TextY)

		return str(canvas.Call("toDataURL")), nil
	})
}

func (h *Host) glContext() (js.Value, error) {
	doc, err := h.document()
	if err != nil {
		return js.Value{}, err
	}
	canvas := doc.Call("createElement", "canvas")
	for _, kind := range []string{"webgl", "experimental-webgl"} {
		if gl := canvas.Call("getContext", kind); defined(gl) {
			return gl, nil
		}
	}
	return js.Value{}, platform.Unavailable("webgl")
}

// GLInfo reads vendor, renderer and version, plus the unmasked pair when the
// debug renderer extension is exposed.
func (h *Host) GLInfo() (platform.GLInfo, error) {
	return guard("webgl", func() (platform.GLInfo, error) {
		gl, err := h.glContext()
		if err != nil {
			return platform.GLInfo{}, err
		}
		param := func(name js.Value) string {
			return str(gl.Call("getParameter", name))
		}

		info := platform.GLInfo{
			Vendor:   param(gl.Get("VENDOR")),
			Renderer: param(gl.Get("RENDERER")),
			Version:  param(gl.Get("VERSION")),
		}
		if ext := gl.Call("getExtension", "WEBGL_debug_renderer_info"); defined(ext) {
			info.DebugRendererInfo = true
			info.UnmaskedVendor = param(ext.Get("UNMASKED_VENDOR_WEBGL"))
			info.UnmaskedRenderer = param(ext.Get("UNMASKED_RENDERER_WEBGL"))
		}
		return info, nil
	})
}

// GLExtensions lists getSupportedExtensions().
func (h *Host) GLExtensions() ([]string, error) {
	return guard("webgl", func() ([]string, error) {
		gl, err := h.glContext()
		if err != nil {
			return nil, err
		}
		return stringList(gl.Call("getSupportedExtensions"), str), nil
	})
}

// TextWidth measures a hidden, absolutely positioned span.
func (h *Host) TextWidth(text, fontFamily, fontSize string) (float64, error) {
	return guard("text-measure", func() (float64, error) {
		doc, err := h.document()
		if err != nil {
			return 0, err
		}
		body := doc.Get("body")
		if !defined(body) {
			return 0, platform.Unavailable("text-measure")
		}

		span := doc.Call("createElement", "span")
		style := span.Get("style")
		style.Set("fontSize", fontSize)
		style.Set("fontFamily", fontFamily)
		style.Set("position", "absolute")
		style.Set("visibility", "hidden")
		span.Set("textContent", text)

		body.Call("appendChild", span)
		defer body.Call("removeChild", span)

		return num(span.Get("offsetWidth")), nil
	})
}

// MatchMedia evaluates window.matchMedia(query).matches.
func (h *Host) MatchMedia(query string) (bool, error) {
	return guard("matchMedia", func() (bool, error) {
		if h.global.Get("matchMedia").Type() != js.TypeFunction {
			return false, platform.Unavailable("matchMedia")
		}
		return h.global.Call("matchMedia", query).Get("matches").Truthy(), nil
	})
}
