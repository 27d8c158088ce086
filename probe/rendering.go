package probe

import (
	"context"

	"github.com/st-keller/knowu/platform"
	"github.com/st-keller/knowu/signal"
	"github.com/st-keller/knowu/types"
)

// WebGLInfo is the webgl signal.
type WebGLInfo struct {
	Vendor   string `json:"vendor"`
	Renderer string `json:"renderer"`
	Version  string `json:"version"`
}

type canvasHost interface {
	platform.Canvas
	platform.Document
	platform.Environment
}

// Canvas renders a fixed scene and reports the raster as a data URL.
// The drawn text is the document title, falling back to the user agent.
func Canvas(p canvasHost) types.Probe {
	return func(context.Context) signal.Value {
		scene := platform.CanvasScene{
			Width:        300,
			Height:       150,
			Background:   "#f60",
			Foreground:   "#069",
			Font:         "16px Arial",
			TextBaseline: "top",
			Text:         canvasText(p),
			TextX:        10,
			TextY:        20,
		}

		dataURL, err := p.RenderCanvas(scene)
		if err != nil || dataURL == "" {
			return signal.Unavailable(err)
		}
		return signal.Of(dataURL)
	}
}

func canvasText(p canvasHost) string {
	if title, err := p.Title(); err == nil && title != "" {
		return title
	}
	if nav, err := p.Navigator(); err == nil && nav.UserAgent != "" {
		return nav.UserAgent
	}
	return "default"
}

// WebGL reports the rendering context's vendor, renderer and version. The
// unmasked vendor/renderer are preferred when the debug extension is exposed.
func WebGL(p platform.Graphics) types.Probe {
	return func(context.Context) signal.Value {
		info, err := p.GLInfo()
		if err != nil {
			return signal.Unavailable(err)
		}

		out := WebGLInfo{
			Vendor:   info.Vendor,
			Renderer: info.Renderer,
			Version:  info.Version,
		}
		if info.DebugRendererInfo {
			out.Vendor = info.UnmaskedVendor
			out.Renderer = info.UnmaskedRenderer
		}
		return signal.Of(out)
	}
}

// WebGLExtensions lists the supported rendering extensions; empty on failure.
func WebGLExtensions(p platform.Graphics) types.Probe {
	return func(context.Context) signal.Value {
		exts, err := p.GLExtensions()
		if err != nil {
			return list(nil)
		}
		return list(exts)
	}
}
