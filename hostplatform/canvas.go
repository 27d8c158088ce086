package hostplatform

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/st-keller/knowu/platform"
)

const pngDataURLPrefix = "data:image/png;base64,"

// face is the only face available natively; every family renders with it.
var face = basicfont.Face7x13

// RenderCanvas rasterizes scene with the built-in bitmap face and returns a PNG
// data URL.
func (h *Host) RenderCanvas(scene platform.CanvasScene) (string, error) {
	if scene.Width <= 0 || scene.Height <= 0 {
		return "", platform.Failed("canvas", fmt.Errorf("invalid size %dx%d", scene.Width, scene.Height))
	}
	bg, err := parseHexColor(scene.Background)
	if err != nil {
		return "", platform.Failed("canvas", err)
	}
	fg, err := parseHexColor(scene.Foreground)
	if err != nil {
		return "", platform.Failed("canvas", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, scene.Width, scene.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	baseline := scene.TextY
	if scene.TextBaseline == "top" {
		baseline += face.Ascent
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(scene.TextX, baseline),
	}
	d.DrawString(scene.Text)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", platform.Failed("canvas", err)
	}

	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// TextWidth measures text with the built-in face scaled to fontSize. The family
// is ignored, so no candidate font ever differs from its fallback.
func (h *Host) TextWidth(text, _, fontSize string) (float64, error) {
	px, err := parsePixels(fontSize)
	if err != nil {
		return 0, platform.Failed("text-measure", err)
	}
	advance := font.MeasureString(face, text)
	return float64(advance) / 64 * px / float64(face.Height), nil
}

func parsePixels(size string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(size), "px"), 64)
	if err != nil {
		return 0, fmt.Errorf("font size %q: %w", size, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("font size %q must be positive", size)
	}
	return v, nil
}

// parseHexColor accepts #rgb and #rrggbb.
func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 || !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("unsupported color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("unsupported color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
