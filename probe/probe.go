// Package probe implements the standard fingerprint probe set.
//
// Every constructor binds a probe to the narrow platform capability it queries
// and returns a types.Probe. Probes are independent: none reads another's result,
// and each converts platform failures into signal.Unavailable (scalar and object
// signals) or an empty list (list signals).
package probe

import (
	"errors"

	"github.com/st-keller/knowu/platform"
	"github.com/st-keller/knowu/registry"
	"github.com/st-keller/knowu/signal"
	"github.com/st-keller/knowu/types"
)

// Record keys filled by the standard probe set.
const (
	KeyCanvas                  = "canvas"
	KeyWebGL                   = "webgl"
	KeyWebGLExtensions         = "webglExtensions"
	KeyFonts                   = "fonts"
	KeyScreen                  = "screen"
	KeyTimeZone                = "timezone"
	KeyLanguages               = "languages"
	KeyPlugins                 = "plugins"
	KeyAudio                   = "audio"
	KeyHardwareConcurrency     = "hardwareConcurrency"
	KeyDeviceMemory            = "deviceMemory"
	KeyCPUClass                = "cpuClass"
	KeyPlatform                = "platform"
	KeyColorGamut              = "colorGamut"
	KeyContrast                = "contrast"
	KeyForcedColors            = "forcedColors"
	KeyInvertedColors          = "invertedColors"
	KeyMonochrome              = "monochrome"
	KeyOpenDatabase            = "openDatabase"
	KeyLocalStorage            = "localStorage"
	KeySessionStorage          = "sessionStorage"
	KeyDOMBlockers             = "domBlockers"
	KeyPDFViewerEnabled        = "pdfViewerEnabled"
	KeyArchitecture            = "architecture"
	KeyApplePay                = "applePay"
	KeyPrivateClickMeasurement = "privateClickMeasurement"
	KeyReducedMotion           = "reducedMotion"
	KeyReducedTransparency     = "reducedTransparency"
	KeyDateTimeLocale          = "dateTimeLocale"
	KeyTouchSupport            = "touchSupport"
	KeyVendor                  = "vendor"
	KeyVendorFlavors           = "vendorFlavors"
	KeyMath                    = "math"
	KeyAudioBaseLatency        = "audioBaseLatency"
	KeyScreenResolution        = "screenResolution"
)

// Standard returns the complete probe set bound to p, in record order.
func Standard(p platform.Platform) []types.Entry {
	return []types.Entry{
		{Key: KeyCanvas, Probe: Canvas(p)},
		{Key: KeyWebGL, Probe: WebGL(p)},
		{Key: KeyWebGLExtensions, Probe: WebGLExtensions(p)},
		{Key: KeyFonts, Probe: Fonts(p)},
		{Key: KeyScreen, Probe: Screen(p)},
		{Key: KeyTimeZone, Probe: TimeZone(p)},
		{Key: KeyLanguages, Probe: Languages(p)},
		{Key: KeyPlugins, Probe: Plugins(p)},
		{Key: KeyAudio, Probe: Audio(p)},
		{Key: KeyHardwareConcurrency, Probe: HardwareConcurrency(p)},
		{Key: KeyDeviceMemory, Probe: DeviceMemory(p)},
		{Key: KeyCPUClass, Probe: CPUClass(p)},
		{Key: KeyPlatform, Probe: PlatformName(p)},
		{Key: KeyColorGamut, Probe: ColorGamut(p)},
		{Key: KeyContrast, Probe: Contrast(p)},
		{Key: KeyForcedColors, Probe: ForcedColors(p)},
		{Key: KeyInvertedColors, Probe: InvertedColors(p)},
		{Key: KeyMonochrome, Probe: Monochrome(p)},
		{Key: KeyOpenDatabase, Probe: OpenDatabase(p)},
		{Key: KeyLocalStorage, Probe: LocalStorage(p)},
		{Key: KeySessionStorage, Probe: SessionStorage(p)},
		{Key: KeyDOMBlockers, Probe: DOMBlockers(p)},
		{Key: KeyPDFViewerEnabled, Probe: PDFViewerEnabled(p)},
		{Key: KeyArchitecture, Probe: Architecture()},
		{Key: KeyApplePay, Probe: ApplePay(p)},
		{Key: KeyPrivateClickMeasurement, Probe: PrivateClickMeasurement(p)},
		{Key: KeyReducedMotion, Probe: ReducedMotion(p)},
		{Key: KeyReducedTransparency, Probe: ReducedTransparency(p)},
		{Key: KeyDateTimeLocale, Probe: DateTimeLocale(p)},
		{Key: KeyTouchSupport, Probe: TouchSupport(p)},
		{Key: KeyVendor, Probe: Vendor(p)},
		{Key: KeyVendorFlavors, Probe: VendorFlavors(p)},
		{Key: KeyMath, Probe: Math(p)},
		{Key: KeyAudioBaseLatency, Probe: AudioBaseLatency(p)},
		{Key: KeyScreenResolution, Probe: ScreenResolution(p)},
	}
}

// RegisterStandard registers the complete probe set against p.
func RegisterStandard(reg *registry.Registry, p platform.Platform) error {
	for _, e := range Standard(p) {
		if err := reg.Register(e.Key, e.Probe); err != nil {
			return err
		}
	}

	return nil
}

// unavailableOr maps capability absence to an unavailable signal and any other
// error to fallback.
func unavailableOr(err error, fallback signal.Value) signal.Value {
	if errors.Is(err, platform.ErrUnavailable) {
		return signal.Unavailable(err)
	}
	return fallback
}

// list returns items, or an empty (non-nil) list so the signal encodes as [].
func list(items []string) signal.Value {
	if items == nil {
		items = []string{}
	}
	return signal.Of(items)
}
