package probe

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/st-keller/knowu/platform"
	"github.com/st-keller/knowu/platform/platformtest"
)

func navigator(nav platform.Navigator) func() (platform.Navigator, error) {
	return func() (platform.Navigator, error) { return nav, nil }
}

func TestTimeZone(t *testing.T) {
	fake := &platformtest.Fake{TimeZoneFunc: func() (string, error) { return "Europe/Zurich", nil }}
	assert.Equal(t, `"Europe/Zurich"`, run(t, TimeZone(fake)))

	fake.TimeZoneFunc = func() (string, error) { return "", nil }
	assert.Equal(t, `"unknown"`, run(t, TimeZone(fake)))
}

func TestDateTimeLocale(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"de-CH", `"de-CH"`},
		{"en-us", `"en-US"`},
		{"not a locale!", `"not a locale!"`},
		{"", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			fake := &platformtest.Fake{DateTimeLocaleFunc: func() (string, error) { return tt.raw, nil }}
			assert.Equal(t, tt.want, run(t, DateTimeLocale(fake)))
		})
	}
}

func TestLanguages(t *testing.T) {
	fake := &platformtest.Fake{NavigatorFunc: navigator(platform.Navigator{
		Language:  "de-CH",
		Languages: []string{"de-CH", "en"},
	})}
	assert.JSONEq(t, `["de-CH","en"]`, run(t, Languages(fake)))

	fake.NavigatorFunc = navigator(platform.Navigator{Language: "fr"})
	assert.JSONEq(t, `["fr"]`, run(t, Languages(fake)))

	fake.NavigatorFunc = navigator(platform.Navigator{})
	assert.Equal(t, `null`, run(t, Languages(fake)))
}

func TestNavigatorFields(t *testing.T) {
	fake := &platformtest.Fake{NavigatorFunc: navigator(platform.Navigator{
		Platform:            "MacIntel",
		Vendor:              "Apple Computer, Inc.",
		HardwareConcurrency: 8,
		DeviceMemory:        0.5,
	})}

	assert.Equal(t, `"MacIntel"`, run(t, PlatformName(fake)))
	assert.Equal(t, `"Apple Computer, Inc."`, run(t, Vendor(fake)))
	assert.Equal(t, `8`, run(t, HardwareConcurrency(fake)))
	assert.Equal(t, `0.5`, run(t, DeviceMemory(fake)))
	assert.Equal(t, `null`, run(t, CPUClass(fake)))
}

func TestDeviceMemoryNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		fake := &platformtest.Fake{NavigatorFunc: navigator(platform.Navigator{DeviceMemory: v})}

		value := DeviceMemory(fake)(context.Background())
		assert.False(t, value.Available())
		assert.Equal(t, `null`, encode(t, value))
	}
}

func TestVendorFlavors(t *testing.T) {
	fake := &platformtest.Fake{
		HasGlobalFunc: func(path string) (bool, error) {
			return path == "chrome.webstore" || path == "safari", nil
		},
		NavigatorFunc: navigator(platform.Navigator{UserAgent: "Mozilla/5.0 ... OPR/106.0"}),
	}

	assert.JSONEq(t, `["chrome","safari","opera"]`, run(t, VendorFlavors(fake)))
}

func TestByteOrder(t *testing.T) {
	assert.Contains(t, []string{"little", "big"}, ByteOrder())
}

func TestMath(t *testing.T) {
	funcs := map[string]func(float64) float64{
		"acos": math.Acos, "asin": math.Asin, "atan": math.Atan,
		"sin": math.Sin, "cos": math.Cos, "tan": math.Tan,
		"exp": math.Exp, "log": math.Log,
	}
	var calls []string
	fake := &platformtest.Fake{
		MathFunc: func(fn string, x float64) (float64, error) {
			calls = append(calls, fn)
			return funcs[fn](x), nil
		},
	}

	v := Math(fake)(context.Background())
	got, ok := v.Get()
	assert.True(t, ok)
	assert.Equal(t, MathValues{
		Acos: math.Acos(math.Pi / 4),
		Asin: math.Asin(math.Pi / 4),
		Atan: math.Atan(math.Pi / 4),
		Sin:  math.Sin(math.Pi / 4),
		Cos:  math.Cos(math.Pi / 4),
		Tan:  math.Tan(math.Pi / 4),
		Exp:  math.Exp(1),
		Log:  math.Log(10),
	}, got)
	assert.Equal(t, []string{"acos", "asin", "atan", "sin", "cos", "tan", "exp", "log"}, calls)

	fake.MathFunc = func(fn string, x float64) (float64, error) {
		if fn == "tan" {
			return 0, errors.New("no tan")
		}
		return funcs[fn](x), nil
	}
	assert.Equal(t, `null`, run(t, Math(fake)))
}

func TestScreen(t *testing.T) {
	fake := &platformtest.Fake{ScreenFunc: func() (platform.Screen, error) {
		return platform.Screen{Width: 2560, Height: 1440, AvailWidth: 2560, AvailHeight: 1415, ColorDepth: 30}, nil
	}}

	assert.JSONEq(t,
		`{"resolution":[2560,1440],"colorDepth":30,"availResolution":[2560,1415]}`,
		run(t, Screen(fake)))
	assert.JSONEq(t, `[2560,1440]`, run(t, ScreenResolution(fake)))
}
