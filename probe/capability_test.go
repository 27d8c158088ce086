package probe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/st-keller/knowu/platform"
	"github.com/st-keller/knowu/platform/platformtest"
)

func TestStorageProbes(t *testing.T) {
	blocked := errors.New("SecurityError: access denied")
	fake := &platformtest.Fake{
		HasGlobalFunc: func(path string) (bool, error) {
			switch path {
			case "localStorage":
				return false, platform.Failed("globals", blocked)
			case "sessionStorage":
				return true, nil
			case "openDatabase":
				return false, platform.Failed("globals", blocked)
			}
			return false, nil
		},
	}

	assert.Equal(t, `true`, run(t, LocalStorage(fake)), "access error counts as present")
	assert.Equal(t, `true`, run(t, SessionStorage(fake)))
	assert.Equal(t, `false`, run(t, OpenDatabase(fake)))
}

func TestPlugins(t *testing.T) {
	fake := &platformtest.Fake{NavigatorFunc: navigator(platform.Navigator{
		Plugins: []string{"PDF Viewer", "Chrome PDF Viewer"},
	})}
	assert.JSONEq(t, `["PDF Viewer","Chrome PDF Viewer"]`, run(t, Plugins(fake)))

	fake.NavigatorFunc = navigator(platform.Navigator{})
	assert.JSONEq(t, `[]`, run(t, Plugins(fake)))
}

func TestTouchSupport(t *testing.T) {
	fake := &platformtest.Fake{
		NavigatorFunc:      navigator(platform.Navigator{MaxTouchPoints: 5}),
		CanCreateEventFunc: func(eventType string) (bool, error) { return eventType == "TouchEvent", nil },
		HasGlobalFunc:      func(path string) (bool, error) { return path == "ontouchstart", nil },
	}

	assert.JSONEq(t, `{"maxTouchPoints":5,"touchEvent":true,"touchStart":true}`, run(t, TouchSupport(fake)))
}

func TestPDFViewerEnabled(t *testing.T) {
	fake := &platformtest.Fake{NavigatorFunc: navigator(platform.Navigator{PDFViewerEnabled: true})}
	assert.Equal(t, `true`, run(t, PDFViewerEnabled(fake)))

	fake.NavigatorFunc = navigator(platform.Navigator{})
	assert.Equal(t, `null`, run(t, PDFViewerEnabled(fake)))
}

func TestApplePay(t *testing.T) {
	fake := &platformtest.Fake{HasGlobalFunc: func(path string) (bool, error) { return path == "ApplePaySession", nil }}
	assert.Equal(t, `"available"`, run(t, ApplePay(fake)))

	fake.HasGlobalFunc = func(string) (bool, error) { return false, nil }
	assert.Equal(t, `"unavailable"`, run(t, ApplePay(fake)))
}

func TestPrivateClickMeasurement(t *testing.T) {
	fake := &platformtest.Fake{AttributionFunc: func() (string, error) { return "42", nil }}
	assert.Equal(t, `"42"`, run(t, PrivateClickMeasurement(fake)))

	fake.AttributionFunc = func() (string, error) { return "", nil }
	assert.Equal(t, `null`, run(t, PrivateClickMeasurement(fake)))
}
