package probe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/st-keller/knowu/platform"
	"github.com/st-keller/knowu/platform/platformtest"
)

func TestDOMBlockers(t *testing.T) {
	visible := platform.ElementStyle{Display: "block", Visibility: "visible", Opacity: "1"}
	page := map[string][]platform.ElementStyle{
		"#ad": {
			{Display: "none", Visibility: "visible", Opacity: "1"},
			{Display: "block", Visibility: "hidden", Opacity: "1"},
			visible,
		},
		".ad": {
			{Display: "none", Visibility: "visible", Opacity: "1"},
			visible,
		},
		"[class*='advert']": {
			{Display: "block", Visibility: "visible", Opacity: "0"},
		},
	}
	fake := &platformtest.Fake{
		QuerySelectorAllFunc: func(selector string) ([]platform.ElementStyle, error) {
			if selector == "[id*='ad-']" {
				return nil, errors.New("invalid selector")
			}
			return page[selector], nil
		},
	}

	assert.JSONEq(t, `["#ad","[class*='advert']"]`, run(t, DOMBlockers(fake)))
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		style platform.ElementStyle
		want  bool
	}{
		{platform.ElementStyle{Display: "none"}, true},
		{platform.ElementStyle{Visibility: "hidden"}, true},
		{platform.ElementStyle{Opacity: "0"}, true},
		{platform.ElementStyle{Opacity: " 0.0 "}, true},
		{platform.ElementStyle{Opacity: "0.01"}, false},
		{platform.ElementStyle{Opacity: ""}, false},
		{platform.ElementStyle{Display: "inline", Visibility: "visible", Opacity: "1"}, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isHidden(tt.style), "%+v", tt.style)
	}
}
