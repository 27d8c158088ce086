package probe

import (
	"context"
	"strconv"
	"strings"

	"github.com/st-keller/knowu/platform"
	"github.com/st-keller/knowu/signal"
	"github.com/st-keller/knowu/types"
)

// BlockerSelectors are selectors commonly hidden by content blockers.
var BlockerSelectors = []string{
	"#ad",
	".ad",
	"[id*='ad-']",
	"[class*='ad_']",
	"[class*='advert']",
}

// DOMBlockers lists the selectors whose matches are mostly invisible.
func DOMBlockers(p platform.Document) types.Probe {
	return func(context.Context) signal.Value {
		return list(BlockedSelectors(p, BlockerSelectors))
	}
}

// BlockedSelectors returns the selectors for which more than half of the
// matching elements are hidden. Selectors that cannot be queried are skipped.
func BlockedSelectors(p platform.Document, selectors []string) []string {
	blocked := make([]string, 0, len(selectors))
	for _, selector := range selectors {
		elems, err := p.QuerySelectorAll(selector)
		if err != nil || len(elems) == 0 {
			continue
		}

		hidden := 0
		for _, el := range elems {
			if isHidden(el) {
				hidden++
			}
		}
		if float64(hidden)/float64(len(elems)) > 0.5 {
			blocked = append(blocked, selector)
		}
	}

	return blocked
}

func isHidden(el platform.ElementStyle) bool {
	if el.Display == "none" || el.Visibility == "hidden" {
		return true
	}
	opacity, err := strconv.ParseFloat(strings.TrimSpace(el.Opacity), 64)
	return err == nil && opacity == 0
}
