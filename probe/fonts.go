package probe

import (
	"context"
	"fmt"

	"github.com/st-keller/knowu/platform"
	"github.com/st-keller/knowu/signal"
	"github.com/st-keller/knowu/types"
)

var (
	// FontCandidates are the font families tested for availability, in report order.
	FontCandidates = []string{
		"Arial",
		"Verdana",
		"Times New Roman",
		"Courier New",
		"Comic Sans MS",
		"Georgia",
		"Trebuchet MS",
	}

	// GenericFamilies are the fallback families each candidate is compared against.
	GenericFamilies = []string{"monospace", "sans-serif", "serif"}
)

const (
	fontTestString = "abcdefghijklmnopqrstuvwxyz0123456789"
	fontTestSize   = "72px"
)

// Fonts reports the candidate fonts that are installed. A candidate counts as
// installed when, for at least one generic family, text set in
// "<candidate>",<generic> measures differently from text set in <generic> alone.
func Fonts(p platform.TextMeasurer) types.Probe {
	return func(context.Context) signal.Value {
		return list(DetectFonts(p, FontCandidates, GenericFamilies))
	}
}

// DetectFonts runs the width comparison for the given candidates. It returns nil
// when a baseline width cannot be measured.
func DetectFonts(p platform.TextMeasurer, candidates, generics []string) []string {
	baseline := make(map[string]float64, len(generics))
	for _, generic := range generics {
		width, err := p.TextWidth(fontTestString, generic, fontTestSize)
		if err != nil {
			return nil
		}
		baseline[generic] = width
	}

	available := make([]string, 0, len(candidates))
	for _, font := range candidates {
		for _, generic := range generics {
			width, err := p.TextWidth(fontTestString, fmt.Sprintf("%q,%s", font, generic), fontTestSize)
			if err != nil {
				continue
			}
			if width != baseline[generic] {
				available = append(available, font)
				break
			}
		}
	}

	return available
}
