// Package types defines the core function types shared by probes, the registry
// and the aggregator.
package types

import (
	"context"

	"github.com/st-keller/knowu/signal"
)

// Probe queries one capability and returns its signal.
// A probe never returns an error: failures become signal.Unavailable (or the
// signal's documented empty value).
type Probe func(ctx context.Context) signal.Value

// Entry is a registered probe together with the record key it fills.
type Entry struct {
	Key   string
	Probe Probe
}
