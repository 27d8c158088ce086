// Package aggregator runs a registry's probes concurrently and assembles their
// results into one immutable record.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/st-keller/knowu/logger"
	"github.com/st-keller/knowu/registry"
	"github.com/st-keller/knowu/signal"
	"github.com/st-keller/knowu/types"
)

// ErrProbePanic marks a signal whose probe panicked.
var ErrProbePanic = errors.New("probe panicked")

const tracerName = "github.com/st-keller/knowu/aggregator"

// Aggregator gathers every registered probe into a record.
type Aggregator struct {
	registry *registry.Registry
	logger   logger.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used for per-signal diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithTracer sets the tracer for per-probe spans. Defaults to the global
// OpenTelemetry tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(a *Aggregator) {
		if t != nil {
			a.tracer = t
		}
	}
}

// WithClock overrides the capture clock.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Aggregator over reg.
func New(reg *registry.Registry, opts ...Option) *Aggregator {
	a := &Aggregator{
		registry: reg,
		logger:   logger.Nop(),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Record runs all probes concurrently, waits for every one of them and returns
// the assembled record stamped with the completion time. It always returns a
// complete record: probes absorb their own failures and a panicking probe is
// recorded as unavailable.
func (a *Aggregator) Record(ctx context.Context) *signal.Record {
	ctx, span := a.tracer.Start(ctx, "knowu.record")
	defer span.End()

	entries := a.registry.Entries()
	values := make([]signal.Value, len(entries))

	var g errgroup.Group
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			values[i] = a.run(ctx, entry)
			return nil
		})
	}
	_ = g.Wait()

	fields := make(map[string]signal.Value, len(entries))
	unavailable := 0
	for i, entry := range entries {
		fields[entry.Key] = values[i]
		if !values[i].Available() {
			unavailable++
		}
	}

	rec := signal.NewRecord(fields, a.now())

	span.SetAttributes(
		attribute.Int("knowu.signals", len(entries)),
		attribute.Int("knowu.unavailable", unavailable),
	)
	a.logger.Debug().
		Int("signals", len(entries)).
		Int("unavailable", unavailable).
		Str("recorded_at", rec.Timestamp()).
		Msg("fingerprint recorded")

	return rec
}

// run executes one probe inside its own span and panic boundary.
func (a *Aggregator) run(ctx context.Context, entry types.Entry) (value signal.Value) {
	ctx, span := a.tracer.Start(ctx, "knowu.probe",
		trace.WithAttributes(attribute.String("knowu.signal", entry.Key)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			value = signal.Unavailable(fmt.Errorf("%w: %v", ErrProbePanic, r))
		}

		span.SetAttributes(attribute.Bool("knowu.available", value.Available()))
		if !value.Available() {
			event := a.logger.Debug().Str("signal", entry.Key)
			if err := value.Err(); err != nil {
				event = event.Err(err)
			}
			event.Msg("signal unavailable")
		}
	}()

	return entry.Probe(ctx)
}
