//go:build js && wasm

// Package jsplatform implements platform.Platform on top of the browser through
// syscall/js.
//
// Every call into JavaScript runs behind a recover boundary: a thrown exception
// surfaces as a platform.CapabilityError instead of crashing the module.
package jsplatform

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"syscall/js"

	"github.com/st-keller/knowu/platform"
)

var _ platform.Platform = (*Host)(nil)

// Host is the browser platform.
type Host struct {
	global js.Value
}

// New binds a Host to the JavaScript global object.
func New() *Host {
	return &Host{global: js.Global()}
}

func (h *Host) document() (js.Value, error) {
	doc := h.global.Get("document")
	if !defined(doc) {
		return js.Value{}, platform.Unavailable("document")
	}
	return doc, nil
}

// guard runs fn and turns a JavaScript exception into a CapabilityError.
func guard[T any](capability string, fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = platform.Failed(capability, jsErr)
				return
			}
			err = platform.Failed(capability, fmt.Errorf("%v", r))
		}
	}()
	return fn()
}

func defined(v js.Value) bool {
	return !v.IsUndefined() && !v.IsNull()
}

// str returns v as a string, or "" when it is not one.
func str(v js.Value) string {
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

// num returns v as a float, or 0 when it is not a finite number.
func num(v js.Value) float64 {
	if v.Type() != js.TypeNumber {
		return 0
	}
	f := v.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// stringList converts an array-like, keeping the non-empty items.
func stringList(v js.Value, item func(js.Value) string) []string {
	if !defined(v) {
		return nil
	}
	n := v.Length()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if s := item(v.Index(i)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// await blocks until promise settles or ctx is done. It must not be called from
// a JavaScript callback.
func await(ctx context.Context, promise js.Value) (js.Value, error) {
	type result struct {
		v   js.Value
		err error
	}
	done := make(chan result, 1)

	onFulfilled := js.FuncOf(func(_ js.Value, args []js.Value) any {
		var v js.Value
		if len(args) > 0 {
			v = args[0]
		}
		done <- result{v: v}
		return nil
	})
	defer onFulfilled.Release()

	onRejected := js.FuncOf(func(_ js.Value, args []js.Value) any {
		reason := "promise rejected"
		if len(args) > 0 && defined(args[0]) {
			reason = args[0].Call("toString").String()
		}
		done <- result{err: fmt.Errorf("%s", reason)}
		return nil
	})
	defer onRejected.Release()

	promise.Call("then", onFulfilled, onRejected)

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		return js.Value{}, ctx.Err()
	}
}

// HasGlobal walks a dotted path from the global object.
func (h *Host) HasGlobal(path string) (bool, error) {
	return guard("globals", func() (bool, error) {
		segments := strings.Split(path, ".")
		cur := h.global
		for _, seg := range segments[:len(segments)-1] {
			cur = cur.Get(seg)
			if !defined(cur) {
				return false, nil
			}
		}
		last := segments[len(segments)-1]
		return h.global.Get("Reflect").Call("has", cur, last).Bool(), nil
	})
}

// OnLoad runs fn once the window load event has fired, immediately (on its own
// goroutine) when the document is already complete.
func (h *Host) OnLoad(fn func()) func() {
	var once sync.Once
	run := func() { once.Do(func() { go fn() }) }

	doc, err := h.document()
	if err == nil && str(doc.Get("readyState")) == "complete" {
		run()
		return func() {}
	}

	var (
		listener js.Func
		detach   sync.Once
	)
	free := func() {
		detach.Do(func() {
			h.global.Call("removeEventListener", "load", listener)
			listener.Release()
		})
	}
	listener = js.FuncOf(func(js.Value, []js.Value) any {
		run()
		free()
		return nil
	})
	h.global.Call("addEventListener", "load", listener, map[string]any{"once": true})

	return func() {
		// Claim the once so a late event is ignored.
		once.Do(func() {})
		free()
	}
}
