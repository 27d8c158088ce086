// Package trigger defines when a fingerprint is sent and arms the once-only
// page-load trigger.
package trigger

import (
	"context"
	"fmt"
	"sync"

	"github.com/st-keller/knowu/platform"
)

// Mode selects whether sending is automatic or caller driven.
type Mode int

const (
	Manual Mode = iota // send only when the caller asks
	OnLoad             // send once when the document has loaded
)

// ModeFor maps the sendOnLoad flag to a Mode.
func ModeFor(sendOnLoad bool) Mode {
	if sendOnLoad {
		return OnLoad
	}
	return Manual
}

// String returns string representation.
func (m Mode) String() string {
	switch m {
	case Manual:
		return "Manual"
	case OnLoad:
		return "OnLoad"
	default:
		return fmt.Sprintf("Invalid(%d)", int(m))
	}
}

// Load runs a function at most once, when the host's load event fires.
type Load struct {
	once      sync.Once
	closeOnce sync.Once
	done      chan struct{}
	mu        sync.Mutex
	cancel    func()
	fired     bool
	disarmed  bool
}

// Arm registers fn with the host's load event. fn runs exactly once even if the
// host fires the event repeatedly.
func Arm(l platform.Lifecycle, fn func()) *Load {
	t := &Load{done: make(chan struct{})}
	cancel := l.OnLoad(func() {
		t.once.Do(func() {
			t.mu.Lock()
			if t.disarmed {
				t.mu.Unlock()
				return
			}
			t.fired = true
			t.mu.Unlock()

			defer t.finish()
			fn()
		})
	})

	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()

	return t
}

// Fired reports whether the load event has been delivered.
func (t *Load) Fired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

func (t *Load) finish() {
	t.closeOnce.Do(func() { close(t.done) })
}

// Done is closed once the armed function has returned, or when the trigger is
// disarmed before it fired.
func (t *Load) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the armed function has returned or ctx is done. It returns
// nil at once for a trigger disarmed before it fired.
func (t *Load) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Disarm removes the load listener if it has not fired yet. A send already in
// progress is not interrupted.
func (t *Load) Disarm() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.disarmed = true
	fired := t.fired
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if !fired {
		t.finish()
	}
}
