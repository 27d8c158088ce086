// Package signal defines the fingerprint data model: tagged signal values and the
// immutable record that carries them to the backend.
package signal

import (
	"encoding/json"
	"errors"
)

// Value is a single signal observation. It is either available and carries a
// JSON-serializable value, or unavailable and serializes as null.
type Value struct {
	v   any
	ok  bool
	err error
}

// Of returns an available value.
func Of(v any) Value {
	return Value{v: v, ok: true}
}

// Unavailable returns the "capability unavailable or probe failed" value.
// reason may be nil.
func Unavailable(reason error) Value {
	return Value{err: reason}
}

// Available reports whether the value carries an observation.
func (v Value) Available() bool {
	return v.ok
}

// Get returns the observation and whether it is available.
func (v Value) Get() (any, bool) {
	return v.v, v.ok
}

// Err returns why the value is unavailable. Nil for available values and for
// unavailable values recorded without a reason.
func (v Value) Err() error {
	return v.err
}

// MarshalJSON encodes unavailable values as null. An observation JSON cannot
// represent, such as a NaN or infinite float, also encodes as null so that one
// bad signal never breaks the record.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	b, err := json.Marshal(v.v)
	var unsupported *json.UnsupportedValueError
	if errors.As(err, &unsupported) {
		return []byte("null"), nil
	}
	return b, err
}
