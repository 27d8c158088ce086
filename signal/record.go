package signal

import (
	"encoding/json"
	"sort"
	"time"
)

// TimestampKey is the record key carrying the capture time. It is reserved: a
// signal registered under this name is shadowed by the timestamp.
const TimestampKey = "recorded_at"

// TimestampLayout matches the ISO-8601 form produced by JavaScript's
// Date.prototype.toISOString, which existing collectors already parse.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Record is one fingerprint observation. It is immutable: the signal map is
// copied on construction and never handed out.
type Record struct {
	fields     map[string]Value
	recordedAt time.Time
}

// NewRecord builds a record from the given signals, stamped with recordedAt
// truncated to the millisecond precision of the wire timestamp.
func NewRecord(fields map[string]Value, recordedAt time.Time) *Record {
	copied := make(map[string]Value, len(fields))
	for k, v := range fields {
		if k == TimestampKey {
			continue
		}
		copied[k] = v
	}

	return &Record{
		fields:     copied,
		recordedAt: recordedAt.UTC().Truncate(time.Millisecond),
	}
}

// Get returns the value recorded for key.
func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Keys returns the signal names in sorted order, excluding the timestamp.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of signals, excluding the timestamp.
func (r *Record) Len() int {
	return len(r.fields)
}

// RecordedAt returns the capture time in UTC.
func (r *Record) RecordedAt() time.Time {
	return r.recordedAt
}

// Timestamp returns the capture time as it appears on the wire.
func (r *Record) Timestamp() string {
	return r.recordedAt.Format(TimestampLayout)
}

// MarshalJSON encodes the record as a flat JSON object with the timestamp under
// TimestampKey. Keys are emitted in sorted order, so equal records encode to
// identical bytes.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.fields)+1)
	for k, v := range r.fields {
		out[k] = v
	}
	out[TimestampKey] = r.Timestamp()

	return json.Marshal(out)
}
