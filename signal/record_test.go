package signal

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordCopiesFields(t *testing.T) {
	fields := map[string]Value{
		"timezone": Of("Europe/Zurich"),
		"webgl":    Unavailable(nil),
	}
	rec := NewRecord(fields, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	fields["timezone"] = Of("changed")
	fields["extra"] = Of(1)

	v, ok := rec.Get("timezone")
	require.True(t, ok)
	got, _ := v.Get()
	assert.Equal(t, "Europe/Zurich", got)

	_, ok = rec.Get("extra")
	assert.False(t, ok)
	assert.Equal(t, []string{"timezone", "webgl"}, rec.Keys())
	assert.Equal(t, 2, rec.Len())
}

func TestNewRecordDropsReservedKey(t *testing.T) {
	rec := NewRecord(map[string]Value{
		TimestampKey: Of("spoofed"),
		"vendor":     Of("Google Inc."),
	}, time.Unix(0, 0))

	_, ok := rec.Get(TimestampKey)
	assert.False(t, ok)
	assert.Equal(t, 1, rec.Len())
}

func TestRecordTimestampFormat(t *testing.T) {
	zurich := time.FixedZone("CET", 3600)
	at := time.Date(2024, 3, 1, 13, 4, 5, 678_901_234, zurich)

	rec := NewRecord(nil, at)

	assert.Equal(t, "2024-03-01T12:04:05.678Z", rec.Timestamp())
	assert.Equal(t, time.UTC, rec.RecordedAt().Location())

	parsed, err := time.Parse(time.RFC3339Nano, rec.Timestamp())
	require.NoError(t, err)
	assert.True(t, at.Truncate(time.Millisecond).Equal(parsed))
	assert.True(t, rec.RecordedAt().Equal(parsed))
}

func TestRecordJSONNonFiniteSignal(t *testing.T) {
	rec := NewRecord(map[string]Value{
		"deviceMemory": Of(math.NaN()),
		"vendor":       Of("Google Inc."),
	}, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"deviceMemory": null,
		"vendor": "Google Inc.",
		"recorded_at": "2024-03-01T12:00:00.000Z"
	}`, string(b))
}

func TestRecordJSON(t *testing.T) {
	rec := NewRecord(map[string]Value{
		"fonts":      Of([]string{"Arial"}),
		"monochrome": Of(0),
		"webgl":      Unavailable(nil),
	}, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	b, err := json.Marshal(rec)
	require.NoError(t, err)

	assert.Equal(t,
		`{"fonts":["Arial"],"monochrome":0,"recorded_at":"2024-01-02T03:04:05.000Z","webgl":null}`,
		string(b))
}

func TestRecordJSONIsStable(t *testing.T) {
	fields := map[string]Value{}
	for _, k := range []string{"z", "a", "m", "b", "y"} {
		fields[k] = Of(k)
	}
	rec := NewRecord(fields, time.Unix(1700000000, 0))

	first, err := json.Marshal(rec)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := json.Marshal(rec)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
