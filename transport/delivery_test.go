package transport

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryStats(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tracker := NewDeliveryTracker("https://collect.example.com/fp")
	tracker.now = func() time.Time { return now }

	tracker.TrackResponse(204, 40*time.Millisecond)
	tracker.TrackResponse(500, 120*time.Millisecond)
	tracker.TrackFailure(900*time.Millisecond, errors.New("dial tcp: connection refused"))
	tracker.TrackResponse(200, 60*time.Millisecond)

	stats := tracker.Stats()

	assert.Equal(t, "https://collect.example.com/fp", stats.Endpoint)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Delivered)
	assert.Equal(t, 2, stats.Accepted)
	assert.Equal(t, now, stats.LastSend)
	assert.Equal(t, []string{"dial tcp: connection refused"}, stats.RecentErrors)
	assert.Equal(t, LatencyMS{P50: 60, P95: 120, P99: 120}, stats.Latency)
}

func TestDeliveryWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tracker := NewDeliveryTracker("https://collect.example.com/fp")
	tracker.now = func() time.Time { return now }

	tracker.TrackResponse(200, time.Millisecond)
	now = now.Add(2 * time.Hour)

	stats := tracker.Stats()
	assert.Zero(t, stats.Total)
	assert.Empty(t, stats.RecentErrors)
	assert.NotNil(t, stats.RecentErrors)
	assert.True(t, stats.LastSend.IsZero())
}

func TestDeliveryRecentErrorsCapped(t *testing.T) {
	tracker := NewDeliveryTracker("http://localhost/fp")
	for i := 0; i < 8; i++ {
		tracker.TrackFailure(time.Millisecond, errors.New("timeout"))
	}

	stats := tracker.Stats()
	assert.Equal(t, 8, stats.Total)
	assert.Len(t, stats.RecentErrors, maxRecentErrors)
}
