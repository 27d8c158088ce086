package transport

import (
	"sort"
	"sync"
	"time"
)

// deliveryWindow is how long sends are remembered.
const deliveryWindow = time.Hour

// maxRecentErrors caps DeliveryStats.RecentErrors.
const maxRecentErrors = 5

// delivery is a single POST to the endpoint.
type delivery struct {
	timestamp time.Time
	status    int // 0 when no response was received
	latency   time.Duration
	err       string
}

// DeliveryTracker keeps the last hour of sends to one endpoint.
type DeliveryTracker struct {
	mu         sync.Mutex
	endpoint   string
	deliveries []delivery
	now        func() time.Time
}

// LatencyMS holds latency percentiles in milliseconds.
type LatencyMS struct {
	P50 int64 `json:"p50"`
	P95 int64 `json:"p95"`
	P99 int64 `json:"p99"`
}

// DeliveryStats summarizes the tracked window.
type DeliveryStats struct {
	Endpoint     string    `json:"endpoint"`
	Total        int       `json:"total_sends_1h"`
	Delivered    int       `json:"delivered_1h"`
	Accepted     int       `json:"accepted_1h"`
	LastSend     time.Time `json:"last_send"`
	Latency      LatencyMS `json:"latency_ms"`
	RecentErrors []string  `json:"recent_errors"`
}

// NewDeliveryTracker creates a tracker for endpoint.
func NewDeliveryTracker(endpoint string) *DeliveryTracker {
	return &DeliveryTracker{
		endpoint: endpoint,
		now:      time.Now,
	}
}

// TrackResponse records a send that received an HTTP response.
func (t *DeliveryTracker) TrackResponse(status int, latency time.Duration) {
	t.track(delivery{status: status, latency: latency})
}

// TrackFailure records a send that got no response.
func (t *DeliveryTracker) TrackFailure(latency time.Duration, err error) {
	d := delivery{latency: latency}
	if err != nil {
		d.err = err.Error()
	}
	t.track(d)
}

func (t *DeliveryTracker) track(d delivery) {
	t.mu.Lock()
	defer t.mu.Unlock()

	d.timestamp = t.now().UTC()
	t.deliveries = append(t.deliveries, d)
	t.prune()
}

// prune drops deliveries older than the window. Callers hold t.mu.
func (t *DeliveryTracker) prune() {
	cutoff := t.now().Add(-deliveryWindow)
	for i, d := range t.deliveries {
		if d.timestamp.After(cutoff) {
			t.deliveries = t.deliveries[i:]
			return
		}
	}
	t.deliveries = nil
}

// Stats summarizes the sends of the last hour.
func (t *DeliveryTracker) Stats() DeliveryStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.prune()

	stats := DeliveryStats{
		Endpoint:     t.endpoint,
		Total:        len(t.deliveries),
		RecentErrors: make([]string, 0),
	}
	latencies := make([]int64, 0, len(t.deliveries))

	for _, d := range t.deliveries {
		if d.status != 0 {
			stats.Delivered++
			if d.status >= 200 && d.status <= 299 {
				stats.Accepted++
			}
		} else if len(stats.RecentErrors) < maxRecentErrors {
			stats.RecentErrors = append(stats.RecentErrors, d.err)
		}

		latencies = append(latencies, d.latency.Milliseconds())
		if d.timestamp.After(stats.LastSend) {
			stats.LastSend = d.timestamp
		}
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	stats.Latency = LatencyMS{
		P50: percentile(latencies, 0.50),
		P95: percentile(latencies, 0.95),
		P99: percentile(latencies, 0.99),
	}

	return stats
}

// percentile reads the p-th percentile of a sorted slice.
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
