package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters and request latency.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	latency      map[string]*latencyTotals
}

type latencyTotals struct {
	count int64
	total time.Duration
	max   time.Duration
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		latency:      make(map[string]*latencyTotals),
	}
}

// RecordRequest increments the request counter for the status and adds
// duration to the route's latency totals.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, strconv.Itoa(status))
	route := path + "|" + method
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++

	lt, ok := m.latency[route]
	if !ok {
		lt = &latencyTotals{}
		m.latency[route] = lt
	}
	lt.count++
	lt.total += duration
	if duration > lt.max {
		lt.max = duration
	}
}

// RecordError increments error counters, keyed by the error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := pathKey(path, method, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Requests map[string]int64        `json:"requests"`
	Errors   map[string]int64        `json:"errors"`
	Latency  map[string]LatencyStats `json:"latency"`
}

// LatencyStats summarizes request durations for one route, in milliseconds.
type LatencyStats struct {
	Count  int64   `json:"count"`
	MeanMS float64 `json:"mean_ms"`
	MaxMS  float64 `json:"max_ms"`
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{Requests: map[string]int64{}, Errors: map[string]int64{}, Latency: map[string]LatencyStats{}}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		snap.Requests[k] = v
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	for k, lt := range m.latency {
		snap.Latency[k] = LatencyStats{
			Count:  lt.count,
			MeanMS: millis(lt.total) / float64(lt.count),
			MaxMS:  millis(lt.max),
		}
	}
	return snap
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func pathKey(path, method, suffix string) string {
	return path + "|" + method + "|" + suffix
}
