// Package telemetry provides lightweight instrumentation for measuring
// operation latency and counters. A Collector travels on the context; code
// that has no collector configured pays almost nothing.
package telemetry

import (
	"context"
	"sync"
	"time"
)

// Collector receives timing and counter measurements.
type Collector interface {
	// Timing records the duration of a named operation.
	Timing(name string, d time.Duration)

	// Count adds delta to a named counter.
	Count(name string, delta int64)
}

type contextKey struct{}

// WithCollector returns a context carrying the given collector.
func WithCollector(ctx context.Context, c Collector) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the collector carried by the context, or a no-op
// collector when none is configured.
func FromContext(ctx context.Context) Collector {
	if c, ok := ctx.Value(contextKey{}).(Collector); ok {
		return c
	}
	return noop{}
}

type noop struct{}

func (noop) Timing(string, time.Duration) {}
func (noop) Count(string, int64)          {}

// Timer measures the duration of one operation.
type Timer struct {
	collector Collector
	name      string
	start     time.Time
}

// StartTimer begins timing a named operation using the context's collector.
func StartTimer(ctx context.Context, name string) *Timer {
	return &Timer{
		collector: FromContext(ctx),
		name:      name,
		start:     time.Now(),
	}
}

// Stop records the elapsed time since the timer started.
func (t *Timer) Stop() {
	t.collector.Timing(t.name, time.Since(t.start))
}

// TimingStats summarizes the recorded durations of one operation.
type TimingStats struct {
	Count int64
	Total time.Duration
	Max   time.Duration
}

// Memory is a Collector that aggregates measurements in memory. Safe for
// concurrent use.
type Memory struct {
	mu       sync.Mutex
	timings  map[string]TimingStats
	counters map[string]int64
}

// NewMemory creates an in-memory collector.
func NewMemory() *Memory {
	return &Memory{
		timings:  make(map[string]TimingStats),
		counters: make(map[string]int64),
	}
}

func (m *Memory) Timing(name string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.timings[name]
	stats.Count++
	stats.Total += d
	if d > stats.Max {
		stats.Max = d
	}
	m.timings[name] = stats
}

func (m *Memory) Count(name string, delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[name] += delta
}

// Timings returns a copy of the aggregated timing statistics.
func (m *Memory) Timings() map[string]TimingStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]TimingStats, len(m.timings))
	for name, stats := range m.timings {
		out[name] = stats
	}
	return out
}

// Counters returns a copy of the aggregated counters.
func (m *Memory) Counters() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]int64, len(m.counters))
	for name, value := range m.counters {
		out[name] = value
	}
	return out
}
