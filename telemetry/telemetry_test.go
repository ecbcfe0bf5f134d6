package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestFromContextDefaultsToNoop(t *testing.T) {
	c := FromContext(context.Background())

	// Must not panic and must accept measurements silently.
	c.Timing("x", time.Second)
	c.Count("x", 1)
}

func TestMemoryCollector(t *testing.T) {
	m := NewMemory()
	ctx := WithCollector(context.Background(), m)

	FromContext(ctx).Count("parse_errors", 2)
	FromContext(ctx).Count("parse_errors", 3)

	m.Timing("parse", 10*time.Millisecond)
	m.Timing("parse", 30*time.Millisecond)

	assert.Equal(t, int64(5), m.Counters()["parse_errors"])

	stats := m.Timings()["parse"]
	assert.Equal(t, int64(2), stats.Count)
	assert.Equal(t, 40*time.Millisecond, stats.Total)
	assert.Equal(t, 30*time.Millisecond, stats.Max)
}

func TestTimerRecordsElapsed(t *testing.T) {
	m := NewMemory()
	ctx := WithCollector(context.Background(), m)

	timer := StartTimer(ctx, "op")
	timer.Stop()

	stats := m.Timings()["op"]
	assert.Equal(t, int64(1), stats.Count)
}

func TestMemorySnapshotsAreCopies(t *testing.T) {
	m := NewMemory()
	m.Count("a", 1)

	snapshot := m.Counters()
	snapshot["a"] = 99

	assert.Equal(t, int64(1), m.Counters()["a"])
}
