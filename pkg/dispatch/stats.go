package dispatch

import (
	"sync/atomic"
	"time"
)

// Stats tracks execution counters for one run. All fields are updated
// atomically by workers and safe to read while the run is in flight.
type Stats struct {
	Total         int64
	Completed     int64
	Succeeded     int64
	Failed        int64
	Skipped       int64 // host-error skips, never dispatched to the network
	NotDispatched int64 // cut off by cancellation
	StartTime     time.Time
}

// RPS returns the observed probes-per-second rate.
func (s *Stats) RPS() float64 {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(atomic.LoadInt64(&s.Completed)) / elapsed
}

// Progress returns completion percentage (0-100).
func (s *Stats) Progress() float64 {
	total := atomic.LoadInt64(&s.Total)
	if total == 0 {
		return 0
	}
	return float64(atomic.LoadInt64(&s.Completed)) / float64(total) * 100
}

// Truncated reports whether cancellation cut the run short.
func (s *Stats) Truncated() bool {
	return atomic.LoadInt64(&s.NotDispatched) > 0
}
