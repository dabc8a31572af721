package main

import (
	"sync/atomic"
	"time"
)

// stats owns the run counters. Workers share one instance by pointer;
// the coordinator reads final values only after every worker has
// stopped, so the atomics are the only synchronization needed.
type stats struct {
	attempted atomic.Int64
	completed atomic.Int64
	latency   atomic.Int64 // summed latency of completed requests, nanoseconds
}

func (s *stats) recordAttempt() {
	s.attempted.Add(1)
}

func (s *stats) recordSuccess(d time.Duration) {
	s.completed.Add(1)
	s.latency.Add(int64(d))
}

// summary is a point-in-time snapshot of the counters.
type summary struct {
	Attempted  int64
	Completed  int64
	Throughput float64       // completed requests per second
	AvgLatency time.Duration // mean latency of completed requests
}

func (s *stats) summarize(elapsed time.Duration) summary {
	out := summary{
		Attempted: s.attempted.Load(),
		Completed: s.completed.Load(),
	}
	if elapsed > 0 {
		out.Throughput = float64(out.Completed) / elapsed.Seconds()
	}
	if out.Completed > 0 {
		out.AvgLatency = time.Duration(s.latency.Load() / out.Completed)
	}
	return out
}
