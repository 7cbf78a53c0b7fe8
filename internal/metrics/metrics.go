// Package metrics accumulates request counters and latency for the
// translation engine. Counters are lock-free atomics; the running latency
// mean is incremental so memory stays bounded regardless of traffic.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/voicebridge/translation-engine/internal/domain"
)

// Recorder collects engine-wide counters. The zero value is not usable;
// call New.
type Recorder struct {
	requests  atomic.Int64
	cacheHits atomic.Int64
	memHits   atomic.Int64
	fastHits  atomic.Int64
	modelHits atomic.Int64
	emergency atomic.Int64
	errors    atomic.Int64

	mu      sync.Mutex
	avgMs   float64
	samples int64
}

// Snapshot is a point-in-time view of the recorder, plus per-provider
// availability merged in by the engine.
type Snapshot struct {
	TotalRequests         int64
	CacheHits             int64
	MemoryHits            int64
	FastTierHits          int64
	ModelHits             int64
	EmergencyHits         int64
	Errors                int64
	AverageResponseTimeMs float64
	ProviderAvailability  map[string]bool
}

// New creates an empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

// RecordRequest counts one inbound resolution request.
func (r *Recorder) RecordRequest() {
	r.requests.Add(1)
}

// RecordOutcome counts a completed resolution for the given tier and folds
// its latency into the running mean: avg += (elapsed - avg) / n.
func (r *Recorder) RecordOutcome(tier domain.Tier, elapsed time.Duration) {
	switch tier {
	case domain.TierCache:
		r.cacheHits.Add(1)
	case domain.TierMemory:
		r.memHits.Add(1)
	case domain.TierFast:
		r.fastHits.Add(1)
	case domain.TierModel:
		r.modelHits.Add(1)
	case domain.TierEmergency:
		r.emergency.Add(1)
	}

	ms := float64(elapsed.Microseconds()) / 1000.0

	r.mu.Lock()
	r.samples++
	r.avgMs += (ms - r.avgMs) / float64(r.samples)
	r.mu.Unlock()
}

// RecordError counts a request that failed validation or a write path.
func (r *Recorder) RecordError() {
	r.errors.Add(1)
}

// SnapshotCounters returns the current counters. ProviderAvailability is
// left nil; the engine fills it from the resolver's breaker.
func (r *Recorder) SnapshotCounters() Snapshot {
	r.mu.Lock()
	avg := r.avgMs
	r.mu.Unlock()

	return Snapshot{
		TotalRequests:         r.requests.Load(),
		CacheHits:             r.cacheHits.Load(),
		MemoryHits:            r.memHits.Load(),
		FastTierHits:          r.fastHits.Load(),
		ModelHits:             r.modelHits.Load(),
		EmergencyHits:         r.emergency.Load(),
		Errors:                r.errors.Load(),
		AverageResponseTimeMs: avg,
	}
}

// Reset zeroes all counters and the running mean.
func (r *Recorder) Reset() {
	r.requests.Store(0)
	r.cacheHits.Store(0)
	r.memHits.Store(0)
	r.fastHits.Store(0)
	r.modelHits.Store(0)
	r.emergency.Store(0)
	r.errors.Store(0)

	r.mu.Lock()
	r.avgMs = 0
	r.samples = 0
	r.mu.Unlock()
}
