package metrics

import (
	"sync"
	"time"
)

// ModelLatency is the rolling latency view for one model.
type ModelLatency struct {
	// EWMA of inference round-trip in milliseconds.
	EWMAms float64 `json:"ewma_ms"`

	// Outcomes since the process started.
	OK    uint64 `json:"ok"`
	Error uint64 `json:"error"`

	// Last observed round-trip in milliseconds.
	LastMs float64 `json:"last_ms"`
}

// LatencyTracker keeps a per-model EWMA of inference latency.
type LatencyTracker struct {
	mu     sync.RWMutex
	alpha  float64
	models map[string]*ModelLatency
}

// NewLatencyTracker creates a tracker with EWMA smoothing factor alpha.
// Typical alpha: 0.1..0.3 (higher reacts faster).
func NewLatencyTracker(alpha float64) *LatencyTracker {
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.2
	}
	return &LatencyTracker{
		alpha:  alpha,
		models: map[string]*ModelLatency{},
	}
}

func (t *LatencyTracker) ObserveOK(model string, rtt time.Duration) {
	t.observe(model, rtt, true)
}

func (t *LatencyTracker) ObserveError(model string, rtt time.Duration) {
	t.observe(model, rtt, false)
}

func (t *LatencyTracker) observe(model string, rtt time.Duration, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	l := t.models[model]
	if l == nil {
		l = &ModelLatency{}
		t.models[model] = l
	}

	// Inference on small models runs well under a millisecond, so keep
	// the fraction instead of truncating to whole milliseconds.
	ms := float64(rtt) / float64(time.Millisecond)
	if ms < 0 {
		ms = 0
	}

	if l.OK+l.Error == 0 {
		l.EWMAms = ms
	} else {
		l.EWMAms = t.alpha*ms + (1-t.alpha)*l.EWMAms
	}

	l.LastMs = ms
	if ok {
		l.OK++
	} else {
		l.Error++
	}
}

func (t *LatencyTracker) Get(model string) (ModelLatency, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	l := t.models[model]
	if l == nil {
		return ModelLatency{}, false
	}
	return *l, true
}

func (t *LatencyTracker) Snapshot() map[string]ModelLatency {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]ModelLatency, len(t.models))
	for k, v := range t.models {
		out[k] = *v
	}
	return out
}
