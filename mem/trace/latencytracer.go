package trace

import (
	"sort"
	"sync"

	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/sim"
)

// LatencyKey groups completion events.
type LatencyKey struct {
	CoreID int
	Kind   mem.AccessKind
}

// LatencyStats summarizes the latency of a group of requests.
type LatencyStats struct {
	Count uint64
	Total uint64
	Min   uint64
	Max   uint64
}

// Average returns the mean latency.
func (s LatencyStats) Average() float64 {
	if s.Count == 0 {
		return 0
	}

	return float64(s.Total) / float64(s.Count)
}

// LatencyTracer collects the latency of completed requests per core and kind.
type LatencyTracer struct {
	filter Filter

	lock  sync.Mutex
	stats map[LatencyKey]LatencyStats
}

// NewLatencyTracer creates a new LatencyTracer.
func NewLatencyTracer(filter Filter) *LatencyTracer {
	return &LatencyTracer{
		filter: filter,
		stats:  make(map[LatencyKey]LatencyStats),
	}
}

// Func records a completion event.
func (t *LatencyTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != mem.HookPosReqComplete {
		return
	}

	evt, ok := ctx.Item.(mem.CompletionEvent)
	if !ok || !t.filter(evt) {
		return
	}

	key := LatencyKey{CoreID: evt.CoreID, Kind: evt.Kind}
	latency := evt.Latency()

	t.lock.Lock()
	defer t.lock.Unlock()

	s := t.stats[key]
	if s.Count == 0 || latency < s.Min {
		s.Min = latency
	}

	s.Count++
	s.Total += latency
	s.Max = max(s.Max, latency)
	t.stats[key] = s
}

// Stats returns the summary of a group.
func (t *LatencyTracer) Stats(key LatencyKey) LatencyStats {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.stats[key]
}

// Keys returns the groups seen so far, ordered by core and kind.
func (t *LatencyTracer) Keys() []LatencyKey {
	t.lock.Lock()
	defer t.lock.Unlock()

	keys := make([]LatencyKey, 0, len(t.stats))
	for k := range t.stats {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CoreID != keys[j].CoreID {
			return keys[i].CoreID < keys[j].CoreID
		}

		return keys[i].Kind < keys[j].Kind
	})

	return keys
}
