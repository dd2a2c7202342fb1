package memctrl

import (
	"sort"

	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/sim"
)

type respondMW struct {
	*Comp
}

// Tick finalizes all the in-flight requests whose data burst has ended.
// Reads call back. Writes retire without notifying anyone.
func (m *respondMW) Tick(ctx *sim.Context) bool {
	var done, remaining []*entry

	for _, e := range m.inflight {
		if e.completion <= ctx.Now() {
			done = append(done, e)
		} else {
			remaining = append(remaining, e)
		}
	}

	if len(done) == 0 {
		return false
	}

	m.inflight = remaining

	sort.SliceStable(done, func(i, j int) bool {
		if done[i].completion != done[j].completion {
			return done[i].completion < done[j].completion
		}

		return done[i].seq < done[j].seq
	})

	for _, e := range done {
		m.finalize(ctx, e)
	}

	return true
}

func (m *respondMW) finalize(ctx *sim.Context, e *entry) {
	var evt mem.CompletionEvent

	if e.isRead() {
		m.stats.Reads++
		m.stats.TotalReadLatency += ctx.Now() - e.arrival
		evt = e.req.Complete(ctx, m.Name())
	} else {
		m.stats.Writes++
		evt = mem.NewCompletionEvent(e.req, ctx.Now(), m.Name())
	}

	m.hook(ctx, mem.HookPosReqComplete, evt, nil)
}
