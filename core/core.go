// Package core provides the request generator that drives a simulation.
package core

import (
	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/sim"
)

// Stats counts the work of a core.
type Stats struct {
	IssuedReads      uint64
	IssuedWrites     uint64
	CompletedReads   uint64
	StallCycles      uint64
	TotalReadLatency uint64
	MaxReadLatency   uint64
}

// AverageReadLatency returns the mean number of cycles that a read takes.
func (s Stats) AverageReadLatency() float64 {
	if s.CompletedReads == 0 {
		return 0
	}

	return float64(s.TotalReadLatency) / float64(s.CompletedReads)
}

// Comp is a core. It issues at most one memory operation per cycle and stops
// issuing while one of its reads is outstanding or while its first cache
// level cannot take a request. Without a trace, operations
// are drawn from the weights. With a trace, the core performs the scripted
// operations and delays those that fall on blocked cycles.
type Comp struct {
	*sim.ComponentBase

	coreID    int
	lowModule mem.LowModule

	weights     Weights
	baseAddress uint64
	slots       uint64
	alignment   uint64
	readsLeft   int
	writesLeft  int

	trace    Trace
	deferred []Op

	outstanding *mem.Request
	stats       Stats
}

// CoreID returns the ID stamped on the requests of the core.
func (c *Comp) CoreID() int {
	return c.coreID
}

// SetLowModule sets the first cache level of the core.
func (c *Comp) SetLowModule(m mem.LowModule) {
	c.lowModule = m
}

// LoadTrace makes the core follow a script instead of generating operations
// randomly.
func (c *Comp) LoadTrace(t Trace) {
	c.trace = t
	c.deferred = nil
}

// IsBlocked returns true if the core waits for a read.
func (c *Comp) IsBlocked() bool {
	return c.outstanding != nil
}

// Pending returns the number of scripted operations delayed by stalls.
func (c *Comp) Pending() int {
	return len(c.deferred)
}

// Stats returns the counters of the core.
func (c *Comp) Stats() Stats {
	return c.stats
}

// Tick runs the core for one cycle. It returns true if a request is issued.
func (c *Comp) Tick(ctx *sim.Context) bool {
	if c.trace != nil {
		if op, ok := c.trace[ctx.Now()]; ok && op.Kind != NoOp {
			c.deferred = append(c.deferred, op)
		}
	}

	if c.IsBlocked() || !c.lowModule.CanAccept() {
		c.stats.StallCycles++
		return false
	}

	op := c.nextOp(ctx)
	if op.Kind == NoOp {
		return false
	}

	c.issue(ctx, op)

	return true
}

func (c *Comp) nextOp(ctx *sim.Context) Op {
	if c.trace != nil {
		if len(c.deferred) == 0 {
			return Op{}
		}

		op := c.deferred[0]
		c.deferred = c.deferred[1:]

		return op
	}

	return c.randomOp(ctx)
}

func (c *Comp) randomOp(ctx *sim.Context) Op {
	w := c.weights
	if c.readsLeft == 0 {
		w.Read = 0
	}

	if c.writesLeft == 0 {
		w.Write = 0
	}

	if w.Read+w.Write == 0 {
		return Op{}
	}

	kind := w.pick(ctx.Rand().Intn(w.total()))
	if kind == NoOp {
		return Op{}
	}

	slot := uint64(ctx.Rand().Int63n(int64(c.slots)))

	return Op{Kind: kind, Address: c.baseAddress + slot*c.alignment}
}

func (c *Comp) issue(ctx *sim.Context, op Op) {
	builder := mem.RequestBuilder{}.
		WithCoreID(c.coreID).
		WithAddress(op.Address).
		WithIssueCycle(ctx.Now())

	switch op.Kind {
	case ReadOp:
		builder = builder.
			WithKind(mem.Read).
			WithCallback(c.onReadDone)
		c.stats.IssuedReads++
		c.readsLeft = decrement(c.readsLeft)
	case WriteOp:
		builder = builder.WithKind(mem.Write)
		c.stats.IssuedWrites++
		c.writesLeft = decrement(c.writesLeft)
	}

	req := builder.Build()
	if req.IsRead() {
		c.outstanding = req
	}

	c.hook(ctx, mem.HookPosReqIssue, req)

	c.lowModule.Accept(ctx, req)
}

func (c *Comp) onReadDone(ctx *sim.Context, evt mem.CompletionEvent) {
	if c.outstanding == nil || c.outstanding.ID != evt.ReqID {
		return
	}

	c.outstanding = nil

	latency := evt.Latency()
	c.stats.CompletedReads++
	c.stats.TotalReadLatency += latency
	c.stats.MaxReadLatency = max(c.stats.MaxReadLatency, latency)

	evt.Where = c.Name()
	c.hook(ctx, mem.HookPosReqComplete, evt)
}

func (c *Comp) hook(ctx *sim.Context, pos *sim.HookPos, item any) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Now:    ctx.Now(),
		Pos:    pos,
		Item:   item,
	})
}

func decrement(budget int) int {
	if budget == Unlimited {
		return budget
	}

	return budget - 1
}
