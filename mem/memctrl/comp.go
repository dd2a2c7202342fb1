// Package memctrl provides a memory controller that schedules requests onto a
// DRAM device.
package memctrl

import (
	"log"

	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/mem/dram/signal"
	"github.com/sarchlab/memsim/sim"
)

// HookPosReqDispatch marks when the read or write command of a request is
// issued to the device.
var HookPosReqDispatch = &sim.HookPos{Name: "MemCtrl Dispatch"}

// burstStartKind is the kind that is preferred before anything is dispatched.
const burstStartKind = mem.Write

// Device is the DRAM device that a memory controller drives.
type Device interface {
	NumBanks() int
	Map(addr uint64) signal.Location
	NextCommand(loc signal.Location, access signal.CommandKind) signal.Command
	CanIssue(cmd signal.Command, now uint64) bool
	Issue(cmd signal.Command, now uint64) uint64
	RefreshDue(bank uint64, now uint64) bool
	RefreshCommand(bank uint64) signal.Command
}

// Stats counts the work of a memory controller.
type Stats struct {
	Reads                uint64
	Writes               uint64
	RowHits              uint64
	RowMisses            uint64
	RowConflicts         uint64
	StarvationPromotions uint64
	RefreshCommands      uint64
	IdleCycles           uint64
	TotalReadLatency     uint64
	MaxQueueLength       int
}

type entry struct {
	req        *mem.Request
	loc        signal.Location
	access     signal.CommandKind
	seq        uint64
	arrival    uint64
	completion uint64
	activated  bool
	conflicted bool
}

func (e *entry) isRead() bool {
	return e.req.Kind == mem.Read
}

// Comp is a memory controller. Requests wait in a queue until the scheduler
// dispatches their read or write command. Dispatched requests stay in flight
// until their data burst ends.
type Comp struct {
	*sim.ComponentBase
	sim.MiddlewareHolder

	device          Device
	queueCapacity   int
	starvationBound uint64
	maxBurst        int

	queue    []*entry
	inflight []*entry
	nextSeq  uint64

	burstKind  mem.AccessKind
	burstCount int

	stats Stats
}

// Tick runs the memory controller for one cycle. Completions are handled
// before any new command is issued.
func (c *Comp) Tick(ctx *sim.Context) bool {
	return c.MiddlewareHolder.Tick(ctx)
}

// CanAccept returns true if there is space in the queue.
func (c *Comp) CanAccept() bool {
	return len(c.queue) < c.queueCapacity
}

// Accept puts a request at the end of the queue.
func (c *Comp) Accept(ctx *sim.Context, req *mem.Request) {
	if !c.CanAccept() {
		log.Panicf("%s: queue overflow", c.Name())
	}

	access := signal.CmdKindRead
	if req.Kind == mem.Write {
		access = signal.CmdKindWrite
	}

	c.queue = append(c.queue, &entry{
		req:     req,
		loc:     c.device.Map(req.Address),
		access:  access,
		seq:     c.nextSeq,
		arrival: ctx.Now(),
	})
	c.nextSeq++

	c.stats.MaxQueueLength = max(c.stats.MaxQueueLength, len(c.queue))

	c.hook(ctx, mem.HookPosReqIssue, req, nil)
}

// QueueLength returns the number of requests waiting to be dispatched.
func (c *Comp) QueueLength() int {
	return len(c.queue)
}

// InflightCount returns the number of dispatched requests that have not
// completed.
func (c *Comp) InflightCount() int {
	return len(c.inflight)
}

// Stats returns the counters of the controller.
func (c *Comp) Stats() Stats {
	return c.stats
}

func (c *Comp) hook(
	ctx *sim.Context,
	pos *sim.HookPos,
	item any,
	detail any,
) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Now:    ctx.Now(),
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}

// hasOlderWrite returns true if a write to the same address that arrived
// before e has not retired.
func (c *Comp) hasOlderWrite(e *entry) bool {
	for _, list := range [][]*entry{c.inflight, c.queue} {
		for _, other := range list {
			if other.seq < e.seq &&
				other.req.Kind == mem.Write &&
				other.req.Address == e.req.Address {
				return true
			}
		}
	}

	return false
}
