// Package cache provides a set-associative cache level that can be stacked
// into a hierarchy.
package cache

import (
	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/mem/cache/internal/tagging"
	"github.com/sarchlab/memsim/sim"
)

// NoCore is the core ID of the requests that no core issued, such as
// write-backs of evicted lines.
const NoCore = -1

// Stats counts the outcome of the accesses to a cache level.
type Stats struct {
	ReadHits    uint64
	ReadMisses  uint64
	WriteHits   uint64
	WriteMisses uint64
	WriteBacks  uint64
	Evictions   uint64
	MSHRMerges  uint64
}

// Hits returns the total number of hits.
func (s Stats) Hits() uint64 {
	return s.ReadHits + s.WriteHits
}

// Misses returns the total number of misses.
func (s Stats) Misses() uint64 {
	return s.ReadMisses + s.WriteMisses
}

// MissRate returns the fraction of the accesses that missed.
func (s Stats) MissRate() float64 {
	total := s.Hits() + s.Misses()
	if total == 0 {
		return 0
	}

	return float64(s.Misses()) / float64(total)
}

type mshrEntry struct {
	blockAddr uint64
	waiting   []*mem.Request
}

// Comp is a cache level. A cache level has no clock of its own. It serves the
// requests at the cycle they arrive and fills lines when the lower level
// calls back.
type Comp struct {
	*sim.ComponentBase

	lower         mem.LowModule
	tags          tagging.TagArray
	writePolicy   WritePolicy
	writeAllocate bool
	lineSize      uint64
	log2Line      uint64
	log2Sets      uint64
	mshr          map[uint64]*mshrEntry
	stats         Stats
}

// SetLowModule sets the module that serves the misses.
func (c *Comp) SetLowModule(lower mem.LowModule) {
	c.lower = lower
}

// Stats returns the access counters.
func (c *Comp) Stats() Stats {
	return c.stats
}

// NumSets returns the number of sets.
func (c *Comp) NumSets() int {
	return c.tags.NumSets()
}

// NumWays returns the associativity.
func (c *Comp) NumWays() int {
	return c.tags.NumWays()
}

// LineSize returns the size of a cache line in bytes.
func (c *Comp) LineSize() uint64 {
	return c.lineSize
}

// PendingMisses returns the number of blocks being fetched from below.
func (c *Comp) PendingMisses() int {
	return len(c.mshr)
}

// CanAccept returns true if the lower level can take the traffic that one
// access may cause. A cache level holds no queue of its own.
func (c *Comp) CanAccept() bool {
	return c.lower == nil || c.lower.CanAccept()
}

// Accept serves a request from the level above.
func (c *Comp) Accept(ctx *sim.Context, req *mem.Request) {
	c.hook(ctx, mem.HookPosReqIssue, req)

	switch req.Kind {
	case mem.Read:
		c.Read(ctx, req)
	case mem.Write:
		c.Write(ctx, req)
	default:
		panic("unknown access kind")
	}
}

// Lookup finds the line that holds the address, without updating the
// replacement state.
func (c *Comp) Lookup(addr uint64) (tagging.Block, bool) {
	setID, tag := c.decompose(addr)
	return c.tags.Lookup(setID, tag)
}

// Read serves a read. A hit completes immediately. A miss is recorded in the
// MSHR, and only the first miss to a block is sent to the lower level.
func (c *Comp) Read(ctx *sim.Context, req *mem.Request) {
	setID, tag := c.decompose(req.Address)

	block, hit := c.tags.Lookup(setID, tag)
	if hit {
		c.stats.ReadHits++
		c.tags.Visit(block)
		c.finish(ctx, req)

		return
	}

	c.stats.ReadMisses++

	blockAddr := c.blockAddr(req.Address)
	if entry, ok := c.mshr[blockAddr]; ok {
		c.stats.MSHRMerges++
		entry.waiting = append(entry.waiting, req)

		return
	}

	c.mshr[blockAddr] = &mshrEntry{
		blockAddr: blockAddr,
		waiting:   []*mem.Request{req},
	}

	readToBottom := mem.RequestBuilder{}.
		WithParentID(req.ID).
		WithCoreID(req.CoreID).
		WithAddress(blockAddr).
		WithKind(mem.Read).
		WithIssueCycle(ctx.Now()).
		WithCallback(func(ctx *sim.Context, _ mem.CompletionEvent) {
			c.finishMiss(ctx, blockAddr)
		}).
		Build()
	c.lower.Accept(ctx, readToBottom)
}

func (c *Comp) finishMiss(ctx *sim.Context, blockAddr uint64) {
	entry, ok := c.mshr[blockAddr]
	if !ok {
		panic("fill of a block that is not being fetched")
	}

	delete(c.mshr, blockAddr)

	c.Fill(ctx, blockAddr, false)

	for _, req := range entry.waiting {
		c.finish(ctx, req)
	}
}

// Write serves a write. Writes never call back.
func (c *Comp) Write(ctx *sim.Context, req *mem.Request) {
	setID, tag := c.decompose(req.Address)

	block, hit := c.tags.Lookup(setID, tag)
	if hit {
		c.stats.WriteHits++
		c.tags.Visit(block)

		switch c.writePolicy {
		case WriteBack:
			block.IsDirty = true
			c.tags.Update(block)
		case WriteThrough:
			c.forwardWrite(ctx, req)
		}

		c.retire(ctx, req)

		return
	}

	c.stats.WriteMisses++

	if c.writeAllocate {
		c.Fill(ctx, req.Address, true)
	}

	if !c.writeAllocate || c.writePolicy == WriteThrough {
		c.forwardWrite(ctx, req)
	}

	c.retire(ctx, req)
}

// Fill places the block that holds the address into the cache. If a dirty
// line is evicted, the write-back request is sent to the lower level and
// returned.
func (c *Comp) Fill(
	ctx *sim.Context,
	addr uint64,
	isWrite bool,
) *mem.Request {
	setID, tag := c.decompose(addr)
	dirty := isWrite && c.writePolicy == WriteBack

	if block, found := c.tags.Lookup(setID, tag); found {
		block.IsDirty = block.IsDirty || dirty
		c.tags.Update(block)
		c.tags.Visit(block)

		return nil
	}

	victim := c.tags.FindVictim(setID)

	var writeBack *mem.Request
	if victim.IsValid {
		c.stats.Evictions++

		if victim.IsDirty {
			writeBack = c.writeBack(ctx, victim)
		}
	}

	victim.Tag = tag
	victim.IsValid = true
	victim.IsDirty = dirty
	c.tags.Update(victim)
	c.tags.Visit(victim)

	return writeBack
}

func (c *Comp) writeBack(ctx *sim.Context, victim tagging.Block) *mem.Request {
	c.stats.WriteBacks++

	req := mem.RequestBuilder{}.
		WithCoreID(NoCore).
		WithAddress(c.victimAddr(victim)).
		WithKind(mem.Write).
		WithIssueCycle(ctx.Now()).
		Build()
	c.lower.Accept(ctx, req)

	return req
}

func (c *Comp) forwardWrite(ctx *sim.Context, req *mem.Request) {
	writeToBottom := mem.RequestBuilder{}.
		WithParentID(req.ID).
		WithCoreID(req.CoreID).
		WithAddress(c.blockAddr(req.Address)).
		WithKind(mem.Write).
		WithIssueCycle(ctx.Now()).
		Build()
	c.lower.Accept(ctx, writeToBottom)
}

func (c *Comp) finish(ctx *sim.Context, req *mem.Request) {
	evt := req.Complete(ctx, c.Name())
	c.hook(ctx, mem.HookPosReqComplete, evt)
}

func (c *Comp) retire(ctx *sim.Context, req *mem.Request) {
	evt := mem.NewCompletionEvent(req, ctx.Now(), c.Name())
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

func (c *Comp) decompose(addr uint64) (setID int, tag uint64) {
	numSets := uint64(1) << c.log2Sets
	setID = int((addr >> c.log2Line) & (numSets - 1))
	tag = addr >> (c.log2Line + c.log2Sets)

	return setID, tag
}

func (c *Comp) blockAddr(addr uint64) uint64 {
	return addr >> c.log2Line << c.log2Line
}

func (c *Comp) victimAddr(block tagging.Block) uint64 {
	return (block.Tag<<c.log2Sets | uint64(block.SetID)) << c.log2Line
}
