// Package interconnect provides a bandwidth-limited FIFO connection between
// the caches and the memory controller.
package interconnect

import (
	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/sim"
)

// HookPosForward marks when a request leaves the interconnect.
var HookPosForward = &sim.HookPos{Name: "Interconnect Forward"}

// Downstream is the component that the interconnect delivers requests to.
type Downstream interface {
	CanAccept() bool
	Accept(ctx *sim.Context, req *mem.Request)
}

type transit struct {
	req   *mem.Request
	ready uint64
}

// Comp is an interconnect. Requests leave in the order that they arrive. The
// head of the queue blocks everything behind it until its latency has passed
// and the downstream component has space.
type Comp struct {
	*sim.ComponentBase
	sim.MiddlewareHolder

	buf        sim.Buffer
	downstream Downstream
	bandwidth  int
	minLatency uint64
	jitterMax  int
	reserve    int

	forwarded uint64
}

// SetDownstream sets the component that receives the forwarded requests.
func (c *Comp) SetDownstream(d Downstream) {
	c.downstream = d
}

// Buffer returns the queue of the requests in transit.
func (c *Comp) Buffer() sim.Buffer {
	return c.buf
}

// Forwarded returns the number of requests delivered so far.
func (c *Comp) Forwarded() uint64 {
	return c.forwarded
}

// CanAccept returns true if a request that the level above holds back can
// still enter. The reserved slots stay free for requests caused by
// completions.
func (c *Comp) CanAccept() bool {
	return c.buf.Size()+c.reserve < c.buf.Capacity()
}

// Accept puts a request at the end of the queue. The request becomes ready
// after the minimum latency plus a random jitter.
func (c *Comp) Accept(ctx *sim.Context, req *mem.Request) {
	ready := ctx.Now() + c.minLatency
	if c.jitterMax > 0 {
		ready += uint64(ctx.Rand().Intn(c.jitterMax + 1))
	}

	c.buf.Push(&transit{req: req, ready: ready})

	c.hook(ctx, mem.HookPosReqIssue, req)
}

// Tick forwards the requests that are ready.
func (c *Comp) Tick(ctx *sim.Context) bool {
	return c.MiddlewareHolder.Tick(ctx)
}

func (c *Comp) hook(ctx *sim.Context, pos *sim.HookPos, req *mem.Request) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Now:    ctx.Now(),
		Pos:    pos,
		Item:   req,
	})
}

type forwardMW struct {
	*Comp
}

// Tick delivers up to bandwidth requests from the head of the queue.
func (m *forwardMW) Tick(ctx *sim.Context) bool {
	madeProgress := false

	for i := 0; i < m.bandwidth; i++ {
		if !m.forwardOne(ctx) {
			break
		}

		madeProgress = true
	}

	return madeProgress
}

func (m *forwardMW) forwardOne(ctx *sim.Context) bool {
	head := m.buf.Peek()
	if head == nil {
		return false
	}

	t := head.(*transit)
	if t.ready > ctx.Now() {
		return false
	}

	if m.downstream == nil || !m.downstream.CanAccept() {
		return false
	}

	m.buf.Pop()
	m.downstream.Accept(ctx, t.req)
	m.forwarded++

	m.hook(ctx, HookPosForward, t.req)

	return true
}
