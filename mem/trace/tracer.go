// Package trace provides hooks that record the requests served by the memory
// system.
package trace

import (
	"log"

	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/sim"
)

// CompletionTable is the table that holds the completion events.
const CompletionTable = "completions"

// CompletionEntry is a row of the completion table.
type CompletionEntry struct {
	ReqID           string
	CoreID          int
	Address         uint64
	Kind            string
	IssueCycle      uint64
	CompletionCycle uint64
	Latency         uint64
	Location        string
}

// A Filter selects the completion events that a tracer handles.
type Filter func(evt mem.CompletionEvent) bool

// All accepts every completion event.
func All(mem.CompletionEvent) bool { return true }

// FromCores accepts the completion events of requests issued by cores. The
// write-backs generated by caches are dropped.
func FromCores(evt mem.CompletionEvent) bool {
	return evt.CoreID >= 0
}

func domainName(ctx sim.HookCtx) string {
	if named, ok := ctx.Domain.(sim.Named); ok {
		return named.Name()
	}

	return "?"
}

// A dbTracer is a hook that writes completion events into a database.
type dbTracer struct {
	dataRecorder datarecording.DataRecorder
	filter       Filter
}

// NewDBTracer creates a hook that records the completion events that pass the
// filter into the completions table.
func NewDBTracer(
	dataRecorder datarecording.DataRecorder,
	filter Filter,
) sim.Hook {
	t := &dbTracer{
		dataRecorder: dataRecorder,
		filter:       filter,
	}

	t.dataRecorder.CreateTable(CompletionTable, CompletionEntry{})

	return t
}

// Func records completion events.
func (t *dbTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != mem.HookPosReqComplete {
		return
	}

	evt, ok := ctx.Item.(mem.CompletionEvent)
	if !ok || !t.filter(evt) {
		return
	}

	t.dataRecorder.InsertData(CompletionTable, CompletionEntry{
		ReqID:           evt.ReqID,
		CoreID:          evt.CoreID,
		Address:         evt.Address,
		Kind:            evt.Kind.String(),
		IssueCycle:      evt.IssueCycle,
		CompletionCycle: evt.CompletionCycle,
		Latency:         evt.Latency(),
		Location:        evt.Where,
	})
}

// A logTracer is a hook that prints one line per request event.
type logTracer struct {
	logger *log.Logger
}

// NewLogTracer creates a hook that prints the start and the end of every
// request that passes through a component.
func NewLogTracer(logger *log.Logger) sim.Hook {
	return &logTracer{logger: logger}
}

// Func prints request events.
func (t *logTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case mem.HookPosReqIssue:
		req, ok := ctx.Item.(*mem.Request)
		if !ok {
			return
		}

		t.logger.Printf("start, %d, %s, %s, %s, 0x%x\n",
			ctx.Now, domainName(ctx), req.ID, req.Kind, req.Address)
	case mem.HookPosReqComplete:
		evt, ok := ctx.Item.(mem.CompletionEvent)
		if !ok {
			return
		}

		t.logger.Printf("end, %d, %s, %s, %s, 0x%x\n",
			ctx.Now, domainName(ctx), evt.ReqID, evt.Kind, evt.Address)
	}
}
