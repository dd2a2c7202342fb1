// Package mem defines the requests that travel through the memory hierarchy.
package mem

import (
	"github.com/sarchlab/memsim/sim"
)

// AccessKind tells if a request reads or writes memory.
type AccessKind int

// A list of all the access kinds.
const (
	Read AccessKind = iota
	Write
)

func (k AccessKind) String() string {
	switch k {
	case Read:
		return "READ"
	case Write:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// HookPosReqIssue marks when a request enters a component.
var HookPosReqIssue = &sim.HookPos{Name: "Req Issue"}

// HookPosReqComplete marks when a request completes or retires in a component.
var HookPosReqComplete = &sim.HookPos{Name: "Req Complete"}

// A Callback is invoked when a read request completes.
type Callback func(ctx *sim.Context, evt CompletionEvent)

// A Request is a memory access. It is never modified after being built.
// Components that need to access a lower level create new requests that refer
// to the original one through ParentID.
type Request struct {
	ID         string
	ParentID   string
	CoreID     int
	Address    uint64
	Kind       AccessKind
	IssueCycle uint64
	Callback   Callback
}

// IsRead returns true if the request is a read.
func (r *Request) IsRead() bool {
	return r.Kind == Read
}

// Complete notifies the requester that the request finished at the current
// cycle. Requests without a callback are ignored.
func (r *Request) Complete(ctx *sim.Context, where string) CompletionEvent {
	evt := NewCompletionEvent(r, ctx.Now(), where)

	if r.Callback != nil {
		r.Callback(ctx, evt)
	}

	return evt
}

// CompletionEvent reports that a request finished.
type CompletionEvent struct {
	ReqID           string
	CoreID          int
	Address         uint64
	Kind            AccessKind
	IssueCycle      uint64
	CompletionCycle uint64
	Where           string
}

// Latency returns the number of cycles between issue and completion.
func (e CompletionEvent) Latency() uint64 {
	return e.CompletionCycle - e.IssueCycle
}

// NewCompletionEvent creates the completion event of a request.
func NewCompletionEvent(
	req *Request,
	completionCycle uint64,
	where string,
) CompletionEvent {
	return CompletionEvent{
		ReqID:           req.ID,
		CoreID:          req.CoreID,
		Address:         req.Address,
		Kind:            req.Kind,
		IssueCycle:      req.IssueCycle,
		CompletionCycle: completionCycle,
		Where:           where,
	}
}

// A LowModule is a component that can serve requests from the level above.
// The level above must not call Accept while CanAccept returns false.
type LowModule interface {
	CanAccept() bool
	Accept(ctx *sim.Context, req *Request)
}

// RequestBuilder can build requests.
type RequestBuilder struct {
	parentID   string
	coreID     int
	address    uint64
	kind       AccessKind
	issueCycle uint64
	callback   Callback
}

// WithParentID sets the ID of the request that the new request serves.
func (b RequestBuilder) WithParentID(id string) RequestBuilder {
	b.parentID = id
	return b
}

// WithCoreID sets the core that the request originates from.
func (b RequestBuilder) WithCoreID(coreID int) RequestBuilder {
	b.coreID = coreID
	return b
}

// WithAddress sets the address of the request to build.
func (b RequestBuilder) WithAddress(address uint64) RequestBuilder {
	b.address = address
	return b
}

// WithKind sets the access kind of the request to build.
func (b RequestBuilder) WithKind(kind AccessKind) RequestBuilder {
	b.kind = kind
	return b
}

// WithIssueCycle sets the cycle that the request is issued at.
func (b RequestBuilder) WithIssueCycle(cycle uint64) RequestBuilder {
	b.issueCycle = cycle
	return b
}

// WithCallback sets the function to call when a read completes.
func (b RequestBuilder) WithCallback(cb Callback) RequestBuilder {
	b.callback = cb
	return b
}

// Build creates a new request.
func (b RequestBuilder) Build() *Request {
	return &Request{
		ID:         sim.GetIDGenerator().Generate(),
		ParentID:   b.parentID,
		CoreID:     b.coreID,
		Address:    b.address,
		Kind:       b.kind,
		IssueCycle: b.issueCycle,
		Callback:   b.callback,
	}
}
