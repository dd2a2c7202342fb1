package sim

import "log"

// Hook positions of a buffer.
var (
	HookPosBufPush = &HookPos{Name: "Buf Push"}
	HookPosBufPop  = &HookPos{Name: "Buf Pop"}
)

// A Buffer is a bounded FIFO queue.
type Buffer interface {
	Named
	Hookable

	CanPush() bool

	// Push appends an element. It panics if the buffer is full.
	Push(e any)

	// Pop removes the oldest element. It returns nil if the buffer is empty.
	Pop() any

	Peek() any
	Capacity() int
	Size() int
	Clear()
}

// NewBuffer creates a buffer that holds up to capacity elements.
func NewBuffer(name string, capacity int) Buffer {
	NameMustBeValid(name)

	if capacity <= 0 {
		log.Panicf("buffer %s must have a positive capacity", name)
	}

	return &ringBuffer{
		name:  name,
		slots: make([]any, capacity),
	}
}

// ringBuffer stores the elements in a fixed slice. head is the slot of the
// oldest element.
type ringBuffer struct {
	HookableBase

	name  string
	slots []any
	head  int
	size  int
}

func (b *ringBuffer) Name() string {
	return b.name
}

func (b *ringBuffer) CanPush() bool {
	return b.size < len(b.slots)
}

func (b *ringBuffer) Push(e any) {
	if !b.CanPush() {
		log.Panicf("buffer %s overflow", b.name)
	}

	b.slots[(b.head+b.size)%len(b.slots)] = e
	b.size++

	b.hook(HookPosBufPush, e)
}

func (b *ringBuffer) Pop() any {
	if b.size == 0 {
		return nil
	}

	e := b.slots[b.head]
	b.slots[b.head] = nil
	b.head = (b.head + 1) % len(b.slots)
	b.size--

	b.hook(HookPosBufPop, e)

	return e
}

func (b *ringBuffer) Peek() any {
	if b.size == 0 {
		return nil
	}

	return b.slots[b.head]
}

func (b *ringBuffer) Capacity() int {
	return len(b.slots)
}

func (b *ringBuffer) Size() int {
	return b.size
}

func (b *ringBuffer) Clear() {
	clear(b.slots)
	b.head = 0
	b.size = 0
}

func (b *ringBuffer) hook(pos *HookPos, e any) {
	if b.NumHooks() == 0 {
		return
	}

	b.InvokeHook(HookCtx{Domain: b, Pos: pos, Item: e})
}
