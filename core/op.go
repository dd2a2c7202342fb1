package core

import "fmt"

// OpKind is the kind of the operation that a core performs in a cycle.
type OpKind int

// A list of all the operation kinds.
const (
	NoOp OpKind = iota
	ReadOp
	WriteOp
)

func (k OpKind) String() string {
	switch k {
	case NoOp:
		return "NOOP"
	case ReadOp:
		return "READ"
	case WriteOp:
		return "WRITE"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// ParseOpKind converts "noop", "read", or "write" into an OpKind.
func ParseOpKind(s string) (OpKind, error) {
	switch s {
	case "noop", "NOOP":
		return NoOp, nil
	case "read", "READ":
		return ReadOp, nil
	case "write", "WRITE":
		return WriteOp, nil
	default:
		return NoOp, fmt.Errorf("unknown operation %q", s)
	}
}

// An Op is an operation that a core performs.
type Op struct {
	Kind    OpKind
	Address uint64
}

// Read creates a read operation.
func Read(addr uint64) Op {
	return Op{Kind: ReadOp, Address: addr}
}

// Write creates a write operation.
func Write(addr uint64) Op {
	return Op{Kind: WriteOp, Address: addr}
}

// A Trace tells which operation a core performs at which cycle. Cycles not in
// the trace are no-ops.
type Trace map[uint64]Op

// Weights is the relative likelihood of each operation kind when operations
// are generated randomly.
type Weights struct {
	NoOp  int `yaml:"noop"`
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
}

// Uniform gives every operation kind the same weight.
var Uniform = Weights{NoOp: 1, Read: 1, Write: 1}

func (w Weights) total() int {
	return w.NoOp + w.Read + w.Write
}

// pick maps a number in [0, total) to an operation kind.
func (w Weights) pick(n int) OpKind {
	switch {
	case n < w.NoOp:
		return NoOp
	case n < w.NoOp+w.Read:
		return ReadOp
	default:
		return WriteOp
	}
}
