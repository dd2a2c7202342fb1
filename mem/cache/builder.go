package cache

import (
	"errors"
	"fmt"

	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/mem/cache/internal/tagging"
	"github.com/sarchlab/memsim/sim"
)

// WritePolicy determines when a write reaches the next level.
type WritePolicy int

// A list of supported write policies.
const (
	WriteBack WritePolicy = iota
	WriteThrough
)

func (p WritePolicy) String() string {
	switch p {
	case WriteBack:
		return "write_back"
	case WriteThrough:
		return "write_through"
	default:
		return "unknown"
	}
}

// ParseWritePolicy converts a configuration string to a write policy.
func ParseWritePolicy(s string) (WritePolicy, error) {
	switch s {
	case "write_back", "writeBack", "wb":
		return WriteBack, nil
	case "write_through", "writeThrough", "wt":
		return WriteThrough, nil
	default:
		return WriteBack, fmt.Errorf("unknown write policy %q", s)
	}
}

// Builder can build caches.
type Builder struct {
	totalSize     uint64
	lineSize      uint64
	numWays       int
	writePolicy   WritePolicy
	writeAllocate bool
	replacement   string
	lower         mem.LowModule
}

// MakeBuilder creates a builder with the configuration of a small private L1.
func MakeBuilder() Builder {
	return Builder{
		totalSize:     32,
		lineSize:      4,
		numWays:       2,
		writePolicy:   WriteBack,
		writeAllocate: true,
		replacement:   "plru",
	}
}

// WithTotalSize sets the capacity of the cache in bytes.
func (b Builder) WithTotalSize(size uint64) Builder {
	b.totalSize = size
	return b
}

// WithLineSize sets the size of a cache line in bytes.
func (b Builder) WithLineSize(size uint64) Builder {
	b.lineSize = size
	return b
}

// WithWayAssociativity sets the number of ways of each set.
func (b Builder) WithWayAssociativity(ways int) Builder {
	b.numWays = ways
	return b
}

// WithWritePolicy sets the write policy.
func (b Builder) WithWritePolicy(p WritePolicy) Builder {
	b.writePolicy = p
	return b
}

// WithWriteAllocate sets whether a write miss allocates a line.
func (b Builder) WithWriteAllocate(allocate bool) Builder {
	b.writeAllocate = allocate
	return b
}

// WithReplacementPolicy sets the replacement policy, either "plru" or "lru".
func (b Builder) WithReplacementPolicy(policy string) Builder {
	b.replacement = policy
	return b
}

// WithLowModule sets the module that serves the misses.
func (b Builder) WithLowModule(lower mem.LowModule) Builder {
	b.lower = lower
	return b
}

// NumSets returns the number of sets that the configuration derives.
func (b Builder) NumSets() int {
	if b.lineSize == 0 || b.numWays <= 0 {
		return 0
	}

	return int(b.totalSize / (b.lineSize * uint64(b.numWays)))
}

// Validate checks the geometry of the cache.
func (b Builder) Validate(name string) error {
	var errs []error

	if !sim.IsPowerOfTwo(b.totalSize) {
		errs = append(errs, sim.NewConfigError(name, "total_size",
			"%d is not a power of two", b.totalSize))
	}

	if !sim.IsPowerOfTwo(b.lineSize) {
		errs = append(errs, sim.NewConfigError(name, "line_size",
			"%d is not a power of two", b.lineSize))
	}

	if b.numWays <= 0 || !sim.IsPowerOfTwo(uint64(b.numWays)) {
		errs = append(errs, sim.NewConfigError(name, "associativity",
			"%d is not a power of two", b.numWays))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	setSize := b.lineSize * uint64(b.numWays)
	if b.totalSize < setSize || b.totalSize%setSize != 0 {
		errs = append(errs, sim.NewConfigError(name, "total_size",
			"%d bytes cannot be divided into sets of %d ways of %d bytes",
			b.totalSize, b.numWays, b.lineSize))
	}

	if b.replacement != "plru" && b.replacement != "lru" {
		errs = append(errs, sim.NewConfigError(name, "replacement",
			"unknown policy %q", b.replacement))
	}

	return errors.Join(errs...)
}

// Build creates a cache. It panics if the configuration is invalid.
func (b Builder) Build(name string) *Comp {
	if err := b.Validate(name); err != nil {
		panic(err)
	}

	numSets := b.NumSets()
	log2Line, _ := sim.Log2(b.lineSize)
	log2Sets, _ := sim.Log2(uint64(numSets))

	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		lower:         b.lower,
		writePolicy:   b.writePolicy,
		writeAllocate: b.writeAllocate,
		lineSize:      b.lineSize,
		log2Line:      log2Line,
		log2Sets:      log2Sets,
		mshr:          make(map[uint64]*mshrEntry),
	}

	c.tags = tagging.NewTagArray(numSets, b.numWays,
		b.createVictimFinder(numSets))

	return c
}

func (b Builder) createVictimFinder(numSets int) tagging.VictimFinder {
	switch b.replacement {
	case "plru":
		return tagging.NewPLRU(numSets, b.numWays)
	case "lru":
		return tagging.NewLRU(numSets, b.numWays)
	default:
		panic("unknown replacement policy: " + b.replacement)
	}
}
