package core

import (
	"errors"

	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/sim"
)

// Unlimited marks a budget that never runs out.
const Unlimited = -1

// Builder can build cores.
type Builder struct {
	coreID      int
	lowModule   mem.LowModule
	weights     Weights
	baseAddress uint64
	windowSize  uint64
	alignment   uint64
	readBudget  int
	writeBudget int
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		weights:     Uniform,
		windowSize:  1024,
		alignment:   4,
		readBudget:  Unlimited,
		writeBudget: Unlimited,
	}
}

// WithCoreID sets the ID that the core stamps on its requests.
func (b Builder) WithCoreID(id int) Builder {
	b.coreID = id
	return b
}

// WithLowModule sets the first cache level of the core.
func (b Builder) WithLowModule(m mem.LowModule) Builder {
	b.lowModule = m
	return b
}

// WithWeights sets the distribution of randomly generated operations.
func (b Builder) WithWeights(w Weights) Builder {
	b.weights = w
	return b
}

// WithAddressWindow sets the range that random addresses are drawn from.
func (b Builder) WithAddressWindow(base, size uint64) Builder {
	b.baseAddress = base
	b.windowSize = size
	return b
}

// WithAlignment sets the granularity of random addresses.
func (b Builder) WithAlignment(n uint64) Builder {
	b.alignment = n
	return b
}

// WithReadBudget sets how many reads the core generates randomly.
func (b Builder) WithReadBudget(n int) Builder {
	b.readBudget = n
	return b
}

// WithWriteBudget sets how many writes the core generates randomly.
func (b Builder) WithWriteBudget(n int) Builder {
	b.writeBudget = n
	return b
}

// Validate checks the parameters.
func (b Builder) Validate(name string) error {
	var errs []error

	if b.weights.NoOp < 0 || b.weights.Read < 0 || b.weights.Write < 0 {
		errs = append(errs, sim.NewConfigError(name, "op_distribution",
			"weights %+v must not be negative", b.weights))
	} else if b.weights.total() == 0 {
		errs = append(errs, sim.NewConfigError(name, "op_distribution",
			"at least one weight must be positive"))
	}

	if b.alignment == 0 {
		errs = append(errs, sim.NewConfigError(name, "alignment",
			"must be positive"))
	} else if b.windowSize < b.alignment {
		errs = append(errs, sim.NewConfigError(name, "address_window",
			"%d is smaller than the alignment %d", b.windowSize, b.alignment))
	}

	if b.readBudget < Unlimited {
		errs = append(errs, sim.NewConfigError(name, "read_budget",
			"%d must not be negative", b.readBudget))
	}

	if b.writeBudget < Unlimited {
		errs = append(errs, sim.NewConfigError(name, "write_budget",
			"%d must not be negative", b.writeBudget))
	}

	return errors.Join(errs...)
}

// Build creates a core. It panics if the configuration is invalid.
func (b Builder) Build(name string) *Comp {
	if err := b.Validate(name); err != nil {
		panic(err)
	}

	return &Comp{
		ComponentBase: sim.NewComponentBase(name),
		coreID:        b.coreID,
		lowModule:     b.lowModule,
		weights:       b.weights,
		baseAddress:   b.baseAddress,
		slots:         b.windowSize / b.alignment,
		alignment:     b.alignment,
		readsLeft:     b.readBudget,
		writesLeft:    b.writeBudget,
	}
}
