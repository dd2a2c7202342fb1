package memctrl

import (
	"errors"

	"github.com/sarchlab/memsim/sim"
)

// Builder can build memory controllers.
type Builder struct {
	device          Device
	queueCapacity   int
	starvationBound int
	maxBurst        int
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		queueCapacity:   64,
		starvationBound: 200,
		maxBurst:        8,
	}
}

// WithDevice sets the DRAM device that the controller drives.
func (b Builder) WithDevice(d Device) Builder {
	b.device = d
	return b
}

// WithQueueCapacity sets the maximum number of requests waiting to be
// dispatched.
func (b Builder) WithQueueCapacity(n int) Builder {
	b.queueCapacity = n
	return b
}

// WithStarvationBound sets the number of cycles after which a waiting request
// is scheduled before all the others.
func (b Builder) WithStarvationBound(cycles int) Builder {
	b.starvationBound = cycles
	return b
}

// WithMaxBurst sets the number of requests of the same kind that are
// dispatched in a row before the other kind is preferred.
func (b Builder) WithMaxBurst(n int) Builder {
	b.maxBurst = n
	return b
}

// Validate checks the parameters.
func (b Builder) Validate(name string) error {
	var errs []error

	if b.queueCapacity <= 0 {
		errs = append(errs, sim.NewConfigError(name, "queue_capacity",
			"%d must be positive", b.queueCapacity))
	}

	if b.starvationBound <= 0 {
		errs = append(errs, sim.NewConfigError(name, "starvation_bound",
			"%d must be positive", b.starvationBound))
	}

	if b.maxBurst <= 0 {
		errs = append(errs, sim.NewConfigError(name, "max_burst",
			"%d must be positive", b.maxBurst))
	}

	return errors.Join(errs...)
}

// Build creates a memory controller. It panics if the configuration is
// invalid.
func (b Builder) Build(name string) *Comp {
	if err := b.Validate(name); err != nil {
		panic(err)
	}

	if b.device == nil {
		panic("memory controller " + name + " has no device")
	}

	c := &Comp{
		ComponentBase:   sim.NewComponentBase(name),
		device:          b.device,
		queueCapacity:   b.queueCapacity,
		starvationBound: uint64(b.starvationBound),
		maxBurst:        b.maxBurst,
		burstKind:       burstStartKind,
	}

	c.AddMiddleware(&respondMW{Comp: c})
	c.AddMiddleware(&scheduleMW{Comp: c})

	return c
}
