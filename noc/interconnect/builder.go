package interconnect

import (
	"errors"

	"github.com/sarchlab/memsim/sim"
)

// Builder can build interconnects.
type Builder struct {
	bandwidth  int
	minLatency int
	jitterMax  int
	capacity   int
	reserve    int
	downstream Downstream
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		bandwidth:  4,
		minLatency: 5,
		jitterMax:  2,
		capacity:   1024,
	}
}

// WithBandwidth sets the maximum number of requests forwarded per cycle.
func (b Builder) WithBandwidth(n int) Builder {
	b.bandwidth = n
	return b
}

// WithMinLatency sets the number of cycles that a request stays in the
// interconnect at least.
func (b Builder) WithMinLatency(cycles int) Builder {
	b.minLatency = cycles
	return b
}

// WithJitterMax sets the largest number of random extra cycles added to the
// latency of a request.
func (b Builder) WithJitterMax(cycles int) Builder {
	b.jitterMax = cycles
	return b
}

// WithCapacity sets the number of requests that can wait in the interconnect.
func (b Builder) WithCapacity(n int) Builder {
	b.capacity = n
	return b
}

// WithReserve sets the number of slots that only requests caused by
// completions may use. Such requests cannot be held back, so CanAccept turns
// false while fewer slots are free.
func (b Builder) WithReserve(n int) Builder {
	b.reserve = n
	return b
}

// WithDownstream sets the component that receives the forwarded requests.
func (b Builder) WithDownstream(d Downstream) Builder {
	b.downstream = d
	return b
}

// Validate checks the parameters.
func (b Builder) Validate(name string) error {
	var errs []error

	if b.bandwidth <= 0 {
		errs = append(errs, sim.NewConfigError(name, "bandwidth",
			"%d must be positive", b.bandwidth))
	}

	if b.minLatency < 0 {
		errs = append(errs, sim.NewConfigError(name, "min_latency",
			"%d must not be negative", b.minLatency))
	}

	if b.jitterMax < 0 {
		errs = append(errs, sim.NewConfigError(name, "jitter_max",
			"%d must not be negative", b.jitterMax))
	}

	if b.capacity <= 0 {
		errs = append(errs, sim.NewConfigError(name, "capacity",
			"%d must be positive", b.capacity))
	}

	if b.reserve < 0 || (b.capacity > 0 && b.reserve >= b.capacity) {
		errs = append(errs, sim.NewConfigError(name, "reserve",
			"%d must be in [0, capacity %d)", b.reserve, b.capacity))
	}

	return errors.Join(errs...)
}

// Build creates an interconnect. It panics if the configuration is invalid.
func (b Builder) Build(name string) *Comp {
	if err := b.Validate(name); err != nil {
		panic(err)
	}

	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		buf:           sim.NewBuffer(sim.BuildName(name, "Buf"), b.capacity),
		downstream:    b.downstream,
		bandwidth:     b.bandwidth,
		minLatency:    uint64(b.minLatency),
		jitterMax:     b.jitterMax,
		reserve:       b.reserve,
	}

	c.AddMiddleware(&forwardMW{Comp: c})

	return c
}
