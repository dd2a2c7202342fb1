package sim

import (
	"math/rand"
)

// Context carries the state shared by all the components of a simulation. The
// cycle counter starts at 0 and only moves forward through Advance. All random
// decisions (request generation, interconnect jitter) draw from the context's
// random source so that a run is reproducible from its seed.
type Context struct {
	cycle uint64
	seed  int64
	rand  *rand.Rand
}

// NewContext creates a context at cycle 0 with a random source seeded with the
// given seed.
func NewContext(seed int64) *Context {
	return &Context{
		seed: seed,
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Now returns the current cycle.
func (c *Context) Now() uint64 {
	return c.cycle
}

// Advance moves the simulation to the next cycle.
func (c *Context) Advance() {
	c.cycle++
}

// Seed returns the seed that the random source was created with.
func (c *Context) Seed() int64 {
	return c.seed
}

// Rand returns the random source of the simulation.
func (c *Context) Rand() *rand.Rand {
	return c.rand
}
