package platform

import (
	"sync"

	"github.com/sarchlab/memsim/sim"
)

// A Simulation advances all the components of a platform in lockstep. In
// each cycle the cores tick first, then the interconnect, the memory
// controller and the DRAM device. Caches act inside the ticks of the
// components that call them.
type Simulation struct {
	ctx      *sim.Context
	platform *Platform
	tickers  []sim.Ticker

	components    []sim.Component
	compNameIndex map[string]int

	mu     sync.Mutex
	cond   *sync.Cond
	paused bool
	target uint64
}

func newSimulation(seed int64, p *Platform) *Simulation {
	s := &Simulation{
		ctx:           sim.NewContext(seed),
		platform:      p,
		compNameIndex: make(map[string]int),
	}
	s.cond = sync.NewCond(&s.mu)

	for _, c := range p.Cores {
		s.tickers = append(s.tickers, c)
	}

	s.tickers = append(s.tickers, p.Interconnect, p.MemCtrl, p.DRAM)

	for i := range p.Cores {
		s.RegisterComponent(p.Cores[i])
		s.RegisterComponent(p.L1s[i])
	}

	s.RegisterComponent(p.L2)
	s.RegisterComponent(p.Interconnect)
	s.RegisterComponent(p.MemCtrl)
	s.RegisterComponent(p.DRAM)

	return s
}

// Platform returns the components being simulated.
func (s *Simulation) Platform() *Platform {
	return s.platform
}

// Context returns the simulation context.
func (s *Simulation) Context() *sim.Context {
	return s.ctx
}

// RegisterComponent registers a component with the simulation.
func (s *Simulation) RegisterComponent(c sim.Component) {
	name := c.Name()
	if _, found := s.compNameIndex[name]; found {
		panic("component " + name + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[name] = len(s.components) - 1
}

// GetComponentByName returns the component with the given name, or nil.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	i, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[i]
}

// Components returns all the registered components.
func (s *Simulation) Components() []sim.Component {
	return s.components
}

// Buffers returns the queues that requests wait in between components.
func (s *Simulation) Buffers() []sim.Buffer {
	return []sim.Buffer{s.platform.Interconnect.Buffer()}
}

// Cycle returns the number of cycles simulated.
func (s *Simulation) Cycle() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ctx.Now()
}

// Target returns the cycle that the current run stops at.
func (s *Simulation) Target() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.target
}

// Step simulates one cycle.
func (s *Simulation) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.step()
}

func (s *Simulation) step() {
	for _, t := range s.tickers {
		t.Tick(s.ctx)
	}

	s.ctx.Advance()
}

// Run simulates the given number of cycles. The lock is released between
// cycles so that the simulation can be paused or inspected. While the
// simulation is paused, Run waits for Continue.
func (s *Simulation) Run(cycles uint64) {
	s.mu.Lock()
	s.target = s.ctx.Now() + cycles
	s.mu.Unlock()

	for s.runOne() {
	}
}

func (s *Simulation) runOne() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.paused {
		s.cond.Wait()
	}

	if s.ctx.Now() >= s.target {
		return false
	}

	s.step()

	return true
}

// Pause stops Run before the next cycle.
func (s *Simulation) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = true
}

// Continue resumes a paused Run.
func (s *Simulation) Continue() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = false
	s.cond.Broadcast()
}

// IsPaused returns true if the simulation is paused.
func (s *Simulation) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.paused
}

// Inspect calls f between two cycles, so that f sees a consistent state.
func (s *Simulation) Inspect(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f()
}
