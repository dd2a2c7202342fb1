package platform

import (
	"github.com/sarchlab/memsim/core"
)

// A Scenario is a scripted experiment. Core i follows Traces[i].
type Scenario struct {
	Name   string
	Cycles uint64
	Traces []core.Trace
}

// Scenarios returns the reference experiments. With the default four-bank
// RoCoBa mapping, address 2000 falls in the bank of address 0 but in another
// row, and address 20 falls in another bank.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:   "same-line",
			Cycles: 100,
			Traces: []core.Trace{
				{0: core.Read(0), 60: core.Read(2)},
			},
		},
		{
			Name:   "same-bank-different-rows",
			Cycles: 200,
			Traces: []core.Trace{
				{0: core.Read(0), 60: core.Read(2000)},
			},
		},
		{
			Name:   "different-banks",
			Cycles: 200,
			Traces: []core.Trace{
				{0: core.Read(0), 60: core.Read(20)},
			},
		},
		{
			Name:   "two-cores",
			Cycles: 200,
			Traces: []core.Trace{
				{0: core.Read(0), 10: core.Write(5), 60: core.Read(17)},
				{3: core.Read(2), 15: core.Write(6), 45: core.Read(23)},
			},
		},
	}
}

// FindScenario returns the scenario with the given name.
func FindScenario(name string) (Scenario, bool) {
	for _, sc := range Scenarios() {
		if sc.Name == name {
			return sc, true
		}
	}

	return Scenario{}, false
}

// BuildScenario builds a simulation with one core per trace of the scenario
// and loads the traces. The scenario length replaces the configured number of
// cycles.
func (b Builder) BuildScenario(name string, sc Scenario) (*Simulation, error) {
	b.cfg.Cores.NumCores = len(sc.Traces)
	b.cfg.Simulation.Cycles = sc.Cycles

	s, err := b.Build(name)
	if err != nil {
		return nil, err
	}

	for i, t := range sc.Traces {
		s.platform.Cores[i].LoadTrace(t)
	}

	return s, nil
}
