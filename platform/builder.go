package platform

import (
	"errors"
	"fmt"

	"github.com/sarchlab/memsim/config"
	"github.com/sarchlab/memsim/core"
	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/mem/cache"
	"github.com/sarchlab/memsim/mem/dram"
	"github.com/sarchlab/memsim/mem/memctrl"
	"github.com/sarchlab/memsim/mem/trace"
	"github.com/sarchlab/memsim/noc/interconnect"
	"github.com/sarchlab/memsim/sim"
)

// Builder can build simulations from a configuration.
type Builder struct {
	cfg      config.Config
	recorder datarecording.DataRecorder
}

// MakeBuilder creates a builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		cfg: config.Default(),
	}
}

// WithConfig sets the configuration of the system.
func (b Builder) WithConfig(cfg config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithDataRecorder makes the simulation record the completion events of the
// cores and the memory controller.
func (b Builder) WithDataRecorder(r datarecording.DataRecorder) Builder {
	b.recorder = r
	return b
}

// A completed read can make both cache levels write back a dirty victim, and
// the core that last passed the check may add one request more.
const fillReservePerCore = 4

type builders struct {
	cores []core.Builder
	l1    cache.Builder
	l2    cache.Builder
	ic    interconnect.Builder
	mc    memctrl.Builder
	dram  dram.Builder
}

// Build checks the whole configuration and creates the simulation. A
// configuration error is returned before any component is created.
func (b Builder) Build(name string) (*Simulation, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	bs, err := b.makeBuilders()
	if err != nil {
		return nil, err
	}

	if err := bs.validate(name); err != nil {
		return nil, err
	}

	p := bs.build(name)

	s := newSimulation(b.cfg.Simulation.Seed, p)

	if b.recorder != nil {
		tracer := trace.NewDBTracer(b.recorder, trace.All)
		for _, c := range p.Cores {
			c.AcceptHook(tracer)
		}

		p.MemCtrl.AcceptHook(tracer)
	}

	return s, nil
}

func (b Builder) makeBuilders() (builders, error) {
	cfg := b.cfg
	bs := builders{}

	var errs []error

	l1, err := cacheBuilder(cfg.L1)
	errs = append(errs, err)
	bs.l1 = l1

	l2, err := cacheBuilder(cfg.L2)
	errs = append(errs, err)
	bs.l2 = l2

	if err := errors.Join(errs...); err != nil {
		return bs, err
	}

	for i := range cfg.Cores.NumCores {
		bs.cores = append(bs.cores, core.MakeBuilder().
			WithCoreID(i).
			WithWeights(cfg.Cores.OpDistribution).
			WithAddressWindow(
				uint64(i)*cfg.Cores.AddressWindow, cfg.Cores.AddressWindow).
			WithReadBudget(cfg.Cores.ReadBudget).
			WithWriteBudget(cfg.Cores.WriteBudget))
	}

	bs.ic = interconnect.MakeBuilder().
		WithBandwidth(cfg.Interconnect.Bandwidth).
		WithMinLatency(cfg.Interconnect.MinLatency).
		WithJitterMax(cfg.Interconnect.JitterMax).
		WithCapacity(cfg.Interconnect.Capacity).
		WithReserve(fillReservePerCore * cfg.Cores.NumCores)

	bs.mc = memctrl.MakeBuilder().
		WithQueueCapacity(cfg.MemCtrl.QueueCapacity).
		WithStarvationBound(cfg.MemCtrl.StarvationBound).
		WithMaxBurst(cfg.MemCtrl.MaxBurst)

	d := cfg.DRAM
	bs.dram = dram.MakeBuilder().
		WithTRCD(d.TRCD).
		WithTRP(d.TRP).
		WithTRFC(d.TRFC).
		WithTCCD(d.TCCD).
		WithTWTR(d.TWTR).
		WithTRRD(d.TRRD).
		WithTRAS(d.TRAS).
		WithTRC(d.TRC).
		WithTRTP(d.TRTP).
		WithTWR(d.TWR).
		WithTREFI(d.TREFI).
		WithTCL(d.CL).
		WithTCWL(d.CWL).
		WithBurstLength(d.BL).
		WithNumBanks(d.BankCount).
		WithNumColumns(d.Columns).
		WithUnitSize(d.UnitSize).
		WithMappingScheme(d.Mapping)

	return bs, nil
}

func cacheBuilder(c config.CacheConfig) (cache.Builder, error) {
	policy, err := cache.ParseWritePolicy(c.WritePolicy)
	if err != nil {
		return cache.Builder{}, err
	}

	return cache.MakeBuilder().
		WithTotalSize(c.TotalSize).
		WithLineSize(c.LineSize).
		WithWayAssociativity(c.Associativity).
		WithWritePolicy(policy).
		WithWriteAllocate(c.WriteAllocate).
		WithReplacementPolicy(c.Replacement), nil
}

func (bs builders) validate(name string) error {
	errs := []error{
		bs.l1.Validate(sim.BuildName(name, "L1")),
		bs.l2.Validate(sim.BuildName(name, "L2")),
		bs.ic.Validate(sim.BuildName(name, "Interconnect")),
		bs.mc.Validate(sim.BuildName(name, "MemCtrl")),
		bs.dram.Validate(sim.BuildName(name, "DRAM")),
	}

	for i, c := range bs.cores {
		errs = append(errs, c.Validate(sim.BuildNameWithIndex(name, "Core", i)))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

func (bs builders) build(name string) *Platform {
	p := &Platform{}

	p.DRAM = bs.dram.Build(sim.BuildName(name, "DRAM"))
	p.MemCtrl = bs.mc.
		WithDevice(p.DRAM).
		Build(sim.BuildName(name, "MemCtrl"))
	p.Interconnect = bs.ic.
		WithDownstream(p.MemCtrl).
		Build(sim.BuildName(name, "Interconnect"))
	p.L2 = bs.l2.
		WithLowModule(p.Interconnect).
		Build(sim.BuildName(name, "L2"))

	for i, cb := range bs.cores {
		l1 := bs.l1.
			WithLowModule(p.L2).
			Build(sim.BuildNameWithIndex(name, "L1", i))
		c := cb.
			WithLowModule(l1).
			Build(sim.BuildNameWithIndex(name, "Core", i))

		p.L1s = append(p.L1s, l1)
		p.Cores = append(p.Cores, c)
	}

	return p
}
