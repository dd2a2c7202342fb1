package dram

import (
	"errors"

	"github.com/sarchlab/memsim/mem/dram/internal/addressmapping"
	"github.com/sarchlab/memsim/mem/dram/internal/org"
	"github.com/sarchlab/memsim/mem/dram/signal"
	"github.com/sarchlab/memsim/sim"
)

// Builder can build DRAM devices. All the timing parameters are in cycles.
type Builder struct {
	numBanks   int
	numColumns int
	unitSize   int
	scheme     string

	tRCD  int
	tRP   int
	tRFC  int
	tCCD  int
	tWTR  int
	tRRD  int
	tRAS  int
	tRC   int
	tRTP  int
	tWR   int
	tREFI int
	tCL   int
	tCWL  int
	bl    int
}

// MakeBuilder creates a builder with default configuration.
func MakeBuilder() Builder {
	return Builder{
		numBanks:   4,
		numColumns: 4,
		unitSize:   4,
		scheme:     "RoBaCo",
		tRCD:       15,
		tRP:        15,
		tRFC:       160,
		tCCD:       4,
		tWTR:       8,
		tRRD:       4,
		tRAS:       15,
		tRC:        30,
		tRTP:       8,
		tWR:        15,
		tREFI:      7800,
		tCL:        15,
		tCWL:       12,
		bl:         8,
	}
}

// WithNumBanks sets the number of banks.
func (b Builder) WithNumBanks(n int) Builder {
	b.numBanks = n
	return b
}

// WithNumColumns sets the number of access units in a row.
func (b Builder) WithNumColumns(n int) Builder {
	b.numColumns = n
	return b
}

// WithUnitSize sets the number of bytes that one column access moves.
func (b Builder) WithUnitSize(n int) Builder {
	b.unitSize = n
	return b
}

// WithMappingScheme sets how addresses are spread over banks and rows. The
// scheme is either "RoBaCo" or "RoCoBa".
func (b Builder) WithMappingScheme(s string) Builder {
	b.scheme = s
	return b
}

// WithTRCD sets the activate to read/write delay.
func (b Builder) WithTRCD(cycle int) Builder {
	b.tRCD = cycle
	return b
}

// WithTRP sets the precharge period.
func (b Builder) WithTRP(cycle int) Builder {
	b.tRP = cycle
	return b
}

// WithTRFC sets the refresh cycle time.
func (b Builder) WithTRFC(cycle int) Builder {
	b.tRFC = cycle
	return b
}

// WithTCCD sets the column to column delay.
func (b Builder) WithTCCD(cycle int) Builder {
	b.tCCD = cycle
	return b
}

// WithTWTR sets the write to read turnaround.
func (b Builder) WithTWTR(cycle int) Builder {
	b.tWTR = cycle
	return b
}

// WithTRRD sets the activate to activate delay across banks.
func (b Builder) WithTRRD(cycle int) Builder {
	b.tRRD = cycle
	return b
}

// WithTRAS sets the minimum time a row stays open.
func (b Builder) WithTRAS(cycle int) Builder {
	b.tRAS = cycle
	return b
}

// WithTRC sets the activate to activate delay in the same bank.
func (b Builder) WithTRC(cycle int) Builder {
	b.tRC = cycle
	return b
}

// WithTRTP sets the read to precharge delay.
func (b Builder) WithTRTP(cycle int) Builder {
	b.tRTP = cycle
	return b
}

// WithTWR sets the write recovery time.
func (b Builder) WithTWR(cycle int) Builder {
	b.tWR = cycle
	return b
}

// WithTREFI sets the average refresh interval of each bank.
func (b Builder) WithTREFI(cycle int) Builder {
	b.tREFI = cycle
	return b
}

// WithTCL sets the CAS latency.
func (b Builder) WithTCL(cycle int) Builder {
	b.tCL = cycle
	return b
}

// WithTCWL sets the CAS write latency.
func (b Builder) WithTCWL(cycle int) Builder {
	b.tCWL = cycle
	return b
}

// WithBurstLength sets the number of transfers of a burst.
func (b Builder) WithBurstLength(n int) Builder {
	b.bl = n
	return b
}

// Validate checks the parameters of the device.
func (b Builder) Validate(name string) error {
	var errs []error

	positive := []struct {
		field string
		value int
	}{
		{"tRCD", b.tRCD}, {"tRP", b.tRP}, {"tRFC", b.tRFC},
		{"tCCD", b.tCCD}, {"tWTR", b.tWTR}, {"tRRD", b.tRRD},
		{"tRAS", b.tRAS}, {"tRC", b.tRC}, {"tRTP", b.tRTP},
		{"tWR", b.tWR}, {"tREFI", b.tREFI}, {"CL", b.tCL},
		{"CWL", b.tCWL}, {"BL", b.bl},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, sim.NewConfigError(name, p.field,
				"%d must be positive", p.value))
		}
	}

	if b.bl > 0 && b.bl%2 != 0 {
		errs = append(errs, sim.NewConfigError(name, "BL",
			"%d is not even", b.bl))
	}

	if b.tRC > 0 && b.tRC < b.tRAS {
		errs = append(errs, sim.NewConfigError(name, "tRC",
			"%d is shorter than tRAS %d", b.tRC, b.tRAS))
	}

	if b.tREFI > 0 && b.tREFI <= b.tRFC {
		errs = append(errs, sim.NewConfigError(name, "tREFI",
			"%d leaves no time outside refresh (tRFC %d)", b.tREFI, b.tRFC))
	}

	if _, ok := addressmapping.ParseScheme(b.scheme); !ok {
		errs = append(errs, sim.NewConfigError(name, "mapping",
			"unknown scheme %q", b.scheme))
	}

	errs = append(errs, b.validateGeometry(name)...)

	return errors.Join(errs...)
}

func (b Builder) validateGeometry(name string) []error {
	var errs []error

	geometry := []struct {
		field string
		value int
	}{
		{"bank_count", b.numBanks},
		{"columns", b.numColumns},
		{"unit_size", b.unitSize},
	}
	for _, g := range geometry {
		if g.value <= 0 || !sim.IsPowerOfTwo(uint64(g.value)) {
			errs = append(errs, sim.NewConfigError(name, g.field,
				"%d is not a power of two", g.value))
		}
	}

	return errs
}

// Build creates a DRAM device. It panics if the configuration is invalid.
func (b Builder) Build(name string) *Device {
	if err := b.Validate(name); err != nil {
		panic(err)
	}

	d := &Device{
		ComponentBase: sim.NewComponentBase(name),
		readLatency:   uint64(b.tCL + b.bl/2),
		writeLatency:  uint64(b.tCWL + b.bl/2),
		tRCD:          uint64(b.tRCD),
		tRP:           uint64(b.tRP),
		tRFC:          uint64(b.tRFC),
		tREFI:         uint64(b.tREFI),
	}

	scheme, _ := addressmapping.ParseScheme(b.scheme)
	d.mapper = addressmapping.MakeBuilder().
		WithScheme(scheme).
		WithUnitSize(uint64(b.unitSize)).
		WithNumBanks(uint64(b.numBanks)).
		WithNumColumns(uint64(b.numColumns)).
		Build()

	d.channel = &org.Channel{
		Banks:  make([]org.Bank, b.numBanks),
		Timing: b.generateTiming(),
	}
	durations := org.StateDurations{
		Activate:  uint64(b.tRCD),
		Precharge: uint64(b.tRP),
		Refresh:   uint64(b.tRFC),
	}
	for i := range d.channel.Banks {
		d.channel.Banks[i] = org.NewBank(durations)
	}

	d.initRefresh(b.numBanks)
	d.stats.StateCycles = make([][org.NumBankState]uint64, b.numBanks)

	return d
}

// Banks refresh one after another, spread evenly over a refresh interval.
func (d *Device) initRefresh(numBanks int) {
	d.refreshDue = make([]uint64, numBanks)
	d.refreshLog = make([][]uint64, numBanks)

	stagger := d.tREFI / uint64(numBanks)
	for i := range d.refreshDue {
		d.refreshDue[i] = stagger * uint64(i+1)
	}
}

func (b Builder) generateTiming() org.Timing {
	t := org.MakeTiming()

	burstCycle := b.bl / 2
	readToRead := max(burstCycle, b.tCCD)
	writeToWrite := max(burstCycle, b.tCCD)
	readToWrite := max(b.tCCD, b.tCL+burstCycle+2-b.tCWL)
	writeToRead := b.tCWL + burstCycle + b.tWTR
	writeToPrecharge := b.tCWL + burstCycle + b.tWR

	entry := func(kind signal.CommandKind, cycles int) org.TimeTableEntry {
		return org.TimeTableEntry{
			NextCmdKind:       kind,
			MinCycleInBetween: uint64(max(cycles, 0)),
		}
	}

	t.SameBank[signal.CmdKindActivate] = []org.TimeTableEntry{
		entry(signal.CmdKindRead, b.tRCD),
		entry(signal.CmdKindWrite, b.tRCD),
		entry(signal.CmdKindPrecharge, b.tRAS),
		entry(signal.CmdKindActivate, b.tRC),
		entry(signal.CmdKindRefresh, b.tRC),
	}
	t.OtherBanks[signal.CmdKindActivate] = []org.TimeTableEntry{
		entry(signal.CmdKindActivate, b.tRRD),
	}

	t.SameBank[signal.CmdKindRead] = []org.TimeTableEntry{
		entry(signal.CmdKindRead, readToRead),
		entry(signal.CmdKindWrite, readToWrite),
		entry(signal.CmdKindPrecharge, b.tRTP),
	}
	t.OtherBanks[signal.CmdKindRead] = []org.TimeTableEntry{
		entry(signal.CmdKindRead, readToRead),
		entry(signal.CmdKindWrite, readToWrite),
	}

	t.SameBank[signal.CmdKindWrite] = []org.TimeTableEntry{
		entry(signal.CmdKindRead, writeToRead),
		entry(signal.CmdKindWrite, writeToWrite),
		entry(signal.CmdKindPrecharge, writeToPrecharge),
	}
	t.OtherBanks[signal.CmdKindWrite] = []org.TimeTableEntry{
		entry(signal.CmdKindRead, writeToRead),
		entry(signal.CmdKindWrite, writeToWrite),
	}

	t.SameBank[signal.CmdKindPrecharge] = []org.TimeTableEntry{
		entry(signal.CmdKindActivate, b.tRP),
		entry(signal.CmdKindRefresh, b.tRP),
	}

	t.SameBank[signal.CmdKindRefresh] = []org.TimeTableEntry{
		entry(signal.CmdKindActivate, b.tRFC),
		entry(signal.CmdKindRefresh, b.tRFC),
	}

	return t
}
