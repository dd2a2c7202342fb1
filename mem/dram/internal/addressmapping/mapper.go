// Package addressmapping converts physical addresses to DRAM locations.
package addressmapping

import (
	"log"

	"github.com/sarchlab/memsim/mem/dram/signal"
)

// Scheme is the order in which the address bits are assigned to the DRAM
// coordinates, from the most significant to the least significant.
type Scheme int

// A list of supported schemes.
const (
	// RoBaCo keeps a whole row of consecutive units in one bank.
	RoBaCo Scheme = iota

	// RoCoBa interleaves consecutive units across the banks.
	RoCoBa
)

func (s Scheme) String() string {
	switch s {
	case RoBaCo:
		return "RoBaCo"
	case RoCoBa:
		return "RoCoBa"
	default:
		return "unknown"
	}
}

// ParseScheme converts the name of a scheme to the scheme.
func ParseScheme(name string) (Scheme, bool) {
	switch name {
	case "RoBaCo", "robaco":
		return RoBaCo, true
	case "RoCoBa", "rocoba":
		return RoCoBa, true
	default:
		return RoBaCo, false
	}
}

// Mapper maps an address to the location in a DRAM device.
type Mapper interface {
	Map(addr uint64) signal.Location
}

// Builder can build mappers.
type Builder struct {
	scheme     Scheme
	unitSize   uint64
	numBanks   uint64
	numColumns uint64
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		scheme:     RoBaCo,
		unitSize:   4,
		numBanks:   4,
		numColumns: 4,
	}
}

// WithScheme sets the mapping scheme.
func (b Builder) WithScheme(s Scheme) Builder {
	b.scheme = s
	return b
}

// WithUnitSize sets the number of bytes that one column holds.
func (b Builder) WithUnitSize(n uint64) Builder {
	b.unitSize = n
	return b
}

// WithNumBanks sets the number of banks.
func (b Builder) WithNumBanks(n uint64) Builder {
	b.numBanks = n
	return b
}

// WithNumColumns sets the number of columns in a row.
func (b Builder) WithNumColumns(n uint64) Builder {
	b.numColumns = n
	return b
}

// Build creates the mapper.
func (b Builder) Build() Mapper {
	if b.unitSize == 0 || b.numBanks == 0 || b.numColumns == 0 {
		log.Panicf("address mapping needs non-zero unit, bank and column sizes")
	}

	return &mapperImpl{
		scheme:     b.scheme,
		unitSize:   b.unitSize,
		numBanks:   b.numBanks,
		numColumns: b.numColumns,
	}
}

type mapperImpl struct {
	scheme     Scheme
	unitSize   uint64
	numBanks   uint64
	numColumns uint64
}

func (m *mapperImpl) Map(addr uint64) signal.Location {
	unit := addr / m.unitSize
	loc := signal.Location{}

	switch m.scheme {
	case RoBaCo:
		loc.Column = unit % m.numColumns
		unit /= m.numColumns
		loc.Bank = unit % m.numBanks
		loc.Row = unit / m.numBanks
	case RoCoBa:
		loc.Bank = unit % m.numBanks
		unit /= m.numBanks
		loc.Column = unit % m.numColumns
		loc.Row = unit / m.numColumns
	default:
		log.Panicf("unknown address mapping scheme %d", m.scheme)
	}

	return loc
}
