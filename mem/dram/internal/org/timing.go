package org

import "github.com/sarchlab/memsim/mem/dram/signal"

// TimeTableEntry is an entry in the TimeTable.
type TimeTableEntry struct {
	NextCmdKind       signal.CommandKind
	MinCycleInBetween uint64
}

// TimeTable is a table that records the minimum number of cycles between any
// two kinds of commands.
type TimeTable [][]TimeTableEntry

// MakeTimeTable creates a new TimeTable.
func MakeTimeTable() TimeTable {
	return make([][]TimeTableEntry, signal.NumCmdKind)
}

// Timing records all the timing-related parameters for a DRAM model.
type Timing struct {
	SameBank   TimeTable
	OtherBanks TimeTable
}

// MakeTiming creates an empty timing.
func MakeTiming() Timing {
	return Timing{
		SameBank:   MakeTimeTable(),
		OtherBanks: MakeTimeTable(),
	}
}
