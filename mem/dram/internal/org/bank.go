// Package org models the organization of a DRAM device, including the banks
// and the channel that connects them.
package org

import (
	"log"

	"github.com/sarchlab/memsim/mem/dram/signal"
)

// BankState is the state of a bank.
type BankState int

// A list of all the bank states.
const (
	BankStateClosed BankState = iota
	BankStateActivating
	BankStateOpen
	BankStatePrecharging
	BankStateRefreshing
	NumBankState
)

func (s BankState) String() string {
	switch s {
	case BankStateClosed:
		return "CLOSED"
	case BankStateActivating:
		return "ACTIVATING"
	case BankStateOpen:
		return "OPEN"
	case BankStatePrecharging:
		return "PRECHARGING"
	case BankStateRefreshing:
		return "REFRESHING"
	default:
		return "UNKNOWN"
	}
}

// A Bank is a DRAM Bank. It keeps its open row and the earliest cycle that
// each kind of command can be issued to it.
type Bank interface {
	State(now uint64) BankState
	OpenRow() (row uint64, isOpen bool)
	NextCommand(
		loc signal.Location,
		access signal.CommandKind,
	) signal.CommandKind
	CanIssue(cmd signal.Command, now uint64) bool
	Issue(cmd signal.Command, now uint64)
	UpdateTiming(cmdKind signal.CommandKind, earliest uint64)
	ReadyCycle(cmdKind signal.CommandKind) uint64
}

// StateDurations are the number of cycles that a bank stays in the transient
// states.
type StateDurations struct {
	Activate  uint64
	Precharge uint64
	Refresh   uint64
}

// NewBank creates a closed bank.
func NewBank(durations StateDurations) Bank {
	return &bankImpl{durations: durations}
}

type bankImpl struct {
	durations StateDurations

	isOpen  bool
	openRow uint64

	hasStateCmd    bool
	lastStateCmd   signal.CommandKind
	lastStateCycle uint64

	readyCycle [signal.NumCmdKind]uint64
}

func (b *bankImpl) State(now uint64) BankState {
	if b.hasStateCmd {
		elapsed := now - b.lastStateCycle

		switch b.lastStateCmd {
		case signal.CmdKindActivate:
			if elapsed < b.durations.Activate {
				return BankStateActivating
			}
		case signal.CmdKindPrecharge:
			if elapsed < b.durations.Precharge {
				return BankStatePrecharging
			}
		case signal.CmdKindRefresh:
			if elapsed < b.durations.Refresh {
				return BankStateRefreshing
			}
		}
	}

	if b.isOpen {
		return BankStateOpen
	}

	return BankStateClosed
}

func (b *bankImpl) OpenRow() (uint64, bool) {
	return b.openRow, b.isOpen
}

// NextCommand returns the command that should be issued next to perform the
// access.
func (b *bankImpl) NextCommand(
	loc signal.Location,
	access signal.CommandKind,
) signal.CommandKind {
	if !b.isOpen {
		return signal.CmdKindActivate
	}

	if b.openRow != loc.Row {
		return signal.CmdKindPrecharge
	}

	return access
}

func (b *bankImpl) CanIssue(cmd signal.Command, now uint64) bool {
	if now < b.readyCycle[cmd.Kind] {
		return false
	}

	switch cmd.Kind {
	case signal.CmdKindActivate, signal.CmdKindRefresh:
		return !b.isOpen
	case signal.CmdKindRead, signal.CmdKindWrite:
		return b.isOpen && b.openRow == cmd.Location.Row
	case signal.CmdKindPrecharge:
		return b.isOpen
	default:
		log.Panicf("unknown command kind %d", cmd.Kind)
	}

	return false
}

func (b *bankImpl) Issue(cmd signal.Command, now uint64) {
	if !b.CanIssue(cmd, now) {
		log.Panicf("command %s to row %d cannot be issued at cycle %d",
			cmd.Kind, cmd.Location.Row, now)
	}

	switch cmd.Kind {
	case signal.CmdKindActivate:
		b.isOpen = true
		b.openRow = cmd.Location.Row
	case signal.CmdKindPrecharge:
		b.isOpen = false
	case signal.CmdKindRead, signal.CmdKindWrite:
		return
	}

	b.hasStateCmd = true
	b.lastStateCmd = cmd.Kind
	b.lastStateCycle = now
}

// UpdateTiming delays a kind of command to no earlier than the given cycle.
func (b *bankImpl) UpdateTiming(cmdKind signal.CommandKind, earliest uint64) {
	if b.readyCycle[cmdKind] < earliest {
		b.readyCycle[cmdKind] = earliest
	}
}

func (b *bankImpl) ReadyCycle(cmdKind signal.CommandKind) uint64 {
	return b.readyCycle[cmdKind]
}
