// Package dram provides a command-level model of a DRAM device.
package dram

import (
	"log"

	"github.com/sarchlab/memsim/mem/dram/internal/addressmapping"
	"github.com/sarchlab/memsim/mem/dram/internal/org"
	"github.com/sarchlab/memsim/mem/dram/signal"
	"github.com/sarchlab/memsim/sim"
)

// HookPosCmdIssue marks when a command is issued to a bank.
var HookPosCmdIssue = &sim.HookPos{Name: "DRAM Command Issue"}

// refreshLogLength is the number of refreshes remembered per bank.
const refreshLogLength = 16

// Stats counts the commands executed by the device and how long each bank
// stays in each state.
type Stats struct {
	Commands    [signal.NumCmdKind]uint64
	StateCycles [][org.NumBankState]uint64
}

// Device is a DRAM device with a number of banks that share one channel.
type Device struct {
	*sim.ComponentBase

	channel *org.Channel
	mapper  addressmapping.Mapper

	readLatency  uint64
	writeLatency uint64
	tRCD         uint64
	tRP          uint64
	tRFC         uint64
	tREFI        uint64

	refreshDue []uint64
	refreshLog [][]uint64

	stats Stats
}

// NumBanks returns the number of banks.
func (d *Device) NumBanks() int {
	return len(d.channel.Banks)
}

// Map converts an address to a location in the device.
func (d *Device) Map(addr uint64) signal.Location {
	return d.mapper.Map(addr)
}

// NextCommand returns the command that must be issued next to perform a read
// or a write at the location. A row hit returns the access command itself.
func (d *Device) NextCommand(
	loc signal.Location,
	access signal.CommandKind,
) signal.Command {
	if !access.IsAccess() {
		log.Panicf("%s is not an access command", access)
	}

	bank := d.channel.Banks[loc.Bank]

	return signal.Command{
		Kind:     bank.NextCommand(loc, access),
		Location: loc,
	}
}

// CanIssue checks whether the command satisfies the state and the timing
// constraints of the device at the given cycle.
func (d *Device) CanIssue(cmd signal.Command, now uint64) bool {
	return d.channel.CanIssue(cmd, now)
}

// Issue executes a command and returns the cycle that it completes at. For
// reads and writes, this is when the data burst finishes.
func (d *Device) Issue(cmd signal.Command, now uint64) uint64 {
	d.channel.Issue(cmd, now)
	d.stats.Commands[cmd.Kind]++

	if cmd.Kind == signal.CmdKindRefresh {
		d.recordRefresh(cmd.Location.Bank, now)
	}

	if d.NumHooks() > 0 {
		d.InvokeHook(sim.HookCtx{
			Domain: d,
			Now:    now,
			Pos:    HookPosCmdIssue,
			Item:   cmd,
		})
	}

	switch cmd.Kind {
	case signal.CmdKindRead:
		return now + d.readLatency
	case signal.CmdKindWrite:
		return now + d.writeLatency
	case signal.CmdKindActivate:
		return now + d.tRCD
	case signal.CmdKindPrecharge:
		return now + d.tRP
	case signal.CmdKindRefresh:
		return now + d.tRFC
	default:
		log.Panicf("unknown command kind %d", cmd.Kind)
	}

	return now
}

func (d *Device) recordRefresh(bank uint64, now uint64) {
	d.refreshDue[bank] += d.tREFI

	history := append(d.refreshLog[bank], now)
	if len(history) > refreshLogLength {
		history = history[len(history)-refreshLogLength:]
	}
	d.refreshLog[bank] = history
}

// RefreshDue returns true if the bank has reached its refresh deadline.
func (d *Device) RefreshDue(bank uint64, now uint64) bool {
	return now >= d.refreshDue[bank]
}

// NextRefresh returns the refresh deadline of the bank.
func (d *Device) NextRefresh(bank uint64) uint64 {
	return d.refreshDue[bank]
}

// RefreshCommand returns the command that brings the bank closer to being
// refreshed. An open bank needs to be precharged first.
func (d *Device) RefreshCommand(bank uint64) signal.Command {
	loc := signal.Location{Bank: bank}

	row, open := d.channel.Banks[bank].OpenRow()
	if open {
		loc.Row = row
		return signal.Command{Kind: signal.CmdKindPrecharge, Location: loc}
	}

	return signal.Command{Kind: signal.CmdKindRefresh, Location: loc}
}

// RefreshHistory returns the cycles of the most recent refreshes of a bank.
func (d *Device) RefreshHistory(bank uint64) []uint64 {
	return d.refreshLog[bank]
}

// BankState returns the state of a bank at the given cycle.
func (d *Device) BankState(bank uint64, now uint64) org.BankState {
	return d.channel.Banks[bank].State(now)
}

// OpenRow returns the row that is open in a bank.
func (d *Device) OpenRow(bank uint64) (uint64, bool) {
	return d.channel.Banks[bank].OpenRow()
}

// ReadLatency returns the cycles from a read command to the end of its data.
func (d *Device) ReadLatency() uint64 {
	return d.readLatency
}

// WriteLatency returns the cycles from a write command to the end of its
// data.
func (d *Device) WriteLatency() uint64 {
	return d.writeLatency
}

// Stats returns the command and state counters.
func (d *Device) Stats() Stats {
	return d.stats
}

// Tick samples the state of every bank. It returns true if any bank is in a
// transient state.
func (d *Device) Tick(ctx *sim.Context) bool {
	busy := false

	for i, bank := range d.channel.Banks {
		state := bank.State(ctx.Now())
		d.stats.StateCycles[i][state]++

		if state != org.BankStateOpen && state != org.BankStateClosed {
			busy = true
		}
	}

	return busy
}
