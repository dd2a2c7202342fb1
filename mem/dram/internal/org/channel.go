package org

import "github.com/sarchlab/memsim/mem/dram/signal"

// Channel connects the banks through a shared command and data bus.
type Channel struct {
	Banks  []Bank
	Timing Timing
}

// CanIssue checks whether the target bank can accept the command.
func (c *Channel) CanIssue(cmd signal.Command, now uint64) bool {
	return c.Banks[cmd.Location.Bank].CanIssue(cmd, now)
}

// Issue sends the command to its bank and delays the commands that must keep
// a distance from it.
func (c *Channel) Issue(cmd signal.Command, now uint64) {
	c.Banks[cmd.Location.Bank].Issue(cmd, now)
	c.UpdateTiming(cmd, now)
}

// UpdateTiming applies the timing constraints that the command introduces.
func (c *Channel) UpdateTiming(cmd signal.Command, now uint64) {
	for i, bank := range c.Banks {
		table := c.Timing.OtherBanks
		if uint64(i) == cmd.Location.Bank {
			table = c.Timing.SameBank
		}

		for _, entry := range table[cmd.Kind] {
			bank.UpdateTiming(entry.NextCmdKind, now+entry.MinCycleInBetween)
		}
	}
}
