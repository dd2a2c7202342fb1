package org

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim/mem/dram/signal"
)

var _ = Describe("Bank", func() {
	var (
		bank Bank
		row3 signal.Location
		row5 signal.Location
	)

	cmd := func(kind signal.CommandKind, loc signal.Location) signal.Command {
		return signal.Command{Kind: kind, Location: loc}
	}

	BeforeEach(func() {
		bank = NewBank(StateDurations{Activate: 5, Precharge: 5, Refresh: 20})
		row3 = signal.Location{Row: 3}
		row5 = signal.Location{Row: 5}
	})

	It("should start closed", func() {
		Expect(bank.State(0)).To(Equal(BankStateClosed))

		_, open := bank.OpenRow()
		Expect(open).To(BeFalse())
		Expect(bank.NextCommand(row3, signal.CmdKindRead)).
			To(Equal(signal.CmdKindActivate))
	})

	It("should go through activating before being open", func() {
		bank.Issue(cmd(signal.CmdKindActivate, row3), 10)

		Expect(bank.State(10)).To(Equal(BankStateActivating))
		Expect(bank.State(14)).To(Equal(BankStateActivating))
		Expect(bank.State(15)).To(Equal(BankStateOpen))

		row, open := bank.OpenRow()
		Expect(open).To(BeTrue())
		Expect(row).To(Equal(uint64(3)))
	})

	It("should ask for the access itself on a row hit", func() {
		bank.Issue(cmd(signal.CmdKindActivate, row3), 0)

		Expect(bank.NextCommand(row3, signal.CmdKindWrite)).
			To(Equal(signal.CmdKindWrite))
		Expect(bank.CanIssue(cmd(signal.CmdKindWrite, row3), 1)).To(BeTrue())
	})

	It("should ask for a precharge on a row conflict", func() {
		bank.Issue(cmd(signal.CmdKindActivate, row3), 0)

		Expect(bank.NextCommand(row5, signal.CmdKindRead)).
			To(Equal(signal.CmdKindPrecharge))
		Expect(bank.CanIssue(cmd(signal.CmdKindRead, row5), 100)).To(BeFalse())
	})

	It("should close the row on precharge", func() {
		bank.Issue(cmd(signal.CmdKindActivate, row3), 0)
		bank.Issue(cmd(signal.CmdKindPrecharge, row3), 20)

		Expect(bank.State(21)).To(Equal(BankStatePrecharging))
		Expect(bank.State(25)).To(Equal(BankStateClosed))
		Expect(bank.CanIssue(cmd(signal.CmdKindRead, row3), 30)).To(BeFalse())
	})

	It("should only refresh a closed bank", func() {
		bank.Issue(cmd(signal.CmdKindActivate, row3), 0)
		Expect(bank.CanIssue(cmd(signal.CmdKindRefresh, row3), 50)).
			To(BeFalse())

		bank.Issue(cmd(signal.CmdKindPrecharge, row3), 50)
		bank.Issue(cmd(signal.CmdKindRefresh, row3), 60)

		Expect(bank.State(70)).To(Equal(BankStateRefreshing))
		Expect(bank.State(80)).To(Equal(BankStateClosed))
	})

	It("should not issue before the ready cycle", func() {
		bank.UpdateTiming(signal.CmdKindActivate, 8)
		bank.UpdateTiming(signal.CmdKindActivate, 4)

		Expect(bank.ReadyCycle(signal.CmdKindActivate)).To(Equal(uint64(8)))
		Expect(bank.CanIssue(cmd(signal.CmdKindActivate, row3), 7)).
			To(BeFalse())
		Expect(bank.CanIssue(cmd(signal.CmdKindActivate, row3), 8)).
			To(BeTrue())
	})

	It("should panic when issuing a command that is not allowed", func() {
		Expect(func() {
			bank.Issue(cmd(signal.CmdKindRead, row3), 0)
		}).To(Panic())
	})
})
