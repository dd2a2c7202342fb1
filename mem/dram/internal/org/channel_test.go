package org

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/memsim/mem/dram/signal"
)

var _ = Describe("Channel", func() {
	var (
		mockCtrl *gomock.Controller
		banks    []*MockBank
		channel  *Channel
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		banks = []*MockBank{NewMockBank(mockCtrl), NewMockBank(mockCtrl)}

		channel = &Channel{
			Banks:  []Bank{banks[0], banks[1]},
			Timing: MakeTiming(),
		}
		channel.Timing.SameBank[signal.CmdKindActivate] = []TimeTableEntry{
			{signal.CmdKindRead, 5},
			{signal.CmdKindActivate, 30},
		}
		channel.Timing.OtherBanks[signal.CmdKindActivate] = []TimeTableEntry{
			{signal.CmdKindActivate, 4},
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should ask the target bank if a command can be issued", func() {
		cmd := signal.Command{
			Kind:     signal.CmdKindRead,
			Location: signal.Location{Bank: 1, Row: 2},
		}
		banks[1].EXPECT().CanIssue(cmd, uint64(7)).Return(true)

		Expect(channel.CanIssue(cmd, 7)).To(BeTrue())
	})

	It("should update the timing of all the banks", func() {
		cmd := signal.Command{
			Kind:     signal.CmdKindActivate,
			Location: signal.Location{Bank: 0, Row: 2},
		}

		banks[0].EXPECT().Issue(cmd, uint64(10))
		banks[0].EXPECT().UpdateTiming(signal.CmdKindRead, uint64(15))
		banks[0].EXPECT().UpdateTiming(signal.CmdKindActivate, uint64(40))
		banks[1].EXPECT().UpdateTiming(signal.CmdKindActivate, uint64(14))

		channel.Issue(cmd, 10)
	})
})
