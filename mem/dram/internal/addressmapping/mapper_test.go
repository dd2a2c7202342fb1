package addressmapping

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim/mem/dram/signal"
)

var _ = Describe("Mapper", func() {
	It("should keep consecutive units in one row with RoBaCo", func() {
		m := MakeBuilder().
			WithScheme(RoBaCo).
			WithUnitSize(4).
			WithNumBanks(4).
			WithNumColumns(4).
			Build()

		Expect(m.Map(0)).To(Equal(signal.Location{Bank: 0, Row: 0, Column: 0}))
		Expect(m.Map(12)).To(Equal(signal.Location{Bank: 0, Row: 0, Column: 3}))
		Expect(m.Map(16)).To(Equal(signal.Location{Bank: 1, Row: 0, Column: 0}))
		Expect(m.Map(64)).To(Equal(signal.Location{Bank: 0, Row: 1, Column: 0}))
	})

	It("should interleave consecutive units across banks with RoCoBa", func() {
		m := MakeBuilder().
			WithScheme(RoCoBa).
			WithUnitSize(4).
			WithNumBanks(4).
			WithNumColumns(4).
			Build()

		Expect(m.Map(0).Bank).To(Equal(uint64(0)))
		Expect(m.Map(4).Bank).To(Equal(uint64(1)))
		Expect(m.Map(20).Bank).To(Equal(uint64(1)))
		Expect(m.Map(16)).To(Equal(signal.Location{Bank: 0, Row: 0, Column: 1}))

		far := m.Map(2000)
		Expect(far.Bank).To(Equal(uint64(0)))
		Expect(far.Row).To(Equal(uint64(31)))
	})

	It("should ignore the offset inside a unit", func() {
		m := MakeBuilder().Build()

		Expect(m.Map(5)).To(Equal(m.Map(4)))
	})

	It("should panic on a zero-sized geometry", func() {
		Expect(func() { MakeBuilder().WithNumBanks(0).Build() }).To(Panic())
	})

	It("should parse scheme names", func() {
		s, ok := ParseScheme("RoCoBa")
		Expect(ok).To(BeTrue())
		Expect(s).To(Equal(RoCoBa))

		_, ok = ParseScheme("BaRoCo")
		Expect(ok).To(BeFalse())
	})
})
