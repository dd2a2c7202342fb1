package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim/sim"
)

var _ = Describe("Context", func() {
	It("should start at cycle 0 and advance one cycle at a time", func() {
		ctx := sim.NewContext(1)

		Expect(ctx.Now()).To(Equal(uint64(0)))

		ctx.Advance()
		ctx.Advance()

		Expect(ctx.Now()).To(Equal(uint64(2)))
		Expect(ctx.Seed()).To(Equal(int64(1)))
	})

	It("should reproduce random draws from the same seed", func() {
		a := sim.NewContext(42)
		b := sim.NewContext(42)

		for i := 0; i < 10; i++ {
			Expect(a.Rand().Intn(100)).To(Equal(b.Rand().Intn(100)))
		}
	})
})

var _ = Describe("HookableBase", func() {
	It("should call every hook in registration order", func() {
		h := &sim.HookableBase{}
		calls := []string{}

		h.AcceptHook(sim.HookFunc(func(sim.HookCtx) { calls = append(calls, "a") }))
		h.AcceptHook(sim.HookFunc(func(sim.HookCtx) { calls = append(calls, "b") }))
		h.InvokeHook(sim.HookCtx{Pos: &sim.HookPos{Name: "Test"}})

		Expect(h.NumHooks()).To(Equal(2))
		Expect(calls).To(Equal([]string{"a", "b"}))
	})

	It("should refuse the same hook twice", func() {
		h := &sim.HookableBase{}
		hook := &countingHook{}

		h.AcceptHook(hook)

		Expect(func() { h.AcceptHook(hook) }).To(Panic())
	})
})

type countingHook struct {
	count int
}

func (h *countingHook) Func(sim.HookCtx) {
	h.count++
}

var _ = Describe("Log2", func() {
	It("should find exact powers of two", func() {
		v, ok := sim.Log2(64)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(uint64(6)))

		_, ok = sim.Log2(48)
		Expect(ok).To(BeFalse())

		Expect(sim.IsPowerOfTwo(0)).To(BeFalse())
		Expect(sim.IsPowerOfTwo(1)).To(BeTrue())
	})
})

var _ = Describe("ConfigError", func() {
	It("should name the component and the field", func() {
		err := sim.NewConfigError("L1", "sets", "%d is not a power of two", 3)

		Expect(err.Error()).To(Equal("L1: invalid sets: 3 is not a power of two"))
	})
})

var _ = Describe("Sequential ID generator", func() {
	It("should count from 1", func() {
		g := sim.NewSequentialIDGenerator()

		Expect(g.Generate()).To(Equal("1"))
		Expect(g.Generate()).To(Equal("2"))
	})
})

var _ = Describe("MiddlewareHolder", func() {
	It("should tick middlewares in order and report progress", func() {
		holder := sim.MiddlewareHolder{}
		order := []int{}

		holder.AddMiddleware(sim.TickerFunc(func(*sim.Context) bool {
			order = append(order, 1)
			return false
		}))
		holder.AddMiddleware(sim.TickerFunc(func(*sim.Context) bool {
			order = append(order, 2)
			return true
		}))

		Expect(holder.Tick(sim.NewContext(0))).To(BeTrue())
		Expect(order).To(Equal([]int{1, 2}))
		Expect(holder.Middlewares()).To(HaveLen(2))
	})
})
