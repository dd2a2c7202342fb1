package interconnect

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/sim"
)

var _ = Describe("Interconnect", func() {
	var (
		mockCtrl   *gomock.Controller
		downstream *MockDownstream
		ctx        *sim.Context
	)

	makeReq := func(addr uint64) *mem.Request {
		return mem.RequestBuilder{}.
			WithAddress(addr).
			WithKind(mem.Read).
			Build()
	}

	queued := func(ic *Comp) []uint64 {
		var addrs []uint64

		for ic.Buffer().Size() > 0 {
			t := ic.Buffer().Pop().(*transit)
			addrs = append(addrs, t.req.Address)
		}

		return addrs
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		downstream = NewMockDownstream(mockCtrl)
		ctx = sim.NewContext(1)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should forward only bandwidth requests per cycle", func() {
		ic := MakeBuilder().
			WithBandwidth(1).
			WithMinLatency(0).
			WithJitterMax(0).
			WithDownstream(downstream).
			Build("IC")

		reqs := []*mem.Request{makeReq(0), makeReq(4), makeReq(8)}
		for _, r := range reqs {
			ic.Accept(ctx, r)
		}

		downstream.EXPECT().CanAccept().Return(true)
		downstream.EXPECT().Accept(ctx, reqs[0])

		Expect(ic.Tick(ctx)).To(BeTrue())
		Expect(ic.Forwarded()).To(Equal(uint64(1)))
		Expect(queued(ic)).To(Equal([]uint64{4, 8}))
	})

	It("should forward the rest in arrival order in later cycles", func() {
		ic := MakeBuilder().
			WithBandwidth(1).
			WithMinLatency(0).
			WithJitterMax(0).
			WithDownstream(downstream).
			Build("IC")

		reqs := []*mem.Request{makeReq(0), makeReq(4), makeReq(8)}
		for _, r := range reqs {
			ic.Accept(ctx, r)
		}

		downstream.EXPECT().CanAccept().Return(true).Times(3)
		gomock.InOrder(
			downstream.EXPECT().Accept(ctx, reqs[0]),
			downstream.EXPECT().Accept(ctx, reqs[1]),
			downstream.EXPECT().Accept(ctx, reqs[2]),
		)

		for range 3 {
			ic.Tick(ctx)
			ctx.Advance()
		}

		Expect(ic.Buffer().Size()).To(Equal(0))
		Expect(ic.Tick(ctx)).To(BeFalse())
	})

	It("should hold requests until the minimum latency passes", func() {
		ic := MakeBuilder().
			WithBandwidth(4).
			WithMinLatency(5).
			WithJitterMax(0).
			WithDownstream(downstream).
			Build("IC")

		req := makeReq(0)
		ic.Accept(ctx, req)

		for range 5 {
			Expect(ic.Tick(ctx)).To(BeFalse())
			ctx.Advance()
		}

		downstream.EXPECT().CanAccept().Return(true)
		downstream.EXPECT().Accept(ctx, req)

		Expect(ctx.Now()).To(Equal(uint64(5)))
		Expect(ic.Tick(ctx)).To(BeTrue())
	})

	It("should keep the jitter within bounds", func() {
		ic := MakeBuilder().
			WithMinLatency(5).
			WithJitterMax(2).
			WithCapacity(200).
			WithDownstream(downstream).
			Build("IC")

		for i := range 100 {
			ic.Accept(ctx, makeReq(uint64(i*4)))
		}

		for ic.Buffer().Size() > 0 {
			t := ic.Buffer().Pop().(*transit)
			Expect(t.ready).To(BeNumerically(">=", 5))
			Expect(t.ready).To(BeNumerically("<=", 7))
		}
	})

	It("should not let a later ready request pass a waiting head", func() {
		ic := MakeBuilder().
			WithBandwidth(4).
			WithMinLatency(0).
			WithJitterMax(0).
			WithDownstream(downstream).
			Build("IC")

		ic.Accept(ctx, makeReq(0))
		ic.Buffer().Peek().(*transit).ready = 3
		ic.Accept(ctx, makeReq(4))

		Expect(ic.Tick(ctx)).To(BeFalse())
		Expect(ic.Buffer().Size()).To(Equal(2))
	})

	It("should stop when the downstream is full", func() {
		ic := MakeBuilder().
			WithBandwidth(4).
			WithMinLatency(0).
			WithJitterMax(0).
			WithDownstream(downstream).
			Build("IC")

		reqs := []*mem.Request{makeReq(0), makeReq(4), makeReq(8)}
		for _, r := range reqs {
			ic.Accept(ctx, r)
		}

		gomock.InOrder(
			downstream.EXPECT().CanAccept().Return(true),
			downstream.EXPECT().CanAccept().Return(false),
		)
		downstream.EXPECT().Accept(ctx, reqs[0])

		Expect(ic.Tick(ctx)).To(BeTrue())
		Expect(queued(ic)).To(Equal([]uint64{4, 8}))
	})

	It("should invoke hooks when forwarding", func() {
		ic := MakeBuilder().
			WithMinLatency(0).
			WithJitterMax(0).
			WithDownstream(downstream).
			Build("IC")

		var positions []*sim.HookPos
		ic.AcceptHook(sim.HookFunc(func(hctx sim.HookCtx) {
			positions = append(positions, hctx.Pos)
		}))

		req := makeReq(0)
		ic.Accept(ctx, req)

		downstream.EXPECT().CanAccept().Return(true)
		downstream.EXPECT().Accept(ctx, req)
		ic.Tick(ctx)

		Expect(positions).To(Equal(
			[]*sim.HookPos{mem.HookPosReqIssue, HookPosForward}))
	})

	It("should panic when the queue overflows", func() {
		ic := MakeBuilder().
			WithCapacity(1).
			WithDownstream(downstream).
			Build("IC")

		ic.Accept(ctx, makeReq(0))

		Expect(func() { ic.Accept(ctx, makeReq(4)) }).To(Panic())
	})

	It("should refuse new requests when only reserved slots are free", func() {
		ic := MakeBuilder().
			WithCapacity(4).
			WithReserve(2).
			WithDownstream(downstream).
			Build("IC")

		Expect(ic.CanAccept()).To(BeTrue())
		ic.Accept(ctx, makeReq(0))
		Expect(ic.CanAccept()).To(BeTrue())
		ic.Accept(ctx, makeReq(4))
		Expect(ic.CanAccept()).To(BeFalse())

		ic.Accept(ctx, makeReq(8))
		ic.Accept(ctx, makeReq(12))
		Expect(ic.Buffer().Size()).To(Equal(4))
	})

	It("should reject a reserve that leaves no room", func() {
		err := MakeBuilder().WithCapacity(4).WithReserve(4).Validate("IC")

		Expect(err).To(MatchError(ContainSubstring("reserve")))
	})

	It("should report invalid parameters", func() {
		err := MakeBuilder().
			WithBandwidth(0).
			WithMinLatency(-1).
			WithJitterMax(-1).
			Validate("IC")

		var cfgErr *sim.ConfigError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("bandwidth"))
		Expect(err.Error()).To(ContainSubstring("min_latency"))
		Expect(err.Error()).To(ContainSubstring("jitter_max"))
	})
})
