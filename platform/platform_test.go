package platform

import (
	"database/sql"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim/config"
	"github.com/sarchlab/memsim/core"
	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/mem/dram/signal"
	"github.com/sarchlab/memsim/sim"
)

var _ = Describe("Platform", func() {
	runScenario := func(name string) *Simulation {
		sc, found := FindScenario(name)
		Expect(found).To(BeTrue())

		s, err := MakeBuilder().BuildScenario("Sys", sc)
		Expect(err).NotTo(HaveOccurred())

		s.Run(sc.Cycles)

		return s
	}

	It("should wire the components", func() {
		s, err := MakeBuilder().Build("Sys")
		Expect(err).NotTo(HaveOccurred())

		p := s.Platform()
		Expect(p.Cores).To(HaveLen(2))
		Expect(p.L1s).To(HaveLen(2))
		Expect(p.L1s[0].NumSets()).To(Equal(4))
		Expect(p.L2.NumSets()).To(Equal(16))
		Expect(s.GetComponentByName("Sys.Core[1]")).To(BeIdenticalTo(p.Cores[1]))
		Expect(s.GetComponentByName("Sys.MemCtrl")).To(BeIdenticalTo(p.MemCtrl))
		Expect(s.GetComponentByName("Sys.Nothing")).To(BeNil())
		Expect(s.Components()).To(HaveLen(8))
	})

	It("should serve a second read to the same line from the cache", func() {
		s := runScenario("same-line")
		p := s.Platform()

		stats := p.Cores[0].Stats()
		Expect(stats.CompletedReads).To(Equal(uint64(2)))
		Expect(stats.MaxReadLatency).To(BeNumerically(">=", 39))
		Expect(stats.MaxReadLatency).To(BeNumerically("<=", 41))
		Expect(stats.TotalReadLatency).To(Equal(stats.MaxReadLatency))
		Expect(p.L1s[0].Stats().ReadHits).To(Equal(uint64(1)))
		Expect(p.DRAM.Stats().Commands[signal.CmdKindRead]).To(Equal(uint64(1)))
	})

	It("should pay a row conflict for another row of the same bank", func() {
		s := runScenario("same-bank-different-rows")
		p := s.Platform()

		stats := p.Cores[0].Stats()
		Expect(stats.CompletedReads).To(Equal(uint64(2)))
		Expect(stats.MaxReadLatency).To(BeNumerically(">=", 54))
		Expect(stats.MaxReadLatency).To(BeNumerically("<=", 56))
		Expect(p.MemCtrl.Stats().RowConflicts).To(Equal(uint64(1)))
		Expect(p.DRAM.Stats().Commands[signal.CmdKindPrecharge]).
			To(Equal(uint64(1)))
	})

	It("should open another bank without precharging", func() {
		s := runScenario("different-banks")
		p := s.Platform()

		stats := p.Cores[0].Stats()
		Expect(stats.CompletedReads).To(Equal(uint64(2)))
		Expect(stats.MaxReadLatency).To(BeNumerically("<=", 41))
		Expect(p.MemCtrl.Stats().RowMisses).To(Equal(uint64(2)))
		Expect(p.MemCtrl.Stats().RowConflicts).To(BeZero())
		Expect(p.DRAM.Stats().Commands[signal.CmdKindPrecharge]).To(BeZero())
		Expect(p.DRAM.Stats().Commands[signal.CmdKindActivate]).
			To(Equal(uint64(2)))
	})

	It("should run two cores that share the L2", func() {
		s := runScenario("two-cores")
		p := s.Platform()

		for _, c := range p.Cores {
			Expect(c.IsBlocked()).To(BeFalse())
			Expect(c.Pending()).To(BeZero())
			Expect(c.Stats().IssuedReads).To(Equal(uint64(2)))
			Expect(c.Stats().IssuedWrites).To(Equal(uint64(1)))
			Expect(c.Stats().CompletedReads).To(Equal(uint64(2)))
		}

		Expect(p.L2.Stats().MSHRMerges).To(Equal(uint64(1)))
	})

	It("should run random traffic on the default system", func() {
		cfg := config.Default()
		cfg.Simulation.Seed = 11

		s, err := MakeBuilder().WithConfig(cfg).Build("Sys")
		Expect(err).NotTo(HaveOccurred())

		s.Run(3000)

		Expect(s.Cycle()).To(Equal(uint64(3000)))
		for _, c := range s.Platform().Cores {
			Expect(c.Stats().CompletedReads).To(BeNumerically(">", 0))
		}
		Expect(s.Platform().MemCtrl.Stats().RefreshCommands).
			To(BeNumerically(">", 0))
	})

	DescribeTable("should slow the cores down under write-only traffic",
		func(policy string) {
			cfg := config.Default()
			cfg.Cores.OpDistribution = core.Weights{NoOp: 1, Read: 0, Write: 2}
			cfg.L1.WritePolicy = policy
			cfg.L2.WritePolicy = policy

			s, err := MakeBuilder().WithConfig(cfg).Build("Sys")
			Expect(err).NotTo(HaveOccurred())

			Expect(func() {
				for range 5000 {
					s.Step()
				}
			}).NotTo(Panic())

			p := s.Platform()
			buf := p.Interconnect.Buffer()
			Expect(buf.Size()).To(BeNumerically("<=", buf.Capacity()))

			var stalls, writes uint64
			for _, c := range p.Cores {
				stalls += c.Stats().StallCycles
				writes += c.Stats().IssuedWrites
			}
			Expect(stalls).To(BeNumerically(">", 0))
			Expect(writes).To(BeNumerically(">", 0))
		},
		Entry("write-back caches", "write_back"),
		Entry("write-through caches", "write_through"),
	)

	It("should retire a write before a later read of the same address", func() {
		cfg := config.Default()
		for _, c := range []*config.CacheConfig{&cfg.L1, &cfg.L2} {
			c.WritePolicy = "write_through"
			c.WriteAllocate = false
		}

		sc := Scenario{
			Name:   "write-then-read",
			Cycles: 200,
			Traces: []core.Trace{{0: core.Write(8), 1: core.Read(8)}},
		}
		s, err := MakeBuilder().WithConfig(cfg).BuildScenario("Sys", sc)
		Expect(err).NotTo(HaveOccurred())

		var events []mem.CompletionEvent
		s.Platform().MemCtrl.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			if ctx.Pos != mem.HookPosReqComplete {
				return
			}
			events = append(events, ctx.Item.(mem.CompletionEvent))
		}))

		s.Run(sc.Cycles)

		Expect(events).To(HaveLen(2))
		Expect(events[0].Kind).To(Equal(mem.Write))
		Expect(events[0].Address).To(Equal(uint64(8)))
		Expect(events[1].Kind).To(Equal(mem.Read))
		Expect(events[0].CompletionCycle).
			To(BeNumerically("<=", events[1].CompletionCycle))
		Expect(s.Platform().Cores[0].Stats().CompletedReads).
			To(Equal(uint64(1)))
	})

	It("should repeat a run with the same seed", func() {
		latencies := func() []uint64 {
			cfg := config.Default()
			cfg.Simulation.Seed = 5

			s, err := MakeBuilder().WithConfig(cfg).Build("Sys")
			Expect(err).NotTo(HaveOccurred())
			s.Run(500)

			var l []uint64
			for _, c := range s.Platform().Cores {
				l = append(l, c.Stats().TotalReadLatency)
			}

			return l
		}

		Expect(latencies()).To(Equal(latencies()))
	})

	It("should record completions", func() {
		db, err := sql.Open("sqlite3",
			filepath.Join(GinkgoT().TempDir(), "rec.sqlite3"))
		Expect(err).NotTo(HaveOccurred())
		recorder := datarecording.NewWithDB(db)
		DeferCleanup(recorder.Close)

		sc, _ := FindScenario("same-line")
		s, err := MakeBuilder().
			WithDataRecorder(recorder).
			BuildScenario("Sys", sc)
		Expect(err).NotTo(HaveOccurred())

		s.Run(sc.Cycles)
		recorder.Flush()

		var count int
		Expect(db.QueryRow("SELECT COUNT(*) FROM completions").Scan(&count)).
			To(Succeed())
		Expect(count).To(Equal(3))
	})

	It("should report configuration errors before building", func() {
		cfg := config.Default()
		cfg.L1.Associativity = 3
		cfg.DRAM.TRCD = 0

		_, err := MakeBuilder().WithConfig(cfg).Build("Sys")

		Expect(err).To(MatchError(ContainSubstring("associativity")))
		Expect(err).To(MatchError(ContainSubstring("tRCD")))
	})

	It("should wait while paused", func() {
		s, err := MakeBuilder().Build("Sys")
		Expect(err).NotTo(HaveOccurred())

		s.Pause()
		done := make(chan struct{})
		go func() {
			s.Run(10)
			close(done)
		}()

		Consistently(done, 50*time.Millisecond).ShouldNot(BeClosed())
		Expect(s.Cycle()).To(BeZero())
		Expect(s.IsPaused()).To(BeTrue())

		s.Continue()

		Eventually(done).Should(BeClosed())
		Expect(s.Cycle()).To(Equal(uint64(10)))
		Expect(s.Target()).To(Equal(uint64(10)))
	})

	It("should step one cycle at a time", func() {
		s, err := MakeBuilder().Build("Sys")
		Expect(err).NotTo(HaveOccurred())

		s.Step()
		s.Step()

		Expect(s.Cycle()).To(Equal(uint64(2)))
	})
})
