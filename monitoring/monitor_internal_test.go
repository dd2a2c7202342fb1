package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/sarchlab/memsim/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type sampleComponent struct {
	*sim.ComponentBase

	Counter int
	buffer  sim.Buffer
}

func newSampleComponent(name string, capacity int) *sampleComponent {
	return &sampleComponent{
		ComponentBase: sim.NewComponentBase(name),
		buffer:        sim.NewBuffer(sim.BuildName(name, "Buf"), capacity),
	}
}

type fakeSimulation struct {
	cycle      uint64
	target     uint64
	paused     bool
	inspected  int
	components []sim.Component
}

func (s *fakeSimulation) Cycle() uint64               { return s.cycle }
func (s *fakeSimulation) Target() uint64              { return s.target }
func (s *fakeSimulation) Pause()                      { s.paused = true }
func (s *fakeSimulation) Continue()                   { s.paused = false }
func (s *fakeSimulation) IsPaused() bool              { return s.paused }
func (s *fakeSimulation) Components() []sim.Component { return s.components }

func (s *fakeSimulation) Inspect(f func()) {
	s.inspected++
	f()
}

var _ = Describe("Monitor", func() {
	var (
		small, large *sampleComponent
		simulation   *fakeSimulation
		m            *Monitor
	)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, path, nil)
		m.Router().ServeHTTP(w, r)

		return w
	}

	BeforeEach(func() {
		small = newSampleComponent("Small", 4)
		large = newSampleComponent("Large", 10)
		simulation = &fakeSimulation{
			cycle:      30,
			target:     100,
			components: []sim.Component{small, large},
		}

		m = NewMonitor()
		m.RegisterSimulation(simulation)
	})

	It("should find the buffers of the registered components", func() {
		Expect(m.buffers).To(HaveLen(2))
		Expect(m.buffers[0]).To(BeIdenticalTo(small.buffer))
		Expect(m.buffers[1]).To(BeIdenticalTo(large.buffer))
	})

	It("should fall back to a random port for reserved ports", func() {
		Expect(NewMonitor().WithPortNumber(80).portNumber).To(Equal(0))
		Expect(NewMonitor().WithPortNumber(8080).portNumber).To(Equal(8080))
	})

	It("should report the current cycle", func() {
		w := get("/api/now")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"now":30,"paused":false}`))
	})

	It("should pause and continue the simulation", func() {
		get("/api/pause")
		Expect(simulation.IsPaused()).To(BeTrue())

		get("/api/continue")
		Expect(simulation.IsPaused()).To(BeFalse())
	})

	It("should list the components", func() {
		w := get("/api/list_components")

		Expect(w.Body.String()).To(MatchJSON(`["Small","Large"]`))
	})

	It("should serialize a component while the simulation is held", func() {
		small.Counter = 7

		w := get("/api/component/Small")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(BeEmpty())
		Expect(simulation.inspected).To(Equal(1))
	})

	It("should return 404 for an unknown component", func() {
		w := get("/api/component/Missing")

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should reject a malformed field request", func() {
		w := get("/api/field/" + url.PathEscape("{not json"))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	Context("when listing buffers", func() {
		BeforeEach(func() {
			small.buffer.Push(1)
			small.buffer.Push(2)
			large.buffer.Push(1)
			large.buffer.Push(2)
			large.buffer.Push(3)
		})

		decode := func(w *httptest.ResponseRecorder) []bufferRsp {
			var rsp []bufferRsp
			Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())

			return rsp
		}

		It("should sort by fill percentage by default", func() {
			rsp := decode(get("/api/hangdetector/buffers"))

			Expect(rsp).To(Equal([]bufferRsp{
				{Buffer: "Small.Buf", Level: 2, Cap: 4},
				{Buffer: "Large.Buf", Level: 3, Cap: 10},
			}))
		})

		It("should sort by level", func() {
			rsp := decode(get("/api/hangdetector/buffers?sort=level"))

			Expect(rsp[0].Buffer).To(Equal("Large.Buf"))
		})

		It("should page with limit and offset", func() {
			rsp := decode(get("/api/hangdetector/buffers?limit=1&offset=1"))

			Expect(rsp).To(HaveLen(1))
			Expect(rsp[0].Buffer).To(Equal("Large.Buf"))
		})

		It("should return an empty list past the end", func() {
			rsp := decode(get("/api/hangdetector/buffers?offset=5"))

			Expect(rsp).To(BeEmpty())
		})

		It("should reject an unknown sort method", func() {
			w := get("/api/hangdetector/buffers?sort=name")

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	It("should track the simulated cycles in a progress bar", func() {
		simulation.cycle = 60

		w := get("/api/progress")

		var bars []map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0]["name"]).To(Equal("Cycles"))
		Expect(bars[0]["finished"]).To(BeNumerically("==", 60))
		Expect(bars[0]["total"]).To(BeNumerically("==", 100))
	})

	It("should remove a completed progress bar", func() {
		bar := m.CreateProgressBar("Extra", 10)
		bar.IncrementFinished(3)
		Expect(m.progressBars).To(HaveLen(2))

		m.CompleteProgressBar(bar)

		Expect(m.progressBars).To(ConsistOf(m.cycleBar))
	})

	It("should not open a browser before the server starts", func() {
		Expect(m.OpenBrowser()).To(MatchError(ContainSubstring("not started")))
	})
})
