package scan

import (
	"github.com/sarchlab/scanrt/edge"
	"github.com/sarchlab/scanrt/hooking"
	"github.com/sarchlab/scanrt/memimage"
	"github.com/sarchlab/scanrt/mode"
	"github.com/sarchlab/scanrt/station"
	"go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// pusher asserts its output while in state 1 and publishes a ready flag.
type pusher struct {
	station.Base

	out   memimage.Bit
	ready *station.Flag
}

func newPusher(name string, out memimage.Bit) *pusher {
	return &pusher{
		Base:  station.MakeBase(name),
		out:   out,
		ready: station.NewFlag(name, "ready"),
	}
}

func (p *pusher) Step(_ *station.Cycle) {
	switch p.State() {
	case 0:
		p.ready.Set(true)
		p.Goto(1)
	case 1:
		p.out.Set(true)
		p.Goto(2)
	case 2:
		p.out.Set(true)
	default:
		p.Recover()
	}
}

func (p *pusher) Reset() {
	p.Recover()
	p.ready.Set(false)
}

// watcher records the value of a flag as seen during its step.
type watcher struct {
	station.Base

	flag edge.Signal
	seen []bool
}

func (w *watcher) Step(_ *station.Cycle) {
	w.seen = append(w.seen, w.flag.Value())
}

func (w *watcher) Reset() {}

type cycleLog struct {
	positions []*hooking.HookPos
	details   []any
}

func (l *cycleLog) Func(ctx hooking.HookCtx) {
	l.positions = append(l.positions, ctx.Pos)
	l.details = append(l.details, ctx.Detail)
}

var _ = Describe("Scanner", func() {
	var (
		img                *memimage.Image
		start, stop, reset memimage.Bit
		out0, out1, lamp   memimage.Bit
		ctrl               *mode.Controller
		builder            Builder
	)

	BeforeEach(func() {
		var err error
		img, err = memimage.New(memimage.Layout{Inputs: 2, Outputs: 2, Markers: 2})
		Expect(err).NotTo(HaveOccurred())

		start = img.MustBit(memimage.MustParseAddr("I1.4"))
		stop = img.MustBit(memimage.MustParseAddr("I1.5"))
		reset = img.MustBit(memimage.MustParseAddr("I1.6"))
		out0 = img.MustBit(memimage.MustParseAddr("Q0.0"))
		out1 = img.MustBit(memimage.MustParseAddr("Q0.1"))
		lamp = img.MustBit(memimage.MustParseAddr("Q1.0"))

		stop.Set(true)

		ctrl = mode.MakeBuilder().
			WithStart(start).
			WithStop(stop).
			WithReset(reset).
			WithIndicators(lamp, nil, nil).
			Build()

		builder = MakeBuilder().
			WithImage(img).
			WithMode(ctrl).
			WithSafeOutputs(out0, out1)
	})

	It("should refuse incomplete configurations", func() {
		_, err := MakeBuilder().WithMode(ctrl).Build()
		Expect(err).To(MatchError(ErrNoImage))

		_, err = MakeBuilder().WithImage(img).Build()
		Expect(err).To(MatchError(ErrNoMode))

		_, err = builder.
			WithStation(newPusher("P", out0)).
			WithStation(newPusher("P", out1)).
			Build()
		Expect(err).To(MatchError(ErrDuplicateStation))
	})

	Context("with mocked stations", func() {
		var (
			mockCtrl *gomock.Controller
			first    *MockStation
			second   *MockStation
			s        *Scanner
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			first = NewMockStation(mockCtrl)
			second = NewMockStation(mockCtrl)

			first.EXPECT().Name().Return("First").AnyTimes()
			second.EXPECT().Name().Return("Second").AnyTimes()
			first.EXPECT().State().Return(station.State(0)).AnyTimes()
			second.EXPECT().State().Return(station.State(0)).AnyTimes()

			var err error
			s, err = builder.WithStation(first).WithStation(second).Build()
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should not step any station while stopped", func() {
			s.Scan()
			s.Scan()

			Expect(s.Mode()).To(Equal(mode.Stopped))
			Expect(s.Cycle()).To(Equal(uint64(2)))
		})

		It("should step every station once, in order", func() {
			start.Set(true)

			gomock.InOrder(
				first.EXPECT().Step(gomock.Any()),
				second.EXPECT().Step(gomock.Any()),
				first.EXPECT().Step(gomock.Any()),
				second.EXPECT().Step(gomock.Any()),
			)

			s.Scan()
			s.Scan()
		})

		It("should pass the cycle number to stations", func() {
			start.Set(true)

			first.EXPECT().Step(gomock.Any()).Do(func(c *station.Cycle) {
				Expect(c.Number).To(Equal(uint64(1)))
				Expect(c.Edges).To(BeIdenticalTo(s.Edges()))
			})
			second.EXPECT().Step(gomock.Any())

			s.Scan()
		})

		It("should reset every station while reset is held", func() {
			start.Set(true)
			reset.Set(true)

			first.EXPECT().Reset()
			second.EXPECT().Reset()

			s.Scan()
			Expect(s.Mode()).To(Equal(mode.Stopped))
		})
	})

	Context("with real stations", func() {
		It("should force safe outputs off whenever stopped", func() {
			p := newPusher("Pusher", out0)
			s, err := builder.WithStation(p).Build()
			Expect(err).NotTo(HaveOccurred())

			start.Set(true)
			for i := 0; i < 3; i++ {
				s.Scan()
			}
			Expect(out0.Value()).To(BeTrue())
			Expect(lamp.Value()).To(BeTrue())

			start.Set(false)
			stop.Set(false)
			for i := 0; i < 5; i++ {
				s.Scan()
				Expect(out0.Value()).To(BeFalse())
				Expect(out1.Value()).To(BeFalse())
				Expect(lamp.Value()).To(BeFalse())
			}

			Expect(p.State()).To(Equal(station.State(2)),
				"stop alone keeps the sequence position")
		})

		It("should clear an output the station no longer asserts", func() {
			out1.Set(true)
			s, err := builder.Build()
			Expect(err).NotTo(HaveOccurred())

			start.Set(true)
			s.Scan()

			Expect(out1.Value()).To(BeFalse())
		})

		It("should report the initial state on the cycle reset is seen", func() {
			p := newPusher("Pusher", out0)
			s, err := builder.WithStation(p).Build()
			Expect(err).NotTo(HaveOccurred())

			start.Set(true)
			s.Scan()
			s.Scan()
			Expect(p.State()).To(Equal(station.State(2)))

			reset.Set(true)
			s.Scan()

			Expect(p.State()).To(Equal(station.Initial))
			Expect(p.ready.Value()).To(BeFalse())
			Expect(out0.Value()).To(BeFalse())
		})

		It("should show flags of earlier stations in the same cycle", func() {
			p := newPusher("Producer", out0)
			w := &watcher{Base: station.MakeBase("Consumer"), flag: p.ready}
			s, err := builder.WithStation(p).WithStation(w).Build()
			Expect(err).NotTo(HaveOccurred())

			start.Set(true)
			s.Scan()

			Expect(w.seen).To(Equal([]bool{true}))
		})

		It("should show flags of later stations one cycle late", func() {
			p := newPusher("Producer", out0)
			w := &watcher{Base: station.MakeBase("Consumer"), flag: p.ready}
			s, err := builder.WithStation(w).WithStation(p).Build()
			Expect(err).NotTo(HaveOccurred())

			start.Set(true)
			s.Scan()
			s.Scan()

			Expect(w.seen).To(Equal([]bool{false, true}))
		})

		It("should not advance shadows while stopped", func() {
			d := edge.NewDetector()
			sensor := img.MustBit(memimage.MustParseAddr("I0.0"))
			d.Monitor(sensor)

			w := &edgeWatcher{Base: station.MakeBase("Edges"), sig: sensor}
			s, err := builder.WithEdges(d).WithStation(w).Build()
			Expect(err).NotTo(HaveOccurred())

			sensor.Set(true)
			s.Scan()
			Expect(w.rising).To(BeEmpty())

			start.Set(true)
			s.Scan()
			s.Scan()

			Expect(w.rising).To(Equal([]bool{true, false}),
				"the edge seen while stopped is still pending when running starts")
		})

		It("should run housekeepers whatever the mode", func() {
			var cycles []uint64
			s, err := builder.
				WithHousekeeper(HousekeeperFunc(func(c uint64) {
					cycles = append(cycles, c)
				})).
				Build()
			Expect(err).NotTo(HaveOccurred())

			s.Scan()
			start.Set(true)
			s.Scan()

			Expect(cycles).To(Equal([]uint64{1, 2}))
		})

		It("should clear resettables on reset", func() {
			r := &resetCounter{}
			s, err := builder.WithResettable(r).Build()
			Expect(err).NotTo(HaveOccurred())

			s.Scan()
			reset.Set(true)
			s.Scan()
			s.Scan()

			Expect(r.n).To(Equal(2))
		})

		It("should invoke hooks on transitions and mode changes", func() {
			p := newPusher("Pusher", out0)
			s, err := builder.WithStation(p).Build()
			Expect(err).NotTo(HaveOccurred())

			log := &cycleLog{}
			s.AcceptHook(log)

			start.Set(true)
			s.Scan()

			Expect(log.positions).To(Equal([]*hooking.HookPos{
				HookPosCycleStart,
				HookPosModeChange,
				HookPosTransition,
				HookPosCycleEnd,
			}))
			Expect(log.details[2]).To(Equal(Transition{From: 0, To: 1}))
		})

		It("should take snapshots", func() {
			p := newPusher("Pusher", out0)
			s, err := builder.WithStation(p).Build()
			Expect(err).NotTo(HaveOccurred())

			start.Set(true)
			s.Scan()
			s.Scan()

			snap := s.Snapshot()
			Expect(snap.Cycle).To(Equal(uint64(2)))
			Expect(snap.Mode).To(Equal("Running"))
			Expect(snap.Stations).To(Equal([]StationSnapshot{
				{Name: "Pusher", State: 2, StateName: "2"},
			}))
			Expect(snap.Outputs[0]).To(Equal(byte(0x01)))
			Expect(snap.Inputs[1]).To(Equal(byte(0x30)))

			found, ok := s.Station("Pusher")
			Expect(ok).To(BeTrue())
			Expect(found).To(BeIdenticalTo(p))
		})
	})
})

type resetCounter struct {
	n int
}

func (r *resetCounter) Reset() {
	r.n++
}

type edgeWatcher struct {
	station.Base

	sig    edge.Signal
	rising []bool
}

func (w *edgeWatcher) Step(c *station.Cycle) {
	w.rising = append(w.rising, c.Rising(w.sig))
}

func (w *edgeWatcher) Reset() {}
