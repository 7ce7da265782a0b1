package mode

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type input struct{ on bool }

func (i *input) Value() bool { return i.on }

type lamp struct{ on bool }

func (l *lamp) Set(v bool) { l.on = v }

var _ = Describe("Controller", func() {
	var (
		start, stop, reset, enable *input
		power, stopLamp, resetLamp *lamp
		c                          *Controller
	)

	BeforeEach(func() {
		start, stop, reset, enable = &input{}, &input{on: true}, &input{}, &input{}
		power, stopLamp, resetLamp = &lamp{}, &lamp{}, &lamp{}
		c = MakeBuilder().
			WithStart(start).
			WithStop(stop).
			WithReset(reset).
			WithIndicators(power, stopLamp, resetLamp).
			Build()
	})

	It("should start stopped", func() {
		Expect(c.Evaluate().Running()).To(BeFalse())
		Expect(stopLamp.on).To(BeTrue())
		Expect(power.on).To(BeFalse())
	})

	It("should latch running once start is seen", func() {
		start.on = true
		Expect(c.Evaluate().Mode).To(Equal(Running))

		start.on = false
		Expect(c.Evaluate().Mode).To(Equal(Running))
		Expect(power.on).To(BeTrue())
		Expect(stopLamp.on).To(BeFalse())
	})

	It("should stop while the stop circuit is open", func() {
		start.on = true
		c.Evaluate()

		stop.on = false
		Expect(c.Evaluate().Mode).To(Equal(Stopped))

		start.on = true
		Expect(c.Evaluate().Mode).To(Equal(Stopped),
			"start must not win over an open stop circuit")
	})

	It("should stop and report reset while reset is held", func() {
		start.on = true
		c.Evaluate()

		reset.on = true
		d := c.Evaluate()
		Expect(d.Mode).To(Equal(Stopped))
		Expect(d.Reset).To(BeTrue())
		Expect(resetLamp.on).To(BeTrue())

		reset.on = false
		Expect(c.Evaluate().Mode).To(Equal(Running),
			"start is still held, so running resumes")
		Expect(resetLamp.on).To(BeFalse())
	})

	It("should follow an enable switch when there is no start input", func() {
		auto := MakeBuilder().WithEnable(enable).Build()

		Expect(auto.Evaluate().Running()).To(BeFalse())

		enable.on = true
		Expect(auto.Evaluate().Running()).To(BeTrue())

		enable.on = false
		Expect(auto.Evaluate().Running()).To(BeFalse())
		Expect(auto.Mode()).To(Equal(Stopped))
	})

	It("should drop to stopped when forced", func() {
		start.on = true
		c.Evaluate()
		c.ForceStop()

		Expect(c.Mode()).To(Equal(Stopped))
		Expect(c.Mode().String()).To(Equal("Stopped"))
	})
})
