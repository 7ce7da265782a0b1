package picknplace

import (
	"github.com/sarchlab/scanrt/edge"
	"github.com/sarchlab/scanrt/station"
)

// Box feeder states.
const (
	BoxFeederInit station.State = iota
	BoxFeederLoad
	BoxFeederWaitFlush
	BoxFeederFlush
)

// BoxFeeder brings an empty box under the picker and takes it away once full.
type BoxFeeder struct {
	station.Base
	station.Names

	io *IO

	ready    *station.Flag
	flushing *station.Flag
	flushes  int
}

// NewBoxFeeder creates the box feeder.
func NewBoxFeeder(io *IO, d *edge.Detector) *BoxFeeder {
	f := &BoxFeeder{
		Base: station.MakeBase("BoxFeeder"),
		Names: station.Names{
			BoxFeederInit:      "Init",
			BoxFeederLoad:      "Load",
			BoxFeederWaitFlush: "WaitFlush",
			BoxFeederFlush:     "Flush",
		},
		io: io,
	}
	f.ready = station.NewFlag(f.Name(), "ready")
	f.flushing = station.NewFlag(f.Name(), "flushing")

	d.Monitor(io.BoxReady)

	return f
}

// Ready is set while a box waits under the picker.
func (f *BoxFeeder) Ready() edge.Signal {
	return f.ready
}

// Flushes counts the flush requests accepted so far.
func (f *BoxFeeder) Flushes() int {
	return f.flushes
}

// RequestFlush asks for the current box to be taken away.
func (f *BoxFeeder) RequestFlush() {
	f.ready.Set(false)
	f.flushing.Set(true)
	f.flushes++
}

// Step runs one cycle of the box feeder.
func (f *BoxFeeder) Step(c *station.Cycle) {
	switch f.State() {
	case BoxFeederInit:
		f.flushing.Set(false)
		f.ready.Set(false)
		f.Goto(BoxFeederLoad)
	case BoxFeederLoad:
		f.io.BoxesConveyer.Set(true)
		if f.io.BoxReady.Value() {
			f.Goto(BoxFeederWaitFlush)
			f.ready.Set(true)
		}
	case BoxFeederWaitFlush:
		if f.flushing.Value() {
			f.Goto(BoxFeederFlush)
		}
	case BoxFeederFlush:
		f.io.BoxesConveyer.Set(true)
		if c.Falling(f.io.BoxReady) {
			f.Goto(BoxFeederLoad)
			f.flushing.Set(false)
		}
	default:
		f.Recover()
	}
}

// Reset returns the box feeder to its initial state.
func (f *BoxFeeder) Reset() {
	f.Recover()
	f.ready.Set(false)
	f.flushing.Set(false)
}
