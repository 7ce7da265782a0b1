package palletizer

import (
	"github.com/sarchlab/scanrt/edge"
	"github.com/sarchlab/scanrt/station"
)

// Feeder states.
const (
	FeederLift station.State = iota
	FeederPush
)

// BoxesPerLayer is the number of boxes the feeder pushes before it waits for
// the lift to take the layer.
const BoxesPerLayer = 2

// Feeder raises boxes to the mat and pushes them on it, two per layer.
type Feeder struct {
	station.Base
	station.Names

	io *IO

	waitingBoxes int
	pushedBoxes  int
}

// NewFeeder creates the feeder and monitors its edge signals on d.
func NewFeeder(io *IO, d *edge.Detector) *Feeder {
	d.Monitor(io.MaxBoxSensor)

	return &Feeder{
		Base:  station.MakeBase("Feeder"),
		Names: station.Names{FeederLift: "Lift", FeederPush: "Push"},
		io:    io,
	}
}

// Step runs one cycle of the feeder.
func (f *Feeder) Step(c *station.Cycle) {
	if c.Rising(f.io.MaxBoxSensor) {
		f.waitingBoxes++
	}

	if f.pushedBoxes >= BoxesPerLayer {
		return
	}

	switch f.State() {
	case FeederLift:
		f.io.BoxElevator.Set(true)
		if f.io.ElevatorExitSensor.Value() {
			f.Goto(FeederPush)
		}
	case FeederPush:
		f.io.PushBox.Set(true)
		if f.io.AdvanceElevatorSensor.Value() {
			f.Goto(FeederLift)
			f.pushedBoxes++
		}
	default:
		f.Recover()
	}
}

// WaitingBoxes is the number of boxes counted on the mat since the last
// layer was taken.
func (f *Feeder) WaitingBoxes() int {
	return f.waitingBoxes
}

// PushedBoxes is the number of boxes pushed for the current layer.
func (f *Feeder) PushedBoxes() int {
	return f.pushedBoxes
}

// Rearm starts a new layer.
func (f *Feeder) Rearm() {
	f.waitingBoxes = 0
	f.pushedBoxes = 0
}

// Reset returns the feeder to its initial state.
func (f *Feeder) Reset() {
	f.Recover()
	f.Rearm()
}
