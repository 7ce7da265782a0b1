package picknplace

import (
	"github.com/sarchlab/scanrt/edge"
	"github.com/sarchlab/scanrt/station"
)

// Picker states. There is no state 7.
const (
	PickerInit station.State = iota
	PickerHome
	PickerWaitHome
	PickerIdle
	PickerDescend
	PickerGrip
	PickerLift
	_
	PickerWaitMove
	PickerStepOffset
	PickerMove
	PickerPlace
)

// Picker moves one piece from the pick position to a slot of the box.
type Picker struct {
	station.Base
	station.Names

	io *IO

	ready *station.Flag
	done  *station.Flag

	xOffset, yOffset          byte
	rightMemento, downMemento bool
}

// NewPicker creates the picker.
func NewPicker(io *IO, d *edge.Detector) *Picker {
	p := &Picker{
		Base: station.MakeBase("Picker"),
		Names: station.Names{
			PickerInit:       "Init",
			PickerHome:       "Home",
			PickerWaitHome:   "WaitHome",
			PickerIdle:       "Idle",
			PickerDescend:    "Descend",
			PickerGrip:       "Grip",
			PickerLift:       "Lift",
			PickerWaitMove:   "WaitMove",
			PickerStepOffset: "StepOffset",
			PickerMove:       "Move",
			PickerPlace:      "Place",
		},
		io: io,
	}
	p.ready = station.NewFlag(p.Name(), "ready")
	p.done = station.NewFlag(p.Name(), "done")

	d.Monitor(io.PickerMoving)

	return p
}

// Ready is set while the picker idles at home.
func (p *Picker) Ready() edge.Signal {
	return p.ready
}

// Done is set once the last placement has completed.
func (p *Picker) Done() edge.Signal {
	return p.done
}

// Offsets returns the unit moves still to make to the right and down.
func (p *Picker) Offsets() (x, y byte) {
	return p.xOffset, p.yOffset
}

// Place starts a placement into box slot offset (0..8, row major). It is
// ignored unless the picker idles at home.
func (p *Picker) Place(offset byte) bool {
	if p.State() != PickerIdle {
		return false
	}

	p.xOffset = offset%3 + 1
	p.yOffset = offset / 3
	p.ready.Set(false)
	p.done.Set(false)
	p.Goto(PickerDescend)

	return true
}

// Step runs one cycle of the picker.
func (p *Picker) Step(c *station.Cycle) {
	switch p.State() {
	case PickerInit:
		p.done.Set(false)
		p.Goto(PickerHome)
	case PickerHome:
		p.io.PickerUp.Set(true)
		p.io.PickerLeft.Set(true)
		if p.io.PickerMoving.Value() {
			p.Goto(PickerWaitHome)
		}
	case PickerWaitHome:
		if c.Falling(p.io.PickerMoving) {
			if p.io.PickerAtZero.Value() {
				p.Goto(PickerIdle)
			} else {
				p.Goto(PickerHome)
			}
		}
	case PickerIdle:
		p.ready.Set(true)
	case PickerDescend:
		p.io.PickerPick.Set(true)
		if p.io.PickerBottom.Value() {
			p.Goto(PickerGrip)
		}
	case PickerGrip:
		p.io.PickerPick.Set(true)
		p.io.PickerMagnet.Set(true)
		if p.io.PickerGrip.Value() {
			p.Goto(PickerLift)
		}
	case PickerLift:
		p.io.PickerMagnet.Set(true)
		if p.io.PickerTop.Value() {
			p.Goto(PickerStepOffset)
		}
	case PickerWaitMove:
		p.io.PickerMagnet.Set(true)
		if c.Falling(p.io.PickerMoving) {
			if p.xOffset != 0 || p.yOffset != 0 {
				p.Goto(PickerStepOffset)
			} else {
				p.Goto(PickerPlace)
			}
		}
	case PickerStepOffset:
		p.io.PickerMagnet.Set(true)
		p.stepOffset()
		p.Goto(PickerMove)
	case PickerMove:
		p.io.PickerMagnet.Set(true)
		p.io.PickerRight.Set(p.rightMemento)
		p.io.PickerDown.Set(p.downMemento)
		if p.io.PickerMoving.Value() {
			p.Goto(PickerWaitMove)
		}
	case PickerPlace:
		p.io.PickerPick.Set(true)
		p.io.PickerMagnet.Set(true)
		if p.io.PickerBottom.Value() {
			p.done.Set(true)
			p.Goto(PickerHome)
		}
	default:
		p.Recover()
	}
}

// stepOffset takes one unit off each nonzero offset and remembers which
// directions the next move covers.
func (p *Picker) stepOffset() {
	p.rightMemento = p.xOffset > 0
	if p.rightMemento {
		p.xOffset--
	}

	p.downMemento = p.yOffset > 0
	if p.downMemento {
		p.yOffset--
	}
}

// Reset returns the picker to its initial state.
func (p *Picker) Reset() {
	p.Recover()
	p.ready.Set(false)
	p.done.Set(false)
	p.xOffset, p.yOffset = 0, 0
	p.rightMemento, p.downMemento = false, false
}
