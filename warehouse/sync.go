package warehouse

import (
	"github.com/sarchlab/scanrt/edge"
	"github.com/sarchlab/scanrt/station"
)

// Sync states.
const (
	SyncStart station.State = iota
	SyncMove
	SyncForkIn
	SyncProbe
	SyncRecord
	SyncPutBack
	SyncCenter
	SyncNext
	SyncLiftPack
	SyncHoldPack
)

// Sync walks the cart over every rack position and probes each one with the
// fork, rebuilding the occupancy bits. It runs while doSync is set and the
// cart is idle; a rising doSync restarts it from position 1.
type Sync struct {
	station.Base
	station.Names

	io   *IO
	cart *Supervisor

	didAutoLift bool
}

// NewSync creates the sync sub-machine of cart.
func NewSync(io *IO, cart *Supervisor, d *edge.Detector) *Sync {
	s := &Sync{
		Base: station.MakeBase("Sync"),
		Names: station.Names{
			SyncStart:    "Start",
			SyncMove:     "Move",
			SyncForkIn:   "ForkIn",
			SyncProbe:    "Probe",
			SyncRecord:   "Record",
			SyncPutBack:  "PutBack",
			SyncCenter:   "Center",
			SyncNext:     "Next",
			SyncLiftPack: "LiftPack",
			SyncHoldPack: "HoldPack",
		},
		io:   io,
		cart: cart,
	}

	d.Monitor(io.DoSync, io.EOMElevator, io.AutoElevatorSensor)

	return s
}

// Step runs one cycle of the sync.
func (s *Sync) Step(c *station.Cycle) {
	if c.Rising(s.io.DoSync) {
		s.Goto(SyncStart)
		s.io.ScanPosition.Set(1)
	}

	if s.cart.State() != CartIdle || !s.io.DoSync.Value() {
		return
	}

	pos := s.io.ScanPosition.Value()
	lifted := c.Falling(s.io.AutoElevatorSensor)

	switch s.State() {
	case SyncStart:
		s.didAutoLift = false
		if s.io.Output.Value() != pos {
			s.Goto(SyncMove)
		} else {
			s.Goto(SyncForkIn)
		}
	case SyncMove:
		s.io.SetPosition(pos)
		if c.Rising(s.io.EOMElevator) {
			s.Goto(SyncForkIn)
		}
	case SyncForkIn:
		s.io.ForkIn.Set(true)
		if s.io.SensForkIn.Value() {
			s.Goto(SyncProbe)
		}
	case SyncProbe:
		if s.io.AutoElevatorSensor.Value() {
			s.Goto(SyncLiftPack)
		}
		if s.io.SensForkMid.Value() {
			s.Goto(SyncRecord)
		}
	case SyncLiftPack:
		s.didAutoLift = true
		s.io.ForkIn.Set(true)
		if s.io.SensForkIn.Value() && lifted {
			s.Goto(SyncHoldPack)
		}
	case SyncHoldPack:
		if s.io.SensForkMid.Value() {
			s.Goto(SyncRecord)
		}
	case SyncRecord:
		s.io.setOccupied(pos, s.didAutoLift)
		if s.didAutoLift {
			s.Goto(SyncPutBack)
		} else {
			s.Goto(SyncCenter)
		}
	case SyncPutBack:
		s.io.ForkIn.Set(true)
		if s.io.SensForkIn.Value() && lifted {
			s.Goto(SyncCenter)
		}
	case SyncCenter:
		if s.io.SensForkMid.Value() {
			s.Goto(SyncNext)
		}
	case SyncNext:
		pos++
		s.io.ScanPosition.Set(pos)
		if pos > Positions {
			s.io.DoSync.Set(false)
		} else {
			s.Goto(SyncStart)
		}
	default:
		s.Recover()
	}
}

// Reset returns the sync to its first state.
func (s *Sync) Reset() {
	s.Recover()
	s.didAutoLift = false
}
