package warehouse

import (
	"github.com/sarchlab/scanrt/edge"
	"github.com/sarchlab/scanrt/queue"
	"github.com/sarchlab/scanrt/station"
)

// Supervisor states. There is no state 1.
const (
	CartIdle station.State = iota
	_
	CartToLoading
	CartTakePack
	CartToRack
	CartStorePack
	CartCenterFork
	CartToPosition
	CartFetchPack
	CartCarryPack
	CartToUnload
	CartDropPack
)

// Supervisor takes one job at a time off the queue and carries it out.
type Supervisor struct {
	station.Base
	station.Names

	io    *IO
	jobs  *queue.Queue
	start *edge.Expr
}

// NewSupervisor creates the cart supervisor fed by jobs.
func NewSupervisor(io *IO, jobs *queue.Queue, d *edge.Detector) *Supervisor {
	s := &Supervisor{
		Base: station.MakeBase("Cart"),
		Names: station.Names{
			CartIdle:       "Idle",
			CartToLoading:  "ToLoading",
			CartTakePack:   "TakePack",
			CartToRack:     "ToRack",
			CartStorePack:  "StorePack",
			CartCenterFork: "CenterFork",
			CartToPosition: "ToPosition",
			CartFetchPack:  "FetchPack",
			CartCarryPack:  "CarryPack",
			CartToUnload:   "ToUnload",
			CartDropPack:   "DropPack",
		},
		io:    io,
		jobs:  jobs,
		start: edge.Any("start", io.StartPLC, io.StartHMI),
	}

	d.Monitor(s.start, io.EOMElevator, io.AutoElevatorSensor)

	return s
}

// Step runs one cycle of the cart. A cycle that stops early, because a
// sync is running or the job needs nothing done, leaves startHMI set.
func (s *Supervisor) Step(c *station.Cycle) {
	defer func() {
		s.io.MainState.Set(byte(s.State()))
	}()

	if temp := s.io.UserTemp.Value(); temp > 0 && temp <= Positions &&
		c.Rising(s.start) {
		s.jobs.Enqueue(temp, s.io.UserLoad.Value())
	}

	if s.step(c) {
		s.io.StartHMI.Set(false)
	}
}

func (s *Supervisor) step(c *station.Cycle) bool {
	lifted := c.Falling(s.io.AutoElevatorSensor)
	arrived := c.Rising(s.io.EOMElevator)
	target := s.io.UserCycle.Value()

	switch s.State() {
	case CartIdle:
		return s.nextJob()
	case CartToLoading:
		s.io.SetPosition(LoadingPosition)
		if arrived {
			s.Goto(CartTakePack)
		}
	case CartTakePack:
		s.io.ForkOut.Set(s.io.PackAtLoadingPoint.Value())
		if s.io.SensForkOut.Value() && lifted {
			s.Goto(CartToRack)
		}
	case CartToRack:
		s.io.SetPosition(target)
		if arrived {
			s.Goto(CartStorePack)
		}
	case CartStorePack:
		s.io.ForkIn.Set(true)
		if s.io.SensForkIn.Value() && lifted {
			s.Goto(CartCenterFork)
			s.io.setOccupied(target, true)
		}
	case CartCenterFork:
		if s.io.SensForkMid.Value() {
			s.Goto(CartIdle)
		}
	case CartToPosition:
		s.io.SetPosition(target)
		if arrived {
			s.Goto(CartFetchPack)
		}
	case CartFetchPack:
		s.io.ForkIn.Set(true)
		if s.io.SensForkIn.Value() && lifted {
			s.Goto(CartCarryPack)
		}
	case CartCarryPack:
		if s.io.SensForkMid.Value() {
			if target == UnloadPosition {
				s.Goto(CartDropPack)
			} else {
				s.Goto(CartToUnload)
			}
		}
	case CartToUnload:
		s.io.SetPosition(UnloadPosition)
		if arrived {
			s.Goto(CartDropPack)
		}
	case CartDropPack:
		s.io.ForkOut.Set(true)
		if s.io.SensForkOut.Value() && lifted {
			s.io.setOccupied(target, false)
			s.Goto(CartCenterFork)
		}
	default:
		s.Recover()
	}

	return true
}

// nextJob starts the next queued job unless a sync owns the cart. It returns
// false when the cycle ends early.
func (s *Supervisor) nextJob() bool {
	if s.io.DoSync.Value() {
		return false
	}

	job := s.jobs.Dequeue()
	if job == queue.Empty {
		s.io.UserCycle.Set(0)
		return true
	}

	target := job.Magnitude()
	load := job.Tagged()
	s.io.UserCycle.Set(target)
	s.io.UserLoadCycle.Set(load)

	if load == s.io.Occupied(target) {
		return false
	}

	switch {
	case load:
		s.Goto(CartToLoading)
	case s.io.Output.Value() == target:
		s.Goto(CartFetchPack)
	default:
		s.Goto(CartToPosition)
	}

	return true
}

// Reset returns the cart to idle.
func (s *Supervisor) Reset() {
	s.Recover()
	s.io.MainState.Set(byte(CartIdle))
}
