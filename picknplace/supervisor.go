package picknplace

import (
	"github.com/sarchlab/scanrt/edge"
	"github.com/sarchlab/scanrt/station"
)

// Supervisor states.
const (
	SupervisorInit station.State = iota
	SupervisorFirstRequest
	SupervisorWaitReady
	SupervisorWaitLift
	SupervisorWaitDone
)

// BoxSlots is the number of pieces in a full box.
const BoxSlots = 9

// DefaultPattern is the piece type wanted for each box slot.
var DefaultPattern = [BoxSlots]byte{1, 2, 1, 2, 3, 2, 1, 2, 1}

// Supervisor sequences the feeders and the picker through the box pattern.
type Supervisor struct {
	station.Base
	station.Names

	io     *IO
	boxes  *BoxFeeder
	pieces *PieceFeeder
	picker *Picker

	pattern [BoxSlots]byte
	offset  byte
}

// NewSupervisor creates the supervisor over the three cell stations.
func NewSupervisor(
	io *IO,
	boxes *BoxFeeder,
	pieces *PieceFeeder,
	picker *Picker,
	d *edge.Detector,
) *Supervisor {
	s := &Supervisor{
		Base: station.MakeBase("Supervisor"),
		Names: station.Names{
			SupervisorInit:         "Init",
			SupervisorFirstRequest: "FirstRequest",
			SupervisorWaitReady:    "WaitReady",
			SupervisorWaitLift:     "WaitLift",
			SupervisorWaitDone:     "WaitDone",
		},
		io:      io,
		boxes:   boxes,
		pieces:  pieces,
		picker:  picker,
		pattern: DefaultPattern,
	}

	d.Monitor(io.PickerTop)

	return s
}

// Offset returns the box slot the current or next piece goes to.
func (s *Supervisor) Offset() byte {
	return s.offset
}

// Step runs one cycle of the supervisor.
func (s *Supervisor) Step(c *station.Cycle) {
	switch s.State() {
	case SupervisorInit:
		s.pattern = DefaultPattern
		s.offset = 0
		s.Goto(SupervisorFirstRequest)
	case SupervisorFirstRequest:
		s.pieces.Request(s.pattern[0])
		s.Goto(SupervisorWaitReady)
	case SupervisorWaitReady:
		if s.pieces.Ready().Value() &&
			s.boxes.Ready().Value() &&
			s.picker.Ready().Value() {
			s.picker.Place(s.offset)
			s.Goto(SupervisorWaitLift)
		}
	case SupervisorWaitLift:
		if c.Rising(s.io.PickerTop) {
			s.offset++
			if s.offset >= BoxSlots {
				s.offset = 0
			}
			s.pieces.Request(s.pattern[s.offset])
			s.Goto(SupervisorWaitDone)
		}
	case SupervisorWaitDone:
		if s.picker.Done().Value() {
			if s.offset == 0 {
				s.boxes.RequestFlush()
			}
			s.Goto(SupervisorWaitReady)
		}
	default:
		s.Recover()
	}
}

// Reset returns the supervisor to its initial state.
func (s *Supervisor) Reset() {
	s.Recover()
	s.pattern = DefaultPattern
	s.offset = 0
}
