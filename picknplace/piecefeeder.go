package picknplace

import (
	"github.com/sarchlab/scanrt/edge"
	"github.com/sarchlab/scanrt/station"
)

// Piece feeder states.
const (
	PieceFeederInit station.State = iota
	PieceFeederLookup
	PieceFeederDeliver
)

// PieceFeeder conveys a piece to the pick position on request.
type PieceFeeder struct {
	station.Base
	station.Names

	io *IO

	target byte
	ready  *station.Flag
}

// NewPieceFeeder creates the piece feeder.
func NewPieceFeeder(io *IO) *PieceFeeder {
	f := &PieceFeeder{
		Base: station.MakeBase("PieceFeeder"),
		Names: station.Names{
			PieceFeederInit:    "Init",
			PieceFeederLookup:  "Lookup",
			PieceFeederDeliver: "Deliver",
		},
		io: io,
	}
	f.ready = station.NewFlag(f.Name(), "ready")

	return f
}

// Ready is set once the requested piece waits at the pick position.
func (f *PieceFeeder) Ready() edge.Signal {
	return f.ready
}

// Target returns the piece type requested and not yet delivered, or 0.
func (f *PieceFeeder) Target() byte {
	return f.target
}

// Request asks for a piece of the given type.
func (f *PieceFeeder) Request(target byte) {
	f.ready.Set(false)
	f.target = target
}

// Step runs one cycle of the piece feeder. Any detected piece type is
// accepted; the target only tells whether a piece is wanted.
func (f *PieceFeeder) Step(_ *station.Cycle) {
	switch f.State() {
	case PieceFeederInit:
		f.target = 0
		f.ready.Set(false)
		f.Goto(PieceFeederLookup)
	case PieceFeederLookup:
		if f.target == 0 {
			return
		}

		f.io.PiecesConveyer.Set(true)
		if f.io.Input.Value()&0x3 != 0 {
			f.Goto(PieceFeederDeliver)
		}
	case PieceFeederDeliver:
		f.io.PiecesConveyer.Set(true)
		if f.io.PieceReady.Value() {
			f.ready.Set(true)
			f.target = 0
			f.Goto(PieceFeederLookup)
		}
	default:
		f.Recover()
	}
}

// Reset returns the piece feeder to its initial state.
func (f *PieceFeeder) Reset() {
	f.Recover()
	f.target = 0
	f.ready.Set(false)
}
