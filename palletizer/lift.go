package palletizer

import (
	"github.com/sarchlab/scanrt/edge"
	"github.com/sarchlab/scanrt/station"
)

// Lift states.
const (
	LiftLower station.State = iota
	LiftLoadPallet
	LiftRaise
	LiftWaitBoxes
	LiftAdvanceMat
	LiftBlockBoxes
	LiftRetractMat
	LiftDescend
	LiftEvacuate
)

// LayersPerPallet is the number of layers that completes a pallet.
const LayersPerPallet = 3

// BoxSupply is what the lift needs from the feeder.
type BoxSupply interface {
	WaitingBoxes() int
	Rearm()
}

// Lift stacks layers on a pallet and evacuates it when full. The elevation it
// descends to after a layer depends on how many layers are already stacked.
type Lift struct {
	station.Base
	station.Names

	io     *IO
	supply BoxSupply

	layers int
}

// NewLift creates the lift and monitors its edge signals on d.
func NewLift(io *IO, supply BoxSupply, d *edge.Detector) *Lift {
	d.Monitor(io.PalletDetector)

	return &Lift{
		Base: station.MakeBase("Lift"),
		Names: station.Names{
			LiftLower:      "Lower",
			LiftLoadPallet: "LoadPallet",
			LiftRaise:      "Raise",
			LiftWaitBoxes:  "WaitBoxes",
			LiftAdvanceMat: "AdvanceMat",
			LiftBlockBoxes: "BlockBoxes",
			LiftRetractMat: "RetractMat",
			LiftDescend:    "Descend",
			LiftEvacuate:   "Evacuate",
		},
		io:     io,
		supply: supply,
	}
}

// Layers returns the number of layers on the current pallet.
func (l *Lift) Layers() int {
	return l.layers
}

// Step runs one cycle of the lift.
func (l *Lift) Step(c *station.Cycle) {
	switch l.State() {
	case LiftLower:
		l.io.PalletsElevatorDown.Set(true)
		if l.io.ElevatorLowSensor.Value() {
			l.Goto(LiftLoadPallet)
		}
	case LiftLoadPallet:
		l.io.ConveyPallets.Set(true)
		if l.io.PalletDetector.Value() {
			l.Goto(LiftRaise)
		}
	case LiftRaise:
		l.io.PalletsElevatorUp.Set(true)
		if l.io.ElevatorHighSensor.Value() {
			l.Goto(LiftWaitBoxes)
		}
	case LiftWaitBoxes:
		if l.supply.WaitingBoxes() == BoxesPerLayer {
			l.Goto(LiftAdvanceMat)
		}
	case LiftAdvanceMat:
		l.io.HoldBox.Set(true)
		l.io.MatAdvance.Set(true)
		if l.io.TableOutSensor.Value() {
			l.Goto(LiftBlockBoxes)
		}
	case LiftBlockBoxes:
		l.io.MatAdvance.Set(true)
		l.io.BlockBox.Set(true)
		if l.io.BoxBlocked.Value() {
			l.Goto(LiftRetractMat)
			l.supply.Rearm()
		}
	case LiftRetractMat:
		l.io.BlockBox.Set(true)
		if l.io.TableInSensor.Value() {
			l.Goto(LiftDescend)
			l.layers++
		}
	case LiftDescend:
		l.io.PalletsElevatorDown.Set(true)
		l.descend()
	case LiftEvacuate:
		l.io.ConveyPallets.Set(true)
		if c.Falling(l.io.PalletDetector) {
			l.Goto(LiftLoadPallet)
		}
	default:
		l.Recover()
	}
}

// descend lowers the pallet by one layer height, or all the way down once
// the pallet is complete. A layer count beyond a full pallet cannot be
// reached by the sequence; if it is seen anyway the count is dropped and the
// lift starts over.
func (l *Lift) descend() {
	switch l.layers {
	case 0, 1:
		if l.io.ElevatorHighMidSensor.Value() {
			l.Goto(LiftWaitBoxes)
		}
	case 2:
		if l.io.ElevatorHighLowSensor.Value() {
			l.Goto(LiftWaitBoxes)
		}
	case LayersPerPallet:
		if l.io.ElevatorLowSensor.Value() {
			l.Goto(LiftEvacuate)
			l.layers = 0
		}
	default:
		l.layers = 0
		l.Recover()
	}
}

// Reset returns the lift to its initial state.
func (l *Lift) Reset() {
	l.Recover()
	l.layers = 0
}
