// Package palletizer is the box palletizer program: a feeder lifts and pushes
// boxes onto a mat, and a lift stacks them on a pallet three layers high.
package palletizer

import "github.com/sarchlab/scanrt/memimage"

// IO holds the bound signals of the palletizer cell.
type IO struct {
	ElevatorExitSensor    memimage.Bit
	AdvanceElevatorSensor memimage.Bit
	MaxBoxSensor          memimage.Bit
	TableInSensor         memimage.Bit
	TableOutSensor        memimage.Bit
	BoxBlocked            memimage.Bit
	ElevatorLowSensor     memimage.Bit
	ElevatorHighSensor    memimage.Bit
	ElevatorHighMidSensor memimage.Bit
	ElevatorHighLowSensor memimage.Bit
	PalletDetector        memimage.Bit
	Automatic             memimage.Bit
	Start                 memimage.Bit
	Stop                  memimage.Bit
	Reset                 memimage.Bit

	BoxElevator         memimage.Bit
	PushBox             memimage.Bit
	HoldBox             memimage.Bit
	MatAdvance          memimage.Bit
	BlockBox            memimage.Bit
	PalletsElevatorUp   memimage.Bit
	PalletsElevatorDown memimage.Bit
	ConveyPallets       memimage.Bit
	PowerLED            memimage.Bit
	StopLED             memimage.Bit
	ResetLED            memimage.Bit
	Output              memimage.Byte
}

// Bind declares the palletizer signals.
func Bind(b *memimage.Binder) IO {
	return IO{
		ElevatorExitSensor:    b.Bit("ElevatorExitSensor", "I0.0"),
		AdvanceElevatorSensor: b.Bit("AdvanceElevatorSensor", "I0.1"),
		MaxBoxSensor:          b.Bit("MaxBoxSensor", "I0.2"),
		TableInSensor:         b.Bit("TableInSensor", "I0.3"),
		TableOutSensor:        b.Bit("TableOutSensor", "I0.4"),
		BoxBlocked:            b.Bit("BoxBlocked", "I0.5"),
		ElevatorLowSensor:     b.Bit("ElevatorLowSensor", "I0.6"),
		ElevatorHighSensor:    b.Bit("ElevatorHighSensor", "I0.7"),
		ElevatorHighMidSensor: b.Bit("ElevatorHighMidSensor", "I1.0"),
		ElevatorHighLowSensor: b.Bit("ElevatorHighLowSensor", "I1.1"),
		PalletDetector:        b.Bit("PalletDetector", "I1.2"),
		Automatic:             b.Bit("Automatic", "I1.3"),
		Start:                 b.Bit("Start", "I1.4"),
		Stop:                  b.Bit("Stop", "I1.5"),
		Reset:                 b.Bit("Reset", "I1.6"),

		BoxElevator:         b.Bit("BoxElevator", "Q0.0"),
		PushBox:             b.Bit("PushBox", "Q0.1"),
		HoldBox:             b.Bit("HoldBox", "Q0.2"),
		MatAdvance:          b.Bit("MatAdvance", "Q0.3"),
		BlockBox:            b.Bit("BlockBox", "Q0.4"),
		PalletsElevatorUp:   b.Bit("PalletsElevatorUp", "Q0.5"),
		PalletsElevatorDown: b.Bit("PalletsElevatorDown", "Q0.6"),
		ConveyPallets:       b.Bit("ConveyPallets", "Q0.7"),
		PowerLED:            b.Bit("PowerLED", "Q1.0"),
		ResetLED:            b.Bit("ResetLED", "Q1.1"),
		StopLED:             b.Bit("StopLED", "Q1.3"),
		Output:              b.Byte("Output", "QB0"),
	}
}
