// Package picknplace is the pick-and-place cell: a piece feeder brings
// pieces, a box feeder brings boxes, and a magnetic picker moves each piece to
// the next slot of a 3x3 box following a fixed demand pattern.
package picknplace

import "github.com/sarchlab/scanrt/memimage"

// IO holds the bound signals of the cell.
type IO struct {
	Input  memimage.Byte
	Output memimage.Byte

	BoxReady      memimage.Bit
	BoxesConveyer memimage.Bit

	PieceTypeL     memimage.Bit
	PieceTypeH     memimage.Bit
	PieceReady     memimage.Bit
	PiecesConveyer memimage.Bit

	PickerAtZero memimage.Bit
	PickerMoving memimage.Bit
	PickerTop    memimage.Bit
	PickerBottom memimage.Bit
	PickerGrip   memimage.Bit
	PickerDown   memimage.Bit
	PickerUp     memimage.Bit
	PickerLeft   memimage.Bit
	PickerRight  memimage.Bit
	PickerPick   memimage.Bit
	PickerMagnet memimage.Bit

	Start    memimage.Bit
	Stop     memimage.Bit
	Reset    memimage.Bit
	PowerLED memimage.Bit
}

// Bind declares the cell signals.
func Bind(b *memimage.Binder) IO {
	return IO{
		Input:  b.Byte("Input", "IB0"),
		Output: b.Byte("Output", "QB0"),

		BoxReady:      b.Bit("BoxReady", "I0.3"),
		BoxesConveyer: b.Bit("BoxesConveyer", "Q0.1"),

		PieceTypeL:     b.Bit("PieceTypeL", "I0.0"),
		PieceTypeH:     b.Bit("PieceTypeH", "I0.1"),
		PieceReady:     b.Bit("PieceReady", "I0.2"),
		PiecesConveyer: b.Bit("PiecesConveyer", "Q0.0"),

		PickerAtZero: b.Bit("PickerAtZero", "I0.4"),
		PickerMoving: b.Bit("PickerMoving", "I0.5"),
		PickerTop:    b.Bit("PickerTop", "I0.6"),
		PickerBottom: b.Bit("PickerBottom", "I0.7"),
		PickerGrip:   b.Bit("PickerGrip", "I1.0"),
		PickerDown:   b.Bit("PickerDown", "Q0.2"),
		PickerUp:     b.Bit("PickerUp", "Q0.3"),
		PickerLeft:   b.Bit("PickerLeft", "Q0.4"),
		PickerRight:  b.Bit("PickerRight", "Q0.5"),
		PickerPick:   b.Bit("PickerPick", "Q0.6"),
		PickerMagnet: b.Bit("PickerMagnet", "Q0.7"),

		Start:    b.Bit("Start", "I1.4"),
		Stop:     b.Bit("Stop", "I1.5"),
		Reset:    b.Bit("Reset", "I1.6"),
		PowerLED: b.Bit("PowerLED", "Q1.0"),
	}
}
