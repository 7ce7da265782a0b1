package picknplace

import (
	"log/slog"

	"github.com/sarchlab/scanrt/edge"
	"github.com/sarchlab/scanrt/memimage"
	"github.com/sarchlab/scanrt/mode"
	"github.com/sarchlab/scanrt/scan"
)

// Program is the assembled pick-and-place cell.
type Program struct {
	Scanner     *scan.Scanner
	Symbols     *memimage.SymbolTable
	IO          *IO
	BoxFeeder   *BoxFeeder
	PieceFeeder *PieceFeeder
	Picker      *Picker
	Supervisor  *Supervisor
}

// New binds the cell into img and builds its scanner.
func New(img *memimage.Image, logger *slog.Logger) (*Program, error) {
	symbols := memimage.NewSymbolTable()
	binder := memimage.NewBinder(img, symbols)
	io := Bind(binder)

	if err := binder.Err(); err != nil {
		return nil, err
	}

	actuators, err := img.BitArray(io.Output.Addr(), 8)
	if err != nil {
		return nil, err
	}

	edges := edge.NewDetector()
	boxes := NewBoxFeeder(&io, edges)
	pieces := NewPieceFeeder(&io)
	picker := NewPicker(&io, edges)
	supervisor := NewSupervisor(&io, boxes, pieces, picker, edges)

	ctrl := mode.MakeBuilder().
		WithStart(io.Start).
		WithStop(io.Stop).
		WithReset(io.Reset).
		WithIndicators(io.PowerLED, nil, nil).
		Build()

	scanner, err := scan.MakeBuilder().
		WithImage(img).
		WithEdges(edges).
		WithMode(ctrl).
		WithSafeOutputs(actuators...).
		WithStation(boxes).
		WithStation(pieces).
		WithStation(picker).
		WithStation(supervisor).
		WithLogger(logger).
		Build()
	if err != nil {
		return nil, err
	}

	return &Program{
		Scanner:     scanner,
		Symbols:     symbols,
		IO:          &io,
		BoxFeeder:   boxes,
		PieceFeeder: pieces,
		Picker:      picker,
		Supervisor:  supervisor,
	}, nil
}
