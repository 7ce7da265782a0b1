package palletizer

import (
	"log/slog"

	"github.com/sarchlab/scanrt/edge"
	"github.com/sarchlab/scanrt/memimage"
	"github.com/sarchlab/scanrt/mode"
	"github.com/sarchlab/scanrt/scan"
)

// Program is the assembled palletizer.
type Program struct {
	Scanner *scan.Scanner
	Symbols *memimage.SymbolTable
	IO      *IO
	Feeder  *Feeder
	Lift    *Lift
}

// New binds the palletizer into img and builds its scanner. The feeder steps
// before the lift, so the lift's rearm reaches the feeder one cycle later.
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
	feeder := NewFeeder(&io, edges)
	lift := NewLift(&io, feeder, edges)

	ctrl := mode.MakeBuilder().
		WithStart(io.Start).
		WithStop(io.Stop).
		WithReset(io.Reset).
		WithIndicators(io.PowerLED, io.StopLED, io.ResetLED).
		Build()

	scanner, err := scan.MakeBuilder().
		WithImage(img).
		WithEdges(edges).
		WithMode(ctrl).
		WithSafeOutputs(actuators...).
		WithStation(feeder).
		WithStation(lift).
		WithLogger(logger).
		Build()
	if err != nil {
		return nil, err
	}

	return &Program{
		Scanner: scanner,
		Symbols: symbols,
		IO:      &io,
		Feeder:  feeder,
		Lift:    lift,
	}, nil
}
