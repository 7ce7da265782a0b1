package warehouse

import (
	"log/slog"

	"github.com/sarchlab/scanrt/edge"
	"github.com/sarchlab/scanrt/hooking"
	"github.com/sarchlab/scanrt/memimage"
	"github.com/sarchlab/scanrt/mode"
	"github.com/sarchlab/scanrt/queue"
	"github.com/sarchlab/scanrt/scan"
)

// Program is the assembled transfer cart.
type Program struct {
	Scanner *scan.Scanner
	Symbols *memimage.SymbolTable
	IO      *IO
	Jobs    *queue.Queue
	Cart    *Supervisor
	Sync    *Sync
	HMI     *HMIMirror
}

// New binds the cart into img and builds its scanner. The cart only runs
// while the automatic switch is on; there is no start, stop or reset input.
func New(img *memimage.Image, logger *slog.Logger) (*Program, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	symbols := memimage.NewSymbolTable()
	binder := memimage.NewBinder(img, symbols)
	io := Bind(binder)

	if err := binder.Err(); err != nil {
		return nil, err
	}

	jobs, err := queue.New("jobs", QueueCapacity, Positions)
	if err != nil {
		return nil, err
	}
	jobs.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
		if ctx.Pos != queue.HookPosQueueDrop {
			return
		}

		logger.Warn("job dropped",
			"queue", jobs.Name(),
			"job", ctx.Item,
			"reason", ctx.Detail)
	}))

	edges := edge.NewDetector()
	cart := NewSupervisor(&io, jobs, edges)
	sync := NewSync(&io, cart, edges)
	hmi := NewHMIMirror(&io, jobs)

	ctrl := mode.MakeBuilder().
		WithEnable(io.Automatic).
		Build()

	scanner, err := scan.MakeBuilder().
		WithImage(img).
		WithEdges(edges).
		WithMode(ctrl).
		WithSafeOutputs(io.ForkIn, io.ForkOut).
		WithStation(sync).
		WithStation(cart).
		WithHousekeeper(hmi).
		WithResettable(jobs).
		WithLogger(logger).
		Build()
	if err != nil {
		return nil, err
	}

	scanner.AcceptHook(hmi)

	return &Program{
		Scanner: scanner,
		Symbols: symbols,
		IO:      &io,
		Jobs:    jobs,
		Cart:    cart,
		Sync:    sync,
		HMI:     hmi,
	}, nil
}
