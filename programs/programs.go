// Package programs is the catalogue of controller programs built into scanrt.
package programs

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/sarchlab/scanrt/memimage"
	"github.com/sarchlab/scanrt/palletizer"
	"github.com/sarchlab/scanrt/picknplace"
	"github.com/sarchlab/scanrt/queue"
	"github.com/sarchlab/scanrt/scan"
	"github.com/sarchlab/scanrt/warehouse"
)

// ErrUnknownProgram means no program is registered under the name.
var ErrUnknownProgram = errors.New("unknown program")

// Program is a built program, stripped to what runners and observers need.
type Program struct {
	Name    string
	Scanner *scan.Scanner
	Symbols *memimage.SymbolTable
	Queues  []*queue.Queue
}

// A Factory binds a program into an image.
type Factory func(img *memimage.Image, logger *slog.Logger) (*Program, error)

type entry struct {
	description string
	factory     Factory
}

var registry = map[string]entry{
	"palletizer": {
		description: "box palletizer stacking three layers of two boxes",
		factory: func(img *memimage.Image, logger *slog.Logger) (*Program, error) {
			p, err := palletizer.New(img, logger)
			if err != nil {
				return nil, err
			}

			return &Program{Scanner: p.Scanner, Symbols: p.Symbols}, nil
		},
	},
	"picknplace": {
		description: "pick-and-place cell filling 3x3 boxes",
		factory: func(img *memimage.Image, logger *slog.Logger) (*Program, error) {
			p, err := picknplace.New(img, logger)
			if err != nil {
				return nil, err
			}

			return &Program{Scanner: p.Scanner, Symbols: p.Symbols}, nil
		},
	},
	"warehouse": {
		description: "rack transfer cart serving a queue of jobs",
		factory: func(img *memimage.Image, logger *slog.Logger) (*Program, error) {
			p, err := warehouse.New(img, logger)
			if err != nil {
				return nil, err
			}

			return &Program{
				Scanner: p.Scanner,
				Symbols: p.Symbols,
				Queues:  []*queue.Queue{p.Jobs},
			}, nil
		},
	},
}

// Names lists the registered programs in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Description returns the one-line description of a program.
func Description(name string) string {
	return registry[name].description
}

// Build binds the named program into img.
func Build(name string, img *memimage.Image, logger *slog.Logger) (*Program, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProgram, name)
	}

	p, err := e.factory(img, logger)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", name, err)
	}

	p.Name = name

	return p, nil
}

// Queue returns the queue of p with the given name.
func (p *Program) Queue(name string) (*queue.Queue, bool) {
	for _, q := range p.Queues {
		if q.Name() == name {
			return q, true
		}
	}

	return nil, false
}
