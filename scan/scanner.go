// Package scan runs controller programs in scan cycles.
//
// One cycle refreshes the edge detector, lets the mode controller decide
// whether logic may run, forces every declared actuator output to its safe
// value, steps each station once in registration order and finally advances
// the edge shadows. Everything happens on the calling goroutine; a station
// sees the flags written by stations before it in the same cycle and those of
// stations after it only on the next cycle.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/scanrt/edge"
	"github.com/sarchlab/scanrt/hooking"
	"github.com/sarchlab/scanrt/memimage"
	"github.com/sarchlab/scanrt/mode"
	"github.com/sarchlab/scanrt/station"
)

// HookPosCycleStart fires before anything else in a cycle.
var HookPosCycleStart = &hooking.HookPos{Name: "Cycle Start"}

// HookPosCycleEnd fires after the last step of a cycle. Item is the
// mode.Decision of the cycle.
var HookPosCycleEnd = &hooking.HookPos{Name: "Cycle End"}

// HookPosTransition fires when a station leaves a state. Item is the station,
// Detail a Transition.
var HookPosTransition = &hooking.HookPos{Name: "Transition"}

// HookPosModeChange fires when the mode differs from the previous cycle. Item
// is the mode.Decision.
var HookPosModeChange = &hooking.HookPos{Name: "Mode Change"}

// HookPosReset fires when a reset has been propagated to all stations.
var HookPosReset = &hooking.HookPos{Name: "Reset"}

var (
	// ErrNoImage means the scanner was built without a memory image.
	ErrNoImage = errors.New("scan: no memory image")

	// ErrNoMode means the scanner was built without a mode controller.
	ErrNoMode = errors.New("scan: no mode controller")

	// ErrDuplicateStation means two stations share a name.
	ErrDuplicateStation = errors.New("scan: duplicated station name")
)

// Transition describes a state change of a station.
type Transition struct {
	From station.State
	To   station.State
}

// A Housekeeper runs at the start of every cycle, whatever the mode. Display
// mirrors are housekeepers; station logic never is.
type Housekeeper interface {
	Housekeep(cycle uint64)
}

// HousekeeperFunc adapts a function to Housekeeper.
type HousekeeperFunc func(cycle uint64)

// Housekeep calls f(cycle).
func (f HousekeeperFunc) Housekeep(cycle uint64) {
	f(cycle)
}

// A Resettable is supervisory state outside the stations that a reset must
// also clear.
type Resettable interface {
	Reset()
}

// Scanner is the orchestrator of one controller program.
type Scanner struct {
	hooking.HookableBase

	image        *memimage.Image
	edges        *edge.Detector
	mode         *mode.Controller
	safeOutputs  []memimage.Bit
	stations     []station.Station
	housekeepers []Housekeeper
	resettables  []Resettable
	logger       *slog.Logger

	cycle    station.Cycle
	lastMode mode.Mode
}

// Builder configures a Scanner.
type Builder struct {
	image        *memimage.Image
	edges        *edge.Detector
	mode         *mode.Controller
	safeOutputs  []memimage.Bit
	stations     []station.Station
	housekeepers []Housekeeper
	resettables  []Resettable
	logger       *slog.Logger
}

// MakeBuilder creates an empty builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithImage sets the memory image.
func (b Builder) WithImage(img *memimage.Image) Builder {
	b.image = img
	return b
}

// WithEdges sets the edge detector the stations monitor their signals on.
func (b Builder) WithEdges(d *edge.Detector) Builder {
	b.edges = d
	return b
}

// WithMode sets the mode controller.
func (b Builder) WithMode(c *mode.Controller) Builder {
	b.mode = c
	return b
}

// WithSafeOutputs declares actuator outputs that are off unless a station
// asserts them in the current cycle.
func (b Builder) WithSafeOutputs(bits ...memimage.Bit) Builder {
	b.safeOutputs = append(append([]memimage.Bit(nil), b.safeOutputs...), bits...)
	return b
}

// WithStation appends a station. Stations step in the order they are added.
func (b Builder) WithStation(s station.Station) Builder {
	b.stations = append(append([]station.Station(nil), b.stations...), s)
	return b
}

// WithHousekeeper appends a housekeeper.
func (b Builder) WithHousekeeper(h Housekeeper) Builder {
	b.housekeepers = append(append([]Housekeeper(nil), b.housekeepers...), h)
	return b
}

// WithResettable adds supervisory state to clear on reset.
func (b Builder) WithResettable(r Resettable) Builder {
	b.resettables = append(append([]Resettable(nil), b.resettables...), r)
	return b
}

// WithLogger sets the logger. The default discards everything.
func (b Builder) WithLogger(l *slog.Logger) Builder {
	b.logger = l
	return b
}

// Build validates the configuration and creates the scanner.
func (b Builder) Build() (*Scanner, error) {
	if b.image == nil {
		return nil, ErrNoImage
	}

	if b.mode == nil {
		return nil, ErrNoMode
	}

	seen := make(map[string]bool)
	for _, st := range b.stations {
		if seen[st.Name()] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStation, st.Name())
		}

		seen[st.Name()] = true
	}

	s := &Scanner{
		image:        b.image,
		edges:        b.edges,
		mode:         b.mode,
		safeOutputs:  b.safeOutputs,
		stations:     b.stations,
		housekeepers: b.housekeepers,
		resettables:  b.resettables,
		logger:       b.logger,
		lastMode:     mode.Stopped,
	}

	if s.edges == nil {
		s.edges = edge.NewDetector()
	}

	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	s.cycle.Edges = s.edges

	return s, nil
}

// Scan runs one cycle.
func (s *Scanner) Scan() {
	s.cycle.Number++
	s.invoke(HookPosCycleStart, nil, nil)

	s.edges.Refresh()

	for _, h := range s.housekeepers {
		h.Housekeep(s.cycle.Number)
	}

	decision := s.mode.Evaluate()
	s.noteMode(decision)

	if decision.Reset {
		s.reset()
	}

	s.applySafeState()

	if decision.Running() {
		s.stepStations()
		s.edges.UpdateShadows()
	}

	s.invoke(HookPosCycleEnd, decision, nil)
}

// ForceSafeState stops the program and turns every safe output off. The
// runner calls it when the I/O driver fails.
func (s *Scanner) ForceSafeState() {
	s.mode.ForceStop()
	s.applySafeState()
}

func (s *Scanner) noteMode(d mode.Decision) {
	if d.Mode == s.lastMode {
		return
	}

	s.logger.Info("mode changed",
		"cycle", s.cycle.Number,
		"from", s.lastMode.String(),
		"to", d.Mode.String())
	s.lastMode = d.Mode
	s.invoke(HookPosModeChange, d, nil)
}

func (s *Scanner) reset() {
	for _, st := range s.stations {
		st.Reset()
	}

	for _, r := range s.resettables {
		r.Reset()
	}

	s.logger.Debug("reset propagated", "cycle", s.cycle.Number)
	s.invoke(HookPosReset, nil, nil)
}

func (s *Scanner) applySafeState() {
	for _, out := range s.safeOutputs {
		out.Set(false)
	}
}

func (s *Scanner) stepStations() {
	for _, st := range s.stations {
		from := st.State()
		st.Step(&s.cycle)
		to := st.State()

		if from == to {
			continue
		}

		if s.logger.Enabled(context.Background(), slog.LevelDebug) {
			s.logger.Debug("transition",
				"cycle", s.cycle.Number,
				"station", st.Name(),
				"from", station.StateName(st, from),
				"to", station.StateName(st, to))
		}

		s.invoke(HookPosTransition, st, Transition{From: from, To: to})
	}
}

func (s *Scanner) invoke(pos *hooking.HookPos, item, detail any) {
	if s.NumHooks() == 0 {
		return
	}

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    pos,
		Cycle:  s.cycle.Number,
		Item:   item,
		Detail: detail,
	})
}

// Cycle returns the number of the last cycle run.
func (s *Scanner) Cycle() uint64 {
	return s.cycle.Number
}

// Mode returns the mode decided in the last cycle.
func (s *Scanner) Mode() mode.Mode {
	return s.mode.Mode()
}

// Image returns the memory image.
func (s *Scanner) Image() *memimage.Image {
	return s.image
}

// Edges returns the edge detector.
func (s *Scanner) Edges() *edge.Detector {
	return s.edges
}

// Stations returns the stations in step order.
func (s *Scanner) Stations() []station.Station {
	return s.stations
}

// Station finds a station by name.
func (s *Scanner) Station(name string) (station.Station, bool) {
	for _, st := range s.stations {
		if st.Name() == name {
			return st, true
		}
	}

	return nil, false
}
