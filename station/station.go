// Package station defines the contract of a scan-cycle station: a finite
// state machine that advances at most one explicit state per cycle.
//
// A station reads its inputs, the edges of the current cycle and the
// handshake flags of other stations, then writes its outputs and its own
// flags. It never blocks; waiting is a state that re-checks its condition on
// every cycle. A state value the dispatch does not know must lead back to the
// initial state rather than stop the cycle.
package station

import (
	"fmt"

	"github.com/sarchlab/scanrt/edge"
)

// State identifies one step of a station sequence.
type State int

// Initial is the state every station starts from and returns to on reset.
const Initial State = 0

// Cycle carries what a station may consult during one scan cycle.
type Cycle struct {
	Number uint64
	Edges  *edge.Detector
}

// Rising reports the rising edge of s in this cycle.
func (c *Cycle) Rising(s edge.Signal) bool {
	return c.Edges.Rising(s)
}

// Falling reports the falling edge of s in this cycle.
func (c *Cycle) Falling(s edge.Signal) bool {
	return c.Edges.Falling(s)
}

// A Station is one cooperating state machine of a controller program.
type Station interface {
	// Name identifies the station in logs and snapshots.
	Name() string

	// State returns the current state.
	State() State

	// Step runs the logic of the current state once.
	Step(c *Cycle)

	// Reset returns to the initial state and clears all local variables.
	Reset()
}

// A Describer can name its states.
type Describer interface {
	StateName(s State) string
}

// StateName names s using st when it is a Describer.
func StateName(st Station, s State) string {
	if d, ok := st.(Describer); ok {
		if name := d.StateName(s); name != "" {
			return name
		}
	}

	return fmt.Sprintf("%d", int(s))
}

// Names is a lookup table from states to names, convenient for Describer
// implementations.
type Names map[State]string

// StateName returns the name of s, or "" when s is unknown.
func (n Names) StateName(s State) string {
	return n[s]
}

// Base holds the name and current state shared by all stations.
type Base struct {
	name  string
	state State
}

// MakeBase creates a Base in the initial state.
func MakeBase(name string) Base {
	return Base{name: name, state: Initial}
}

// Name returns the station name.
func (b *Base) Name() string {
	return b.name
}

// State returns the current state.
func (b *Base) State() State {
	return b.state
}

// Goto moves to s.
func (b *Base) Goto(s State) {
	b.state = s
}

// Recover returns to the initial state. Stations call it from the default arm
// of their dispatch.
func (b *Base) Recover() {
	b.state = Initial
}
