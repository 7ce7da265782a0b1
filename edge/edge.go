// Package edge derives one-cycle rising and falling pulses from boolean
// signals.
//
// Each monitored signal owns a shadow holding its value from the previous
// cycle. Refresh latches the current values at the start of a cycle; Rising
// and Falling compare the latch with the shadow; UpdateShadows advances the
// shadows once all station logic of the cycle has run.
package edge

import "fmt"

// Signal is anything that can be sampled as a boolean once per cycle.
type Signal interface {
	Value() bool
}

// Expr names a boolean expression over other signals, such as a start
// request that may come from either a panel button or the HMI.
type Expr struct {
	name string
	fn   func() bool
}

// NewExpr creates a named expression signal.
func NewExpr(name string, fn func() bool) *Expr {
	return &Expr{name: name, fn: fn}
}

// Name returns the expression name.
func (e *Expr) Name() string {
	return e.name
}

// Value evaluates the expression.
func (e *Expr) Value() bool {
	return e.fn()
}

// Any builds an expression that is true while any of the signals is.
func Any(name string, signals ...Signal) *Expr {
	return NewExpr(name, func() bool {
		for _, s := range signals {
			if s.Value() {
				return true
			}
		}

		return false
	})
}

type shadow struct {
	current  bool
	previous bool
}

// Detector tracks the shadows of all monitored signals.
type Detector struct {
	signals []Signal
	shadows map[Signal]*shadow
}

// NewDetector creates a detector without monitored signals.
func NewDetector() *Detector {
	return &Detector{shadows: make(map[Signal]*shadow)}
}

// Monitor registers signals. Monitoring a signal twice is harmless.
func (d *Detector) Monitor(signals ...Signal) {
	for _, s := range signals {
		if _, ok := d.shadows[s]; ok {
			continue
		}

		d.signals = append(d.signals, s)
		d.shadows[s] = &shadow{}
	}
}

// Monitored tells whether s has a shadow.
func (d *Detector) Monitored(s Signal) bool {
	_, ok := d.shadows[s]
	return ok
}

// Refresh latches the current value of every monitored signal. Shadows are
// left untouched.
func (d *Detector) Refresh() {
	for _, s := range d.signals {
		d.shadows[s].current = s.Value()
	}
}

// UpdateShadows copies the latched current values into the shadows.
func (d *Detector) UpdateShadows() {
	for _, s := range d.signals {
		sh := d.shadows[s]
		sh.previous = sh.current
	}
}

// Rising is true during the cycle in which s went from false to true.
func (d *Detector) Rising(s Signal) bool {
	sh := d.mustFind(s)
	return !sh.previous && sh.current
}

// Falling is true during the cycle in which s went from true to false.
func (d *Detector) Falling(s Signal) bool {
	sh := d.mustFind(s)
	return sh.previous && !sh.current
}

// Current returns the value latched by the last Refresh.
func (d *Detector) Current(s Signal) bool {
	return d.mustFind(s).current
}

// Previous returns the shadow of s.
func (d *Detector) Previous(s Signal) bool {
	return d.mustFind(s).previous
}

// Reset clears every shadow and latch.
func (d *Detector) Reset() {
	for _, sh := range d.shadows {
		*sh = shadow{}
	}
}

func (d *Detector) mustFind(s Signal) *shadow {
	sh, ok := d.shadows[s]
	if !ok {
		panic(fmt.Sprintf("edge: signal %v is not monitored", s))
	}

	return sh
}
