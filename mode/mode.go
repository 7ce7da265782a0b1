// Package mode decides, once per cycle, whether station logic may run.
//
// All inputs are level-sensitive. Start latches Running. A released stop
// button (stop circuits are normally closed), an asserted Reset or a released
// Enable switch forces Stopped on the same cycle, whatever any station was
// doing. In-flight motions are not completed: that is the fail-safe contract
// of the controller.
package mode

import "github.com/sarchlab/scanrt/edge"

// Mode is Stopped or Running.
type Mode int

// The two modes.
const (
	Stopped Mode = iota
	Running
)

func (m Mode) String() string {
	if m == Running {
		return "Running"
	}

	return "Stopped"
}

// Decision is the outcome of one evaluation.
type Decision struct {
	Mode  Mode
	Reset bool
}

// Running is a shorthand for d.Mode == Running.
func (d Decision) Running() bool {
	return d.Mode == Running
}

// Lamp is an indicator output.
type Lamp interface {
	Set(v bool)
}

// Controller derives the mode from its inputs.
type Controller struct {
	start, stop, reset, enable edge.Signal
	powerLamp, stopLamp        Lamp
	resetLamp                  Lamp

	mode Mode
}

// Builder configures a Controller.
type Builder struct {
	start, stop, reset, enable edge.Signal
	powerLamp, stopLamp        Lamp
	resetLamp                  Lamp
}

// MakeBuilder creates a builder without inputs.
func MakeBuilder() Builder {
	return Builder{}
}

// WithStart sets the start input.
func (b Builder) WithStart(s edge.Signal) Builder {
	b.start = s
	return b
}

// WithStop sets the normally-closed stop input.
func (b Builder) WithStop(s edge.Signal) Builder {
	b.stop = s
	return b
}

// WithReset sets the reset input.
func (b Builder) WithReset(s edge.Signal) Builder {
	b.reset = s
	return b
}

// WithEnable sets a selector that must stay asserted for Running, such as an
// automatic/manual switch.
func (b Builder) WithEnable(s edge.Signal) Builder {
	b.enable = s
	return b
}

// WithIndicators sets the lamps driven from the mode. Any may be nil.
func (b Builder) WithIndicators(power, stop, reset Lamp) Builder {
	b.powerLamp = power
	b.stopLamp = stop
	b.resetLamp = reset

	return b
}

// Build creates the controller in the Stopped mode.
func (b Builder) Build() *Controller {
	return &Controller{
		start:     b.start,
		stop:      b.stop,
		reset:     b.reset,
		enable:    b.enable,
		powerLamp: b.powerLamp,
		stopLamp:  b.stopLamp,
		resetLamp: b.resetLamp,
		mode:      Stopped,
	}
}

// Mode returns the mode decided by the last evaluation.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Evaluate samples the inputs and decides the mode of this cycle.
func (c *Controller) Evaluate() Decision {
	if c.start == nil || c.start.Value() {
		c.mode = Running
	}

	reset := c.reset != nil && c.reset.Value()

	if reset ||
		(c.stop != nil && !c.stop.Value()) ||
		(c.enable != nil && !c.enable.Value()) {
		c.mode = Stopped
	}

	c.driveLamps(reset)

	return Decision{Mode: c.mode, Reset: reset}
}

// ForceStop drops to Stopped until Start is seen again.
func (c *Controller) ForceStop() {
	c.mode = Stopped
}

func (c *Controller) driveLamps(reset bool) {
	if c.powerLamp != nil {
		c.powerLamp.Set(c.mode == Running)
	}

	if c.stopLamp != nil {
		c.stopLamp.Set(c.mode == Stopped)
	}

	if c.resetLamp != nil {
		c.resetLamp.Set(reset)
	}
}
