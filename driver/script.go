// Package driver provides I/O drivers that feed a scan runner without real
// hardware: a scripted driver replaying input changes at given cycles and an
// in-memory driver other goroutines can poke.
package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/scanrt/memimage"
)

// ErrScript reports an unusable script.
var ErrScript = errors.New("invalid script")

// A Step changes inputs when the runner reaches a cycle. Keys are addresses
// (I0.3, IB1) or symbol names; bits take booleans and bytes take integers.
// Values stay until a later step changes them.
type Step struct {
	Cycle uint64         `yaml:"cycle"`
	Set   map[string]any `yaml:"set"`
}

// Script is a list of steps.
type Script struct {
	Steps []Step
}

// ParseScript decodes a YAML script, a sequence of steps.
func ParseScript(r io.Reader) (*Script, error) {
	s := &Script{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&s.Steps); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrScript, err)
	}

	return s, nil
}

// ReadScriptFile decodes the YAML script at path.
func ReadScriptFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseScript(f)
}

type write struct {
	addr memimage.Addr
	bit  bool
	val  byte
}

type compiledStep struct {
	cycle  uint64
	writes []write
}

// TraceEntry is the output region committed at the end of a cycle.
type TraceEntry struct {
	Cycle   uint64
	Outputs []byte
}

// ScriptDriver replays a script. It counts the cycles itself: the first
// ReadInputs is cycle 1.
type ScriptDriver struct {
	steps []compiledStep
	next  int
	cycle uint64
	trace []TraceEntry
}

// NewScriptDriver checks every step of s against symbols, which may be nil
// when the script only uses addresses.
func NewScriptDriver(s *Script, symbols *memimage.SymbolTable) (*ScriptDriver, error) {
	d := &ScriptDriver{}

	for i, st := range s.Steps {
		cs := compiledStep{cycle: st.Cycle}

		keys := make([]string, 0, len(st.Set))
		for k := range st.Set {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			w, err := compileWrite(k, st.Set[k], symbols)
			if err != nil {
				return nil, fmt.Errorf("%w: step %d: %s: %w", ErrScript, i, k, err)
			}

			cs.writes = append(cs.writes, w)
		}

		d.steps = append(d.steps, cs)
	}

	sort.SliceStable(d.steps, func(i, j int) bool {
		return d.steps[i].cycle < d.steps[j].cycle
	})

	return d, nil
}

func compileWrite(key string, value any, symbols *memimage.SymbolTable) (write, error) {
	a, err := resolve(key, symbols)
	if err != nil {
		return write{}, err
	}

	if a.Region != memimage.Input {
		return write{}, errors.New("not an input")
	}

	w := write{addr: a}

	if !a.IsByte() {
		b, ok := value.(bool)
		if !ok {
			return write{}, fmt.Errorf("bit needs a boolean, got %v", value)
		}

		w.bit = b

		return w, nil
	}

	n, ok := value.(int)
	if !ok || n < 0 || n > 0xFF {
		return write{}, fmt.Errorf("byte needs an integer in 0..255, got %v", value)
	}

	w.val = byte(n)

	return w, nil
}

func resolve(key string, symbols *memimage.SymbolTable) (memimage.Addr, error) {
	if symbols != nil {
		if a, ok := symbols.Lookup(key); ok {
			return a, nil
		}
	}

	return memimage.ParseAddr(key)
}

// ReadInputs applies the steps due at the coming cycle.
func (d *ScriptDriver) ReadInputs(img *memimage.Image) error {
	d.cycle++

	for d.next < len(d.steps) && d.steps[d.next].cycle <= d.cycle {
		for _, w := range d.steps[d.next].writes {
			var err error
			if w.addr.IsByte() {
				err = img.WriteByte(w.addr, w.val)
			} else {
				err = img.WriteBit(w.addr, w.bit)
			}

			if err != nil {
				return err
			}
		}

		d.next++
	}

	return nil
}

// CommitOutputs appends the output region to the trace.
func (d *ScriptDriver) CommitOutputs(img *memimage.Image) error {
	d.trace = append(d.trace, TraceEntry{
		Cycle:   d.cycle,
		Outputs: img.Region(memimage.Output),
	})

	return nil
}

// Done tells whether every step has been applied.
func (d *ScriptDriver) Done() bool {
	return d.next == len(d.steps)
}

// LastCycle returns the cycle of the last step, or 0 for an empty script.
func (d *ScriptDriver) LastCycle() uint64 {
	if len(d.steps) == 0 {
		return 0
	}

	return d.steps[len(d.steps)-1].cycle
}

// Trace returns the committed outputs, one entry per cycle.
func (d *ScriptDriver) Trace() []TraceEntry {
	return d.trace
}
