package driver

import (
	"sync"

	"github.com/sarchlab/scanrt/memimage"
)

// MemoryDriver keeps its own copies of the input and output regions. Other
// goroutines write inputs and read outputs at any time; the runner only sees
// inputs at the start of a cycle and publishes outputs at its end.
type MemoryDriver struct {
	mu      sync.Mutex
	inputs  []byte
	outputs []byte
	commits uint64
}

// NewMemoryDriver creates a driver for an image with layout.
func NewMemoryDriver(layout memimage.Layout) *MemoryDriver {
	return &MemoryDriver{
		inputs:  make([]byte, layout.Inputs),
		outputs: make([]byte, layout.Outputs),
	}
}

// SetInput sets an input bit.
func (d *MemoryDriver) SetInput(a memimage.Addr, v bool) error {
	if err := d.check(a, memimage.Input, false); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if v {
		d.inputs[a.Byte] |= 1 << a.Bit
	} else {
		d.inputs[a.Byte] &^= 1 << a.Bit
	}

	return nil
}

// SetInputByte sets an input byte.
func (d *MemoryDriver) SetInputByte(a memimage.Addr, v byte) error {
	if err := d.check(a, memimage.Input, true); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.inputs[a.Byte] = v

	return nil
}

// Output returns a committed output bit.
func (d *MemoryDriver) Output(a memimage.Addr) (bool, error) {
	if err := d.check(a, memimage.Output, false); err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.outputs[a.Byte]&(1<<a.Bit) != 0, nil
}

// Outputs returns a copy of the committed output region.
func (d *MemoryDriver) Outputs() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]byte(nil), d.outputs...)
}

// Commits counts the cycles committed so far.
func (d *MemoryDriver) Commits() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.commits
}

// ReadInputs installs the input copy into img.
func (d *MemoryDriver) ReadInputs(img *memimage.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return img.Load(memimage.Input, d.inputs)
}

// CommitOutputs takes a copy of the output region of img.
func (d *MemoryDriver) CommitOutputs(img *memimage.Image) error {
	out := img.Region(memimage.Output)

	d.mu.Lock()
	defer d.mu.Unlock()

	copy(d.outputs, out)
	d.commits++

	return nil
}

func (d *MemoryDriver) check(a memimage.Addr, r memimage.Region, isByte bool) error {
	size := len(d.inputs)
	if r == memimage.Output {
		size = len(d.outputs)
	}

	if a.Region != r || a.IsByte() != isByte || a.Byte < 0 || a.Byte >= size {
		return &memimage.AddressError{Addr: a, Size: size}
	}

	return nil
}
