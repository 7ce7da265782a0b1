package memimage

import "fmt"

// Binder declares symbols and binds handles in one go, the way a program's
// declaration block reads. It keeps the first error and returns zero handles
// after it, so a whole block can be written without checking every line.
type Binder struct {
	img   *Image
	table *SymbolTable
	err   error
}

// NewBinder binds into img and declares into table.
func NewBinder(img *Image, table *SymbolTable) *Binder {
	return &Binder{img: img, table: table}
}

// Bit declares name at text and returns the bit handle.
func (b *Binder) Bit(name, text string) Bit {
	a, ok := b.declare(name, text)
	if !ok {
		return Bit{}
	}

	bit, err := b.img.Bit(a)
	b.fail(name, err)

	return bit
}

// Byte declares name at text and returns the byte handle.
func (b *Binder) Byte(name, text string) Byte {
	a, ok := b.declare(name, text)
	if !ok {
		return Byte{}
	}

	reg, err := b.img.Byte(a)
	b.fail(name, err)

	return reg
}

// BitArray declares name at the base address text and binds n bits.
func (b *Binder) BitArray(name, text string, n int) BitArray {
	a, ok := b.declare(name, text)
	if !ok {
		return nil
	}

	bits, err := b.img.BitArray(a, n)
	b.fail(name, err)

	return bits
}

// ByteArray declares name at the base address text and binds n bytes.
func (b *Binder) ByteArray(name, text string, n int) ByteArray {
	a, ok := b.declare(name, text)
	if !ok {
		return nil
	}

	regs, err := b.img.ByteArray(a, n)
	b.fail(name, err)

	return regs
}

// Err returns the first error met.
func (b *Binder) Err() error {
	return b.err
}

func (b *Binder) declare(name, text string) (Addr, bool) {
	if b.err != nil {
		return Addr{}, false
	}

	if err := b.table.DeclareText(name, text); err != nil {
		b.err = err
		return Addr{}, false
	}

	return b.table.MustLookup(name), true
}

func (b *Binder) fail(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("%s: %w", name, err)
	}
}
