package memimage

// Bit is a validated handle on one bit of an image. It never fails once
// created.
type Bit struct {
	img  *Image
	addr Addr
}

// Bit validates a and returns a handle on it.
func (img *Image) Bit(a Addr) (Bit, error) {
	if err := img.checkBit(a); err != nil {
		return Bit{}, err
	}

	return Bit{img: img, addr: a}, nil
}

// MustBit is Bit for addresses fixed at initialisation. A bad address is a
// configuration fault and panics.
func (img *Image) MustBit(a Addr) Bit {
	b, err := img.Bit(a)
	if err != nil {
		panic(err)
	}

	return b
}

// Addr returns the bound address.
func (b Bit) Addr() Addr {
	return b.addr
}

// Value reads the bit.
func (b Bit) Value() bool {
	return b.img.regions[b.addr.Region][b.addr.Byte]&(1<<b.addr.Bit) != 0
}

// Set writes the bit.
func (b Bit) Set(v bool) {
	b.img.writeBit(b.addr, v)
}

// Byte is a validated handle on one byte register.
type Byte struct {
	img  *Image
	addr Addr
}

// Byte validates a and returns a handle on the byte it names.
func (img *Image) Byte(a Addr) (Byte, error) {
	if err := img.Check(a); err != nil {
		return Byte{}, err
	}

	return Byte{img: img, addr: ByteAddr(a.Region, a.Byte)}, nil
}

// MustByte is Byte for addresses fixed at initialisation.
func (img *Image) MustByte(a Addr) Byte {
	b, err := img.Byte(a)
	if err != nil {
		panic(err)
	}

	return b
}

// Addr returns the bound address.
func (b Byte) Addr() Addr {
	return b.addr
}

// Value reads the register.
func (b Byte) Value() byte {
	return b.img.regions[b.addr.Region][b.addr.Byte]
}

// Set writes the register.
func (b Byte) Set(v byte) {
	b.img.regions[b.addr.Region][b.addr.Byte] = v
}

// BitArray is a run of consecutive bits starting at a base bit.
type BitArray []Bit

// BitArray binds n consecutive bits starting at base.
func (img *Image) BitArray(base Addr, n int) (BitArray, error) {
	bits := make(BitArray, n)
	for i := range bits {
		b, err := img.Bit(base.Offset(i))
		if err != nil {
			return nil, err
		}

		bits[i] = b
	}

	return bits, nil
}

// ByteArray is a run of consecutive byte registers.
type ByteArray []Byte

// ByteArray binds n consecutive bytes starting at base.
func (img *Image) ByteArray(base Addr, n int) (ByteArray, error) {
	regs := make(ByteArray, n)
	for i := range regs {
		b, err := img.Byte(ByteAddr(base.Region, base.Byte+i))
		if err != nil {
			return nil, err
		}

		regs[i] = b
	}

	return regs, nil
}
