package memimage

import "fmt"

// Layout gives the size in bytes of each region.
type Layout struct {
	Inputs  int `yaml:"inputs"`
	Outputs int `yaml:"outputs"`
	Markers int `yaml:"markers"`
}

// DefaultLayout is large enough for every built-in program.
var DefaultLayout = Layout{Inputs: 16, Outputs: 16, Markers: 256}

// Image is the memory arena of one controller.
type Image struct {
	regions [3][]byte
}

// New allocates an image with the given layout.
func New(layout Layout) (*Image, error) {
	sizes := [3]int{layout.Inputs, layout.Outputs, layout.Markers}
	img := &Image{}

	for r, size := range sizes {
		if size <= 0 {
			return nil, fmt.Errorf("%w: region %v size %d", ErrLayout, Region(r), size)
		}

		img.regions[r] = make([]byte, size)
	}

	return img, nil
}

// Size returns the number of bytes in a region.
func (img *Image) Size(r Region) int {
	if r < Input || r > Marker {
		return 0
	}

	return len(img.regions[r])
}

// Check validates an address against the layout.
func (img *Image) Check(a Addr) error {
	size := img.Size(a.Region)
	if a.Byte < 0 || a.Byte >= size || a.Bit > 7 {
		return &AddressError{Addr: a, Size: size}
	}

	return nil
}

// ReadBit returns the bit at a.
func (img *Image) ReadBit(a Addr) (bool, error) {
	if err := img.checkBit(a); err != nil {
		return false, err
	}

	return img.regions[a.Region][a.Byte]&(1<<a.Bit) != 0, nil
}

// WriteBit sets or clears the bit at a.
func (img *Image) WriteBit(a Addr, v bool) error {
	if err := img.checkBit(a); err != nil {
		return err
	}

	img.writeBit(a, v)

	return nil
}

// ReadByte returns the byte at a. The bit part of a, if any, is ignored.
func (img *Image) ReadByte(a Addr) (byte, error) {
	if err := img.Check(a); err != nil {
		return 0, err
	}

	return img.regions[a.Region][a.Byte], nil
}

// WriteByte stores v at a. The bit part of a, if any, is ignored.
func (img *Image) WriteByte(a Addr, v byte) error {
	if err := img.Check(a); err != nil {
		return err
	}

	img.regions[a.Region][a.Byte] = v

	return nil
}

// Region returns a copy of a whole region.
func (img *Image) Region(r Region) []byte {
	return append([]byte(nil), img.regions[r]...)
}

// Load overwrites the start of a region with data. It is how an I/O driver
// installs the input snapshot before a cycle.
func (img *Image) Load(r Region, data []byte) error {
	if len(data) > img.Size(r) {
		return &AddressError{Addr: ByteAddr(r, len(data)-1), Size: img.Size(r)}
	}

	copy(img.regions[r], data)

	return nil
}

// ClearRegion zeroes a region.
func (img *Image) ClearRegion(r Region) {
	clear(img.regions[r])
}

func (img *Image) checkBit(a Addr) error {
	if a.IsByte() {
		return &AddressError{Addr: a, Size: img.Size(a.Region)}
	}

	return img.Check(a)
}

func (img *Image) writeBit(a Addr, v bool) {
	if v {
		img.regions[a.Region][a.Byte] |= 1 << a.Bit
	} else {
		img.regions[a.Region][a.Byte] &^= 1 << a.Bit
	}
}
