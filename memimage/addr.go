package memimage

import (
	"fmt"
	"strconv"
	"strings"
)

// Region selects one of the three memory areas.
type Region int

// The memory regions.
const (
	Input Region = iota
	Output
	Marker
)

var regionLetters = map[Region]string{
	Input:  "I",
	Output: "Q",
	Marker: "M",
}

func (r Region) String() string {
	if s, ok := regionLetters[r]; ok {
		return s
	}

	return fmt.Sprintf("Region(%d)", int(r))
}

// ParseRegion converts "I", "Q" or "M" to a Region.
func ParseRegion(s string) (Region, error) {
	for r, letter := range regionLetters {
		if strings.EqualFold(s, letter) {
			return r, nil
		}
	}

	return 0, fmt.Errorf("%w: region %q", ErrSyntax, s)
}

// Addr is a resolved address. Bit is -1 for byte addresses.
type Addr struct {
	Region Region
	Byte   int
	Bit    int
}

// BitAddr builds the address of a single bit.
func BitAddr(r Region, byteIndex, bitIndex int) Addr {
	return Addr{Region: r, Byte: byteIndex, Bit: bitIndex}
}

// ByteAddr builds the address of a byte register.
func ByteAddr(r Region, byteIndex int) Addr {
	return Addr{Region: r, Byte: byteIndex, Bit: -1}
}

// IsByte tells whether the address names a whole byte.
func (a Addr) IsByte() bool {
	return a.Bit < 0
}

// Offset returns the address n bits after a. Bit arrays bind index 0 at the
// base bit and wrap into the next byte every 8 indices.
func (a Addr) Offset(n int) Addr {
	bit := a.Bit
	if bit < 0 {
		bit = 0
	}

	linear := a.Byte*8 + bit + n

	return Addr{Region: a.Region, Byte: linear / 8, Bit: linear % 8}
}

func (a Addr) String() string {
	if a.IsByte() {
		return fmt.Sprintf("%vB%d", a.Region, a.Byte)
	}

	return fmt.Sprintf("%v%d.%d", a.Region, a.Byte, a.Bit)
}

// ParseAddr parses "I0.3", "Q1.0", "M106.1", "IB0", "QB0" or "MB30".
func ParseAddr(s string) (Addr, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Addr{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	region, err := ParseRegion(s[:1])
	if err != nil {
		return Addr{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	rest := s[1:]
	if rest[0] == 'B' || rest[0] == 'b' {
		n, err := parseIndex(rest[1:])
		if err != nil {
			return Addr{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}

		return ByteAddr(region, n), nil
	}

	byteText, bitText, found := strings.Cut(rest, ".")
	if !found {
		return Addr{}, fmt.Errorf("%w: %q has no bit index", ErrSyntax, s)
	}

	byteIndex, err := parseIndex(byteText)
	if err != nil {
		return Addr{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	bitIndex, err := parseIndex(bitText)
	if err != nil || bitIndex > 7 {
		return Addr{}, fmt.Errorf("%w: %q bit index must be 0-7", ErrSyntax, s)
	}

	return BitAddr(region, byteIndex, bitIndex), nil
}

// MustParseAddr is ParseAddr for addresses fixed at compile time.
func MustParseAddr(s string) Addr {
	a, err := ParseAddr(s)
	if err != nil {
		panic(err)
	}

	return a
}

func parseIndex(s string) (int, error) {
	if s == "" {
		return 0, ErrSyntax
	}

	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, err
	}

	return int(n), nil
}
