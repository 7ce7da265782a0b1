package memimage

import (
	"errors"
	"fmt"
)

var (
	// ErrAddress reports an address outside the configured arena.
	ErrAddress = errors.New("address out of range")

	// ErrSyntax reports text that is not a valid address.
	ErrSyntax = errors.New("invalid address syntax")

	// ErrLayout reports an unusable region size.
	ErrLayout = errors.New("invalid layout")

	// ErrNameCollision reports a symbol declared twice, possibly with a
	// different letter case.
	ErrNameCollision = errors.New("symbol name collision")
)

// AddressError describes an access to an address the arena does not have.
type AddressError struct {
	Addr Addr
	Size int
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%v: region %v has %d bytes", e.Addr, e.Addr.Region, e.Size)
}

// Unwrap makes errors.Is(err, ErrAddress) hold.
func (e *AddressError) Unwrap() error {
	return ErrAddress
}
