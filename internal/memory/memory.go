// Package memory provides the addressable target memory that programs are loaded into.
package memory

import (
	"errors"
	"fmt"
)

// MaxSize is the size of the 16 bit address space.
const MaxSize = 0x10000

// ErrOutOfRange is returned for accesses outside of the memory bounds.
var ErrOutOfRange = errors.New("address out of range")

// Memory defines a bounds checked byte addressable memory.
type Memory interface {
	// Size returns the number of addressable bytes.
	Size() int

	// Read returns the byte at the given address.
	Read(address uint32) (byte, error)

	// Write sets the byte at the given address. Writes outside of the
	// memory bounds fail and leave the memory unchanged.
	Write(address uint32, value byte) error
}

// RAM is a flat memory starting at address 0.
type RAM struct {
	data []byte
}

var _ Memory = &RAM{}

// NewRAM returns a zero initialized RAM of the given size.
func NewRAM(size int) (*RAM, error) {
	if size <= 0 || size > MaxSize {
		return nil, fmt.Errorf("invalid memory size %d, must be between 1 and %d", size, MaxSize)
	}
	return &RAM{
		data: make([]byte, size),
	}, nil
}

// Size returns the number of addressable bytes.
func (r *RAM) Size() int {
	return len(r.data)
}

// Read returns the byte at the given address.
func (r *RAM) Read(address uint32) (byte, error) {
	if uint64(address) >= uint64(len(r.data)) {
		return 0, fmt.Errorf("reading address $%04X of memory size $%04X: %w", address, len(r.data), ErrOutOfRange)
	}
	return r.data[address], nil
}

// Write sets the byte at the given address.
func (r *RAM) Write(address uint32, value byte) error {
	if uint64(address) >= uint64(len(r.data)) {
		return fmt.Errorf("writing address $%04X of memory size $%04X: %w", address, len(r.data), ErrOutOfRange)
	}
	r.data[address] = value
	return nil
}

// Bytes returns the underlying memory content.
func (r *RAM) Bytes() []byte {
	return r.data
}
