// Package lod implements the .LOD hex dump text format used by
// Ohio Scientific monitor programs.
package lod

import (
	"fmt"
	"strings"
)

// EntryPolicy selects which terminator directive determines the entry point
// when a source text contains more than one.
type EntryPolicy int

const (
	// EntryLast uses the last terminator directive, later ones override earlier ones.
	EntryLast EntryPolicy = iota
	// EntryFirst uses the first terminator directive and ignores all following ones.
	EntryFirst
)

// ParseEntryPolicy converts a policy name to an EntryPolicy.
// An empty name returns the default policy.
func ParseEntryPolicy(s string) (EntryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last":
		return EntryLast, nil
	case "first":
		return EntryFirst, nil
	default:
		return EntryLast, fmt.Errorf("unsupported entry policy '%s'", s)
	}
}

func (p EntryPolicy) String() string {
	if p == EntryFirst {
		return "first"
	}
	return "last"
}

// Block is a contiguous run of bytes destined for a fixed start address.
type Block struct {
	// Address is the parsed directive address. It is not limited to 16 bits,
	// addresses beyond 32 bits saturate. The target memory rejects writes
	// outside of its range.
	Address uint32
	Data    []byte
}

// End returns the address following the last byte of the block.
func (b Block) End() uint32 {
	return b.Address + uint32(len(b.Data))
}

// Program is the result of decoding a LOD text.
type Program struct {
	Blocks []Block

	Entry    uint32
	HasEntry bool
}

// EntryPoint returns the entry address and whether the text specified one.
func (p *Program) EntryPoint() (uint32, bool) {
	return p.Entry, p.HasEntry
}

// Size returns the total number of bytes of all blocks.
func (p *Program) Size() int {
	size := 0
	for _, block := range p.Blocks {
		size += len(block.Data)
	}
	return size
}
