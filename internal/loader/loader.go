// Package loader reads LOD source files and applies decoded programs to a target memory.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrolod/internal/lod"
	"github.com/retroenv/retrolod/internal/memory"
)

// StdinName is the input name that selects standard input as source.
const StdinName = "-"

// Result describes the outcome of applying a program to memory.
type Result struct {
	Entry    uint32 // entry address as decoded, only valid if HasEntry is set
	HasEntry bool

	Blocks int // number of completely written blocks
	Bytes  int // number of written bytes, including a partially written block
}

// Loader handles loading LOD source files from disk.
type Loader struct {
	stdin io.Reader
}

// New creates a new source loader.
func New() *Loader {
	return &Loader{
		stdin: os.Stdin,
	}
}

// ReadSource returns the text content of the given file. The name "-"
// reads from standard input.
func (l *Loader) ReadSource(path string) (string, error) {
	if path == StdinName {
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return "", fmt.Errorf("reading standard input: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading file %s: %w", path, err)
	}
	return string(data), nil
}

// Apply writes all blocks of the program to memory in decode order, later
// blocks overwrite earlier ones at overlapping addresses. The entry address
// of the program is returned unchanged.
//
// The first failing write aborts loading. Blocks written before the failure
// are not rolled back, the returned result describes what has been written.
func Apply(prog *lod.Program, mem memory.Memory) (Result, error) {
	result := Result{
		Entry:    prog.Entry,
		HasEntry: prog.HasEntry,
	}

	for i, block := range prog.Blocks {
		address := block.Address
		for _, b := range block.Data {
			if err := mem.Write(address, b); err != nil {
				return result, fmt.Errorf("writing block %d at $%04X: %w", i+1, block.Address, err)
			}
			address++
			result.Bytes++
		}
		result.Blocks++
	}

	return result, nil
}
