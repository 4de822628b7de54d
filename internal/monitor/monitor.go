// Package monitor creates command scripts that start a loaded program on the
// emulated machine.
package monitor

import (
	"fmt"
	"io"
)

// DebuggerCommands returns the debugger commands that halt the CPU, set the
// program counter to the entry address and resume execution.
func DebuggerCommands(entry uint16) []string {
	return []string{
		"h",
		fmt.Sprintf("r pc %04X", entry),
		"g",
	}
}

// WriteScript writes the debugger commands one per line.
func WriteScript(w io.Writer, entry uint16) error {
	for _, cmd := range DebuggerCommands(entry) {
		if _, err := fmt.Fprintln(w, cmd); err != nil {
			return fmt.Errorf("writing debugger command: %w", err)
		}
	}
	return nil
}
