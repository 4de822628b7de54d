package lod

import (
	"fmt"
	"io"
)

const previewBytes = 16

// WritePreview writes a human readable summary of all blocks, listing the
// first bytes of each block, followed by the entry point status.
func WritePreview(w io.Writer, prog *Program) error {
	if len(prog.Blocks) == 0 {
		_, err := fmt.Fprintln(w, "No valid LOD blocks")
		return err
	}

	if _, err := fmt.Fprintf(w, "%d block(s) found\n", len(prog.Blocks)); err != nil {
		return fmt.Errorf("writing preview header: %w", err)
	}

	for i, block := range prog.Blocks {
		sample := block.Data
		suffix := ""
		if len(sample) > previewBytes {
			sample = sample[:previewBytes]
			suffix = " ..."
		}

		if _, err := fmt.Fprintf(w, "Block %d @ $%04X, %d bytes\n  %s%s\n",
			i+1, block.Address, len(block.Data), formatBytes(sample), suffix); err != nil {
			return fmt.Errorf("writing preview of block %d: %w", i+1, err)
		}
	}

	var err error
	if prog.HasEntry {
		_, err = fmt.Fprintf(w, "Entry point: $%04X\n", prog.Entry)
	} else {
		_, err = fmt.Fprintln(w, "No entry point")
	}
	if err != nil {
		return fmt.Errorf("writing entry point: %w", err)
	}
	return nil
}
