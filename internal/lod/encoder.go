package lod

import (
	"fmt"
	"io"
	"strings"
)

const defaultBytesPerLine = 16

// EncodeOptions controls the text layout of Encode.
type EncodeOptions struct {
	BytesPerLine int    // data bytes per line, defaults to 16
	LineEnding   string // defaults to "\n", use "\r" for tape style output
}

// Encode writes the program as canonical LOD text. Every block starts with
// an address directive, an entry point is written as a final terminator line.
func Encode(w io.Writer, prog *Program, opts EncodeOptions) error {
	perLine := opts.BytesPerLine
	if perLine <= 0 {
		perLine = defaultBytesPerLine
	}
	eol := opts.LineEnding
	if eol == "" {
		eol = "\n"
	}

	for i, block := range prog.Blocks {
		if _, err := fmt.Fprintf(w, ".%04X/%s", block.Address, eol); err != nil {
			return fmt.Errorf("writing directive of block %d: %w", i, err)
		}

		for offset := 0; offset < len(block.Data); offset += perLine {
			end := min(offset+perLine, len(block.Data))
			line := formatBytes(block.Data[offset:end])
			if _, err := fmt.Fprintf(w, "%s%s", line, eol); err != nil {
				return fmt.Errorf("writing data of block %d: %w", i, err)
			}
		}
	}

	if prog.HasEntry {
		if _, err := fmt.Fprintf(w, ".%04XG%s", prog.Entry, eol); err != nil {
			return fmt.Errorf("writing entry point: %w", err)
		}
	}
	return nil
}

// formatBytes returns the bytes as upper case hex values separated by spaces.
func formatBytes(data []byte) string {
	buf := &strings.Builder{}
	for i, b := range data {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%02X", b)
	}
	return buf.String()
}
