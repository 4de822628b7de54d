// Package verification verifies that the written output file reproduces the loaded program.
package verification

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrolod/internal/loader"
	"github.com/retroenv/retrolod/internal/lod"
	"github.com/retroenv/retrolod/internal/memory"
	"github.com/retroenv/retrolod/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// ErrMismatch is returned when the output file does not match the loaded program.
var ErrMismatch = errors.New("output mismatch")

// maxLoggedMismatches limits the number of logged mismatching offsets.
const maxLoggedMismatches = 10

// VerifyOutput reads back the output file and compares it to the program.
// Memory images are compared against a fresh memory of the same size that
// the program is applied to, LOD text output is decoded and compared in
// canonical form.
func VerifyOutput(logger *log.Logger, opts options.Program, prog *lod.Program) error {
	if opts.Output == "" {
		return errors.New("can not verify console output")
	}

	written, err := os.ReadFile(opts.Output)
	if err != nil {
		return fmt.Errorf("reading output file for comparison: %w", err)
	}

	switch opts.Format {
	case options.FormatBinary:
		return verifyImage(logger, prog, written)

	case options.FormatLOD, options.FormatTape:
		return verifyText(logger, prog, written)

	default:
		return fmt.Errorf("unsupported output format '%s'", opts.Format)
	}
}

func verifyImage(logger *log.Logger, prog *lod.Program, written []byte) error {
	ram, err := memory.NewRAM(len(written))
	if err != nil {
		return fmt.Errorf("creating comparison memory: %w", err)
	}
	if _, err := loader.Apply(prog, ram); err != nil {
		return fmt.Errorf("applying program to comparison memory: %w", err)
	}

	if err := checkBufferEqual(logger, ram.Bytes(), written); err != nil {
		return fmt.Errorf("memory image mismatch: %w", err)
	}
	return nil
}

func verifyText(logger *log.Logger, prog *lod.Program, written []byte) error {
	decoded := lod.Decode(string(written))

	expected, err := canonical(prog)
	if err != nil {
		return err
	}
	got, err := canonical(decoded)
	if err != nil {
		return err
	}

	if err := checkBufferEqual(logger, expected, got); err != nil {
		return fmt.Errorf("LOD text mismatch: %w", err)
	}
	return nil
}

func canonical(prog *lod.Program) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := lod.Encode(buf, prog, lod.EncodeOptions{}); err != nil {
		return nil, fmt.Errorf("encoding canonical LOD text: %w", err)
	}
	return buf.Bytes(), nil
}

func checkBufferEqual(logger *log.Logger, expected, got []byte) error {
	if len(expected) != len(got) {
		return fmt.Errorf("%w: mismatched lengths, %d != %d", ErrMismatch, len(expected), len(got))
	}

	var diffs uint64
	for i := range expected {
		if expected[i] == got[i] {
			continue
		}

		diffs++
		if diffs <= maxLoggedMismatches {
			logger.Warn("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", expected[i]),
				log.Hex("got", got[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d offset mismatches", ErrMismatch, diffs)
}
