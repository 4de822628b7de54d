// Package disasm lists the 6502 instructions of a loaded program.
package disasm

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrolod/internal/memory"
	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
)

// Line is a single disassembled instruction.
type Line struct {
	Address     uint16
	Opcodes     []byte
	Instruction string
}

type paramFormatterFunc func(address uint16, params []byte) string

type addressingInfo struct {
	paramSize int
	format    paramFormatterFunc
}

var addressingModes = map[cpu6502.AddressingMode]addressingInfo{
	cpu6502.ImpliedAddressing:     {0, formatNone},
	cpu6502.AccumulatorAddressing: {0, formatAccumulator},
	cpu6502.ImmediateAddressing:   {1, formatByte("#$%02X")},
	cpu6502.ZeroPageAddressing:    {1, formatByte("$%02X")},
	cpu6502.ZeroPageXAddressing:   {1, formatByte("$%02X,X")},
	cpu6502.ZeroPageYAddressing:   {1, formatByte("$%02X,Y")},
	cpu6502.IndirectXAddressing:   {1, formatByte("($%02X,X)")},
	cpu6502.IndirectYAddressing:   {1, formatByte("($%02X),Y")},
	cpu6502.RelativeAddressing:    {1, formatRelative},
	cpu6502.AbsoluteAddressing:    {2, formatWord("$%04X")},
	cpu6502.AbsoluteXAddressing:   {2, formatWord("$%04X,X")},
	cpu6502.AbsoluteYAddressing:   {2, formatWord("$%04X,Y")},
	cpu6502.IndirectAddressing:    {2, formatWord("($%04X)")},
}

// List disassembles up to count instructions starting at the given address.
// Unknown opcodes are listed as data bytes. The listing ends early if an
// instruction would exceed the end of the memory.
func List(mem memory.Memory, start uint16, count int) ([]Line, error) {
	if int(start) >= mem.Size() {
		return nil, fmt.Errorf("listing start $%04X: %w", start, memory.ErrOutOfRange)
	}

	var lines []Line
	address := uint32(start)

	for range count {
		line, err := decodeInstruction(mem, address)
		if err != nil {
			if errors.Is(err, memory.ErrOutOfRange) {
				break
			}
			return nil, err
		}
		lines = append(lines, line)

		address += uint32(len(line.Opcodes))
		if address > 0xFFFF {
			break
		}
	}
	return lines, nil
}

func decodeInstruction(mem memory.Memory, address uint32) (Line, error) {
	b, err := mem.Read(address)
	if err != nil {
		return Line{}, fmt.Errorf("reading memory at address %04x: %w", address, err)
	}

	line := Line{
		Address: uint16(address),
		Opcodes: []byte{b},
	}

	opcode := cpu6502.Opcodes[b]
	info, ok := addressingModes[opcode.Addressing]
	if opcode.Instruction == nil || !ok {
		line.Instruction = fmt.Sprintf(".byte $%02X", b)
		return line, nil
	}

	for i := 1; i <= info.paramSize; i++ {
		param, err := mem.Read(address + uint32(i))
		if err != nil {
			return Line{}, fmt.Errorf("reading memory at address %04x: %w", address+uint32(i), err)
		}
		line.Opcodes = append(line.Opcodes, param)
	}

	name := strings.ToUpper(opcode.Instruction.Name)
	param := info.format(line.Address, line.Opcodes[1:])
	if param == "" {
		line.Instruction = name
	} else {
		line.Instruction = name + " " + param
	}
	return line, nil
}

// Write outputs the lines in a monitor style listing.
func Write(w io.Writer, lines []Line) error {
	for _, line := range lines {
		opcodes := make([]string, len(line.Opcodes))
		for i, b := range line.Opcodes {
			opcodes[i] = fmt.Sprintf("%02X", b)
		}

		if _, err := fmt.Fprintf(w, "$%04X  %-8s  %s\n", line.Address, strings.Join(opcodes, " "), line.Instruction); err != nil {
			return fmt.Errorf("writing listing line: %w", err)
		}
	}
	return nil
}

func formatNone(uint16, []byte) string {
	return ""
}

func formatAccumulator(uint16, []byte) string {
	return "A"
}

func formatByte(format string) paramFormatterFunc {
	return func(_ uint16, params []byte) string {
		return fmt.Sprintf(format, params[0])
	}
}

func formatWord(format string) paramFormatterFunc {
	return func(_ uint16, params []byte) string {
		w := uint16(params[1])<<8 | uint16(params[0])
		return fmt.Sprintf(format, w)
	}
}

// formatRelative resolves the branch target relative to the following instruction.
func formatRelative(address uint16, params []byte) string {
	target := address + 2 + uint16(int8(params[0]))
	return fmt.Sprintf("$%04X", target)
}
