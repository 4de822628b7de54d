package disasm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrolod/internal/memory"
	"github.com/retroenv/retrogolib/assert"
)

func loadRAM(t *testing.T, size, address int, data ...byte) *memory.RAM {
	t.Helper()
	ram, err := memory.NewRAM(size)
	assert.NoError(t, err)
	copy(ram.Bytes()[address:], data)
	return ram
}

func TestList(t *testing.T) {
	ram := loadRAM(t, 0x1000, 0x0222,
		0xA9, 0x41, // LDA #$41
		0x8D, 0x00, 0x0D, // STA $0D00
		0xD0, 0xF9, // BNE $0222
		0x60, // RTS
	)

	lines, err := List(ram, 0x0222, 4)
	assert.NoError(t, err)
	assert.Len(t, lines, 4)

	assert.Equal(t, uint16(0x0222), lines[0].Address)
	assert.Equal(t, "LDA #$41", lines[0].Instruction)
	assert.Equal(t, []byte{0xA9, 0x41}, lines[0].Opcodes)

	assert.Equal(t, uint16(0x0224), lines[1].Address)
	assert.Equal(t, "STA $0D00", lines[1].Instruction)

	assert.Equal(t, "BNE $0222", lines[2].Instruction)
	assert.Equal(t, "RTS", lines[3].Instruction)
}

func TestListStopsAtEndOfMemory(t *testing.T) {
	ram := loadRAM(t, 0x10, 0x0C, 0xEA, 0xEA, 0x4C, 0x00)

	lines, err := List(ram, 0x0C, 10)
	assert.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, "NOP", lines[1].Instruction)
}

func TestListInvalidStart(t *testing.T) {
	ram := loadRAM(t, 0x10, 0)

	_, err := List(ram, 0x10, 1)
	assert.True(t, errors.Is(err, memory.ErrOutOfRange))
}

func TestWrite(t *testing.T) {
	lines := []Line{
		{Address: 0x0222, Opcodes: []byte{0xA9, 0x41}, Instruction: "LDA #$41"},
		{Address: 0x0224, Opcodes: []byte{0x60}, Instruction: "RTS"},
	}

	buf := &bytes.Buffer{}
	assert.NoError(t, Write(buf, lines))
	assert.Equal(t, "$0222  A9 41     LDA #$41\n$0224  60        RTS\n", buf.String())
}
