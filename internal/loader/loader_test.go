package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrolod/internal/lod"
	"github.com/retroenv/retrolod/internal/memory"
	"github.com/retroenv/retrogolib/assert"
)

func newRAM(t *testing.T, size int) *memory.RAM {
	t.Helper()
	ram, err := memory.NewRAM(size)
	assert.NoError(t, err)
	return ram
}

func TestApply(t *testing.T) {
	ram := newRAM(t, 0x2100)
	prog := lod.Decode(".2000/A9 41")

	result, err := Apply(prog, ram)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Blocks)
	assert.Equal(t, 2, result.Bytes)
	assert.False(t, result.HasEntry)

	for i, b := range ram.Bytes() {
		switch i {
		case 0x2000:
			assert.Equal(t, byte(0xA9), b)
		case 0x2001:
			assert.Equal(t, byte(0x41), b)
		default:
			assert.Equal(t, byte(0), b)
		}
	}
}

func TestApplyOverlapLaterWins(t *testing.T) {
	ram := newRAM(t, 0x2100)
	prog := &lod.Program{
		Blocks: []lod.Block{
			{Address: 0x2000, Data: []byte{0x11}},
			{Address: 0x2000, Data: []byte{0x22}},
		},
	}

	_, err := Apply(prog, ram)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x22), ram.Bytes()[0x2000])
}

func TestApplyEntryPassThrough(t *testing.T) {
	ram := newRAM(t, 0x100)

	result, err := Apply(lod.Decode(".0000/EA\n.0000G"), ram)
	assert.NoError(t, err)
	assert.True(t, result.HasEntry)
	assert.Equal(t, uint32(0), result.Entry)

	result, err = Apply(lod.Decode(".0000/EA"), ram)
	assert.NoError(t, err)
	assert.False(t, result.HasEntry)
}

func TestApplyOutOfRange(t *testing.T) {
	ram := newRAM(t, 0x100)
	prog := &lod.Program{
		Blocks: []lod.Block{
			{Address: 0x10, Data: []byte{0x01}},
			{Address: 0xFE, Data: []byte{0x02, 0x03, 0x04, 0x05}},
			{Address: 0x20, Data: []byte{0x06}},
		},
	}

	result, err := Apply(prog, ram)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, memory.ErrOutOfRange))
	assert.ErrorContains(t, err, "block 2")

	assert.Equal(t, 1, result.Blocks)
	assert.Equal(t, 3, result.Bytes)
	assert.Equal(t, byte(0x01), ram.Bytes()[0x10])
	assert.Equal(t, byte(0x02), ram.Bytes()[0xFE])
	assert.Equal(t, byte(0x03), ram.Bytes()[0xFF])
	assert.Equal(t, byte(0), ram.Bytes()[0x20])
	assert.Len(t, ram.Bytes(), 0x100)
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.lod")
	assert.NoError(t, os.WriteFile(path, []byte(".0222/EA\n"), 0o600))

	l := New()
	text, err := l.ReadSource(path)
	assert.NoError(t, err)
	assert.Equal(t, ".0222/EA\n", text)

	_, err = l.ReadSource(filepath.Join(dir, "missing.lod"))
	assert.ErrorContains(t, err, "reading file")
}

func TestReadSourceStdin(t *testing.T) {
	l := &Loader{stdin: strings.NewReader(".0300/60")}

	text, err := l.ReadSource(StdinName)
	assert.NoError(t, err)
	assert.Equal(t, ".0300/60", text)
}
