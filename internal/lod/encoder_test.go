package lod

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestEncode(t *testing.T) {
	prog := &Program{
		Blocks: []Block{
			{Address: 0x0222, Data: []byte{0xA9, 0x41, 0x8D, 0x00, 0xD0}},
			{Address: 0x0300, Data: []byte{0x60}},
		},
		Entry:    0x0222,
		HasEntry: true,
	}

	buf := &bytes.Buffer{}
	assert.NoError(t, Encode(buf, prog, EncodeOptions{BytesPerLine: 4}))

	expected := ".0222/\nA9 41 8D 00\nD0\n.0300/\n60\n.0222G\n"
	assert.Equal(t, expected, buf.String())
}

func TestEncodeTapeLineEndings(t *testing.T) {
	prog := &Program{
		Blocks: []Block{{Address: 0x0200, Data: []byte{0xEA}}},
	}

	buf := &bytes.Buffer{}
	assert.NoError(t, Encode(buf, prog, EncodeOptions{LineEnding: "\r"}))
	assert.Equal(t, ".0200/\rEA\r", buf.String())
	assert.False(t, strings.Contains(buf.String(), "\n"))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data := make([]byte, 40)
	for i := range data {
		data[i] = byte(i * 7)
	}
	prog := &Program{
		Blocks: []Block{
			{Address: 0x1000, Data: data},
			{Address: 0x0222, Data: []byte{0x4C, 0x00, 0x10}},
		},
		Entry:    0x0222,
		HasEntry: true,
	}

	buf := &bytes.Buffer{}
	assert.NoError(t, Encode(buf, prog, EncodeOptions{}))

	decoded := Decode(buf.String())
	assert.Len(t, decoded.Blocks, 2)
	for i, block := range prog.Blocks {
		assert.Equal(t, block.Address, decoded.Blocks[i].Address)
		assert.Equal(t, block.Data, decoded.Blocks[i].Data)
	}
	assert.True(t, decoded.HasEntry)
	assert.Equal(t, prog.Entry, decoded.Entry)
}

func TestWritePreview(t *testing.T) {
	data := make([]byte, 20)
	prog := &Program{
		Blocks: []Block{
			{Address: 0x0222, Data: []byte{0xA9, 0x41}},
			{Address: 0x1000, Data: data},
		},
	}

	buf := &bytes.Buffer{}
	assert.NoError(t, WritePreview(buf, prog))

	out := buf.String()
	assert.Contains(t, out, "2 block(s) found")
	assert.Contains(t, out, "Block 1 @ $0222, 2 bytes\n  A9 41\n")
	assert.Contains(t, out, "Block 2 @ $1000, 20 bytes")
	assert.Contains(t, out, "00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 ...")
	assert.Contains(t, out, "No entry point")
}

func TestWritePreviewEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	assert.NoError(t, WritePreview(buf, &Program{}))
	assert.Equal(t, "No valid LOD blocks\n", buf.String())
}
