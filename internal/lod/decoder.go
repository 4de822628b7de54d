package lod

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	directivePrefix  = '.'
	payloadSeparator = '/'
)

type lineKind int

const (
	dataLine lineKind = iota
	terminatorLine
	directiveLine
)

type decodeState int

const (
	stateIdle decodeState = iota
	stateInBlock
)

// Option configures the decoder.
type Option func(*decoder)

// WithEntryPolicy sets the policy used when multiple terminator directives are found.
func WithEntryPolicy(policy EntryPolicy) Option {
	return func(d *decoder) {
		d.policy = policy
	}
}

type decoder struct {
	policy EntryPolicy
	prog   *Program

	state decodeState
	block Block
}

// Decode converts a LOD source text into its load blocks and entry point.
// Decoding never fails, malformed tokens and directives are skipped and
// the result can contain zero blocks.
func Decode(text string, opts ...Option) *Program {
	d := &decoder{
		prog: &Program{},
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, line := range splitLines(text) {
		d.processLine(line)
	}
	d.closeBlock()

	return d.prog
}

func (d *decoder) processLine(line string) {
	kind, digits, payload, hasPayload := classifyLine(line)

	switch kind {
	case terminatorLine:
		d.closeBlock()
		if address, ok := parseAddress(digits); ok {
			d.setEntry(address)
		}

	case directiveLine:
		d.closeBlock()
		address, ok := parseAddress(digits)
		if !ok {
			return
		}
		d.openBlock(address)
		if !hasPayload {
			return
		}

		payload = strings.TrimSpace(payload)
		terminated := false
		if n := len(payload); n > 0 && (payload[n-1] == 'G' || payload[n-1] == 'g') {
			payload = payload[:n-1]
			terminated = true
		}
		d.appendBytes(payload)

		if terminated {
			d.closeBlock()
			d.setEntry(address)
		}

	default:
		// bytes without an open block have no address to be loaded to
		if d.state == stateInBlock {
			d.appendBytes(line)
		}
	}
}

func (d *decoder) openBlock(address uint32) {
	d.state = stateInBlock
	d.block = Block{Address: address}
}

// closeBlock emits the open block if it contains any bytes and returns to idle.
func (d *decoder) closeBlock() {
	if d.state == stateInBlock && len(d.block.Data) > 0 {
		d.prog.Blocks = append(d.prog.Blocks, d.block)
	}
	d.state = stateIdle
	d.block = Block{}
}

func (d *decoder) setEntry(address uint32) {
	if d.policy == EntryFirst && d.prog.HasEntry {
		return
	}
	d.prog.Entry = address
	d.prog.HasEntry = true
}

func (d *decoder) appendBytes(s string) {
	for _, token := range splitTokens(s) {
		if b, ok := parseByteToken(token); ok {
			d.block.Data = append(d.block.Data, b)
		}
	}
}

// classifyLine determines the shape of a trimmed, non-empty line.
// For directives it returns the address digits and, if the directive
// contains a slash, the inline payload following it.
func classifyLine(line string) (kind lineKind, digits, payload string, hasPayload bool) {
	if line[0] != directivePrefix {
		return dataLine, "", "", false
	}

	i := 1
	for i < len(line) && isHexDigit(line[i]) {
		i++
	}
	if i == 1 {
		return dataLine, "", "", false
	}
	digits = line[1:i]
	rest := line[i:]

	switch {
	case rest == "G" || rest == "g":
		return terminatorLine, digits, "", false
	case rest == "":
		return directiveLine, digits, "", false
	case rest[0] == payloadSeparator:
		return directiveLine, digits, rest[1:], true
	default:
		return dataLine, "", "", false
	}
}

// parseAddress parses directive address digits as base 16. Values that do
// not fit into 32 bits saturate to math.MaxUint32.
func parseAddress(digits string) (uint32, bool) {
	value, err := strconv.ParseUint(digits, 16, 64)
	switch {
	case errors.Is(err, strconv.ErrRange), err == nil && value > math.MaxUint32:
		return math.MaxUint32, true
	case err != nil:
		return 0, false
	default:
		return uint32(value), true
	}
}

// parseByteToken accepts only tokens of exactly two hex digits.
func parseByteToken(token string) (byte, bool) {
	if len(token) != 2 || !isHexDigit(token[0]) || !isHexDigit(token[1]) {
		return 0, false
	}
	return hexValue(token[0])<<4 | hexValue(token[1]), true
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hexValue(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}
