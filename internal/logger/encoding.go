package logger

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// The wire encoding is Windows-1252: a single-byte code page in which every
// byte value 0–255 maps to exactly one rune. Packet payloads may carry
// arbitrary 8-bit values, which a variable-width decoder such as UTF-8 would
// reject, so transcoding goes byte by byte through the charmap table.
//
// Five byte values (0x81, 0x8D, 0x8F, 0x90, 0x9D) have no Windows-1252
// assignment and decode to U+FFFD in x/text, which would collapse distinct
// payload bytes into one rune. They keep their C1 control code points here
// so the mapping stays total and lossless.

// decode maps every raw byte to its Windows-1252 rune.
func decode(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(decodeByte(c))
	}
	return b.String()
}

// encode maps a string back to Windows-1252 bytes. Runes without a
// Windows-1252 assignment cannot be framed and are reported as an error.
func encode(s string) ([]byte, error) {
	data := make([]byte, 0, len(s))
	for _, r := range s {
		c, ok := encodeRune(r)
		if !ok {
			return nil, fmt.Errorf("rune %q cannot be encoded as Windows-1252", r)
		}
		data = append(data, c)
	}
	return data, nil
}

func decodeByte(c byte) rune {
	if unassigned(c) {
		return rune(c)
	}
	return charmap.Windows1252.DecodeByte(c)
}

func encodeRune(r rune) (byte, bool) {
	if r < 0x100 && unassigned(byte(r)) {
		return byte(r), true
	}
	return charmap.Windows1252.EncodeRune(r)
}

// unassigned reports whether c has no Windows-1252 assignment.
func unassigned(c byte) bool {
	switch c {
	case 0x81, 0x8D, 0x8F, 0x90, 0x9D:
		return true
	}
	return false
}
