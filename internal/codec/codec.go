// Package codec implements a byte-oriented UTF-8 decoder and encoder.
//
// The decoder is the DFA described by Bjoern Hoehrmann
// (http://bjoern.hoehrmann.de/utf-8/decoder/dfa/): callers feed it one
// byte at a time and read out a complete code point whenever the state
// returns to Accept.
package codec

import "errors"

// Decoder states. Any state other than Accept and Reject is an
// intermediate state waiting for continuation bytes.
const (
	Accept uint32 = 0
	Reject uint32 = 1
)

// ErrInvalidUTF8 is returned whenever an input byte sequence does not
// decode cleanly.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// utf8d holds the byte-to-class map (first 256 entries) followed by the
// state transition table (9 states x 16 classes).
var utf8d = [400]uint8{
	// 0x00-0x7f: class 0
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	// 0x80-0x8f: class 1, 0x90-0x9f: class 9, 0xa0-0xbf: class 7
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	// 0xc0-0xc1: class 8 (overlong), 0xc2-0xdf: class 2
	8, 8, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	// 0xe0: class 10, 0xe1-0xec: class 3, 0xed: class 4, 0xee-0xef: class 3
	10, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 4, 3, 3,
	// 0xf0: class 11, 0xf1-0xf3: class 6, 0xf4: class 5, rest: class 8
	11, 6, 6, 6, 5, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	// state transitions: next state for (state*16 + class)
	0, 1, 2, 3, 5, 8, 7, 1, 1, 1, 4, 6, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 0, 1, 1, 1, 1, 1, 0, 1, 0, 1, 1, 1, 1, 1, 1,
	1, 2, 1, 1, 1, 1, 1, 2, 1, 2, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 3, 1, 3, 1, 1, 1, 1, 1, 1,
	1, 3, 1, 1, 1, 1, 1, 3, 1, 3, 1, 1, 1, 1, 1, 1,
	1, 3, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
}

// Decode advances the DFA by one input byte. It accumulates bits of the
// code point under construction into *codep and returns the new state,
// which is also stored in *state. A complete code point is available in
// *codep exactly when the returned state is Accept.
func Decode(state, codep *uint32, b byte) uint32 {
	t := uint32(utf8d[b])
	if *state != Accept {
		*codep = (uint32(b) & 0x3f) | (*codep << 6)
	} else {
		*codep = (0xff >> t) & uint32(b)
	}
	*state = uint32(utf8d[256+*state*16+t])
	return *state
}

// Encode writes the UTF-8 encoding of cp into buf and returns the number
// of bytes written. Surrogates and values above U+10FFFF are replaced by
// U+FFFD (three bytes) and the return value is 0 to signal the
// replacement. buf must hold at least 5 bytes; the encoding is
// NUL-terminated for callers that consume C-style strings.
func Encode(buf []byte, cp uint32) int {
	switch {
	case cp <= 0x7f:
		buf[0] = byte(cp)
		buf[1] = 0
		return 1
	case cp <= 0x7ff:
		buf[0] = byte(0xc0 | (cp >> 6))
		buf[1] = byte(0x80 | (cp & 0x3f))
		buf[2] = 0
		return 2
	case cp >= 0xd800 && cp <= 0xdfff:
		// Surrogate halves are not code points.
		return encodeReplacement(buf)
	case cp <= 0xffff:
		buf[0] = byte(0xe0 | (cp >> 12))
		buf[1] = byte(0x80 | ((cp >> 6) & 0x3f))
		buf[2] = byte(0x80 | (cp & 0x3f))
		buf[3] = 0
		return 3
	case cp <= 0x10ffff:
		buf[0] = byte(0xf0 | (cp >> 18))
		buf[1] = byte(0x80 | ((cp >> 12) & 0x3f))
		buf[2] = byte(0x80 | ((cp >> 6) & 0x3f))
		buf[3] = byte(0x80 | (cp & 0x3f))
		buf[4] = 0
		return 4
	default:
		return encodeReplacement(buf)
	}
}

func encodeReplacement(buf []byte) int {
	buf[0] = 0xef
	buf[1] = 0xbf
	buf[2] = 0xbd
	buf[3] = 0
	return 0
}

// CodePointCount returns the number of code points in s, which must be
// valid UTF-8.
func CodePointCount(s []byte) (int, error) {
	state := Accept
	var cp uint32
	count := 0
	for _, b := range s {
		switch Decode(&state, &cp, b) {
		case Accept:
			count++
		case Reject:
			return 0, ErrInvalidUTF8
		}
	}
	if state != Accept {
		return 0, ErrInvalidUTF8
	}
	return count, nil
}

// DecodeString decodes s into a slice of code points, failing on the
// first invalid byte sequence.
func DecodeString(s string) ([]uint32, error) {
	state := Accept
	var cp uint32
	var out []uint32
	for i := 0; i < len(s); i++ {
		switch Decode(&state, &cp, s[i]) {
		case Accept:
			out = append(out, cp)
		case Reject:
			return nil, ErrInvalidUTF8
		}
	}
	if state != Accept {
		return nil, ErrInvalidUTF8
	}
	return out, nil
}
