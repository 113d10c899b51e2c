// Package leven simulates the universal Levenshtein automaton of a query
// word lazily, following Fast String Correction with Levenshtein-Automata
// by Klaus U. Schulz and Stoyan Mihov. Deterministic states are
// subsumption-reduced sets of NFA positions kept relative to a moving
// base index into the query, so the set of distinct states is finite and
// transitions can be memoized per tolerance.
package leven

import "math/bits"

// maxLen is the widest characteristic-vector window representable in a
// 32-bit bit set. It constrains 2n+1 <= 31 and therefore n <= 15.
const maxLen = 31

// relPos is an NFA position relative to a state's base: the automaton
// sits at query index base+offset having committed edit edits.
type relPos struct {
	offset int16
	edit   int16
}

// less orders positions by edit first, then offset.
func (p relPos) less(q relPos) bool {
	if p.edit != q.edit {
		return p.edit < q.edit
	}
	return p.offset < q.offset
}

func (p relPos) hash() uint32 {
	return uint32(int32(maxLen+1)*int32(p.offset) + int32(p.edit))
}

// subsumes reports whether every word accepted from q is also accepted
// from p, making q redundant next to p.
func (p relPos) subsumes(q relPos) bool {
	r := q.edit - p.edit
	if r <= 0 {
		return false
	}
	d := q.offset - p.offset
	if d < 0 {
		d = -d
	}
	return d <= r
}

func (p relPos) subtract(di int16) relPos {
	return relPos{offset: p.offset - di, edit: p.edit}
}

// charVec is the characteristic vector of a target code point against a
// window of up to 2n+1 query code points: bit i is set iff the window's
// i-th code point equals the target.
type charVec struct {
	bits uint32
	size int
}

// powerMask[i] keeps the lowest i+1 bits.
var powerMask [maxLen]uint32

func init() {
	pwr := uint32(1)
	msk := uint32(1)
	for i := 0; i < maxLen; i++ {
		powerMask[i] = msk
		pwr *= 2
		msk += pwr
	}
}

func (v charVec) isEmpty() bool {
	return v.size == 0
}

// subrange keeps sz bits starting at the sh-th least significant bit
// position (sh >= 1). An empty vector results when sz == 0.
func (v charVec) subrange(sz, sh int) charVec {
	if sz == 0 {
		return charVec{}
	}
	return charVec{bits: (v.bits >> (sh - 1)) & powerMask[sz-1], size: sz}
}

func (v charVec) hasFirstBitSet() bool {
	return v.bits&1 != 0
}

// indexOfSetBit returns the 1-based index of the lowest set bit.
// Some bit must be set.
func (v charVec) indexOfSetBit() int16 {
	if v.bits == 0 {
		panic("leven: index of set bit in zero vector")
	}
	return int16(bits.TrailingZeros32(v.bits)) + 1
}

// makeCharVec builds the characteristic vector of letter against the
// given window of query code points.
func makeCharVec(window []uint32, letter uint32) charVec {
	var b uint32
	pwr := uint32(1)
	for _, cp := range window {
		if cp == letter {
			b |= pwr
		}
		pwr *= 2
	}
	return charVec{bits: b, size: len(window)}
}
