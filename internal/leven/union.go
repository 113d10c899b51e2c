package leven

import (
	"fmt"
	"sort"
	"strings"
)

// modAdler is the Adler-32 modulus used for the rolling list hash.
const modAdler = 65521

// reducedUnion is an ordered, duplicate-free, subsumption-free list of
// relative positions. It represents one deterministic state of the
// automaton. The hash is computed lazily and cached; any mutation
// invalidates it.
type reducedUnion struct {
	positions  []relPos
	cachedHash uint32
}

func newReducedUnion() *reducedUnion {
	return &reducedUnion{}
}

func (u *reducedUnion) isEmpty() bool {
	return len(u.positions) == 0
}

func (u *reducedUnion) equal(o *reducedUnion) bool {
	if len(u.positions) != len(o.positions) {
		return false
	}
	for i, p := range u.positions {
		if p != o.positions[i] {
			return false
		}
	}
	return true
}

// hash combines the positions' own hashes Adler-32 style. The result is
// cached until the next mutation.
func (u *reducedUnion) hash() uint32 {
	if u.cachedHash != 0 {
		return u.cachedHash
	}
	a := uint32(1)
	b := uint32(0)
	for _, p := range u.positions {
		a = (a + p.hash()) % modAdler
		b = (b + a) % modAdler
	}
	u.cachedHash = b<<16 | a
	return u.cachedHash
}

// raiseLevel is the minimum offset across positions, or 0 if empty.
func (u *reducedUnion) raiseLevel() int16 {
	if len(u.positions) == 0 {
		return 0
	}
	mn := u.positions[0].offset
	for _, p := range u.positions[1:] {
		if p.offset < mn {
			mn = p.offset
		}
	}
	return mn
}

// lowerBound returns the first index whose position is not less than p.
func (u *reducedUnion) lowerBound(p relPos) int {
	return sort.Search(len(u.positions), func(i int) bool {
		return !u.positions[i].less(p)
	})
}

// add inserts p, skipping it when already present or subsumed by an
// earlier position, and drops any later positions p subsumes.
func (u *reducedUnion) add(p relPos) {
	ni := u.lowerBound(p)
	if ni < len(u.positions) && u.positions[ni] == p {
		return
	}
	for i := 0; i < ni; i++ {
		if u.positions[i].subsumes(p) {
			return
		}
	}

	u.cachedHash = 0
	u.positions = append(u.positions, relPos{})
	copy(u.positions[ni+1:], u.positions[ni:])
	u.positions[ni] = p

	i := ni + 1
	for i < len(u.positions) {
		if p.subsumes(u.positions[i]) {
			u.positions = append(u.positions[:i], u.positions[i+1:]...)
		} else {
			i++
		}
	}
}

// addUnchecked inserts p at its sorted position. The caller guarantees p
// is neither a duplicate nor in any subsumption relation with the
// present positions.
func (u *reducedUnion) addUnchecked(p relPos) {
	if u.cachedHash != 0 {
		panic("leven: addUnchecked on published union")
	}
	ni := u.lowerBound(p)
	if ni < len(u.positions) && u.positions[ni] == p {
		panic("leven: addUnchecked duplicate")
	}
	u.positions = append(u.positions, relPos{})
	copy(u.positions[ni+1:], u.positions[ni:])
	u.positions[ni] = p
}

// update folds every position of o into u.
func (u *reducedUnion) update(o *reducedUnion) {
	for _, p := range o.positions {
		u.add(p)
	}
}

// subtract returns a new union with every offset reduced by di.
func (u *reducedUnion) subtract(di int16) *reducedUnion {
	out := &reducedUnion{positions: make([]relPos, len(u.positions))}
	for i, p := range u.positions {
		out.positions[i] = p.subtract(di)
	}
	return out
}

func (u *reducedUnion) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	delim := " "
	for _, p := range u.positions {
		fmt.Fprintf(&sb, "%s+%d#%d", delim, p.offset, p.edit)
		delim = ", "
	}
	sb.WriteString(" ]")
	return sb.String()
}
