package leven

import "sync"

// relPosLen is the relevant length at a position: how much of the query
// window is still ahead of it, capped by the remaining edit budget.
func relPosLen(n, i, w int, e int16) int {
	if w < i {
		panic("leven: position beyond query end")
	}
	return min(n-int(e)+1, w-i)
}

// deltaI is the elementary transition for positions with edits left.
func deltaI(p relPos, cv charVec) *reducedUnion {
	result := newReducedUnion()

	if cv.isEmpty() {
		result.addUnchecked(relPos{p.offset, p.edit + 1})
		return result
	}

	if cv.size == 1 {
		if cv.hasFirstBitSet() {
			result.addUnchecked(relPos{p.offset + 1, p.edit})
		} else {
			result.addUnchecked(relPos{p.offset, p.edit + 1})
			result.addUnchecked(relPos{p.offset + 1, p.edit + 1})
		}
		return result
	}

	if cv.hasFirstBitSet() {
		result.addUnchecked(relPos{p.offset + 1, p.edit})
	} else {
		result.addUnchecked(relPos{p.offset, p.edit + 1})
		result.addUnchecked(relPos{p.offset + 1, p.edit + 1})
		if cv.bits != 0 {
			// Jump over the mismatched prefix to the first place the
			// target occurs, paying one edit per skipped code point.
			j := cv.indexOfSetBit()
			result.addUnchecked(relPos{p.offset + j, p.edit + j - 1})
		}
	}

	return result
}

// deltaII is the elementary transition for positions with the edit
// budget exhausted: only an exact match advances.
func deltaII(p relPos, cv charVec) *reducedUnion {
	result := newReducedUnion()
	if cv.hasFirstBitSet() {
		result.addUnchecked(relPos{p.offset + 1, p.edit})
	}
	return result
}

// elemDelta applies the elementary transition of one position against
// the characteristic vector of the whole window, localized to the
// position's own relevant length.
func elemDelta(n, i, w int, p relPos, cv charVec) *reducedUnion {
	rl := relPosLen(n, i+int(p.offset), w, p.edit)

	loc := cv
	if rl < cv.size || p.offset > 0 {
		loc = cv.subrange(rl, 1+int(p.offset))
	}

	if int(p.edit) < n {
		return deltaI(p, loc)
	}
	return deltaII(p, loc)
}

// tableEntry is one outer slot of the memoized transition table: a
// reduced union together with its per-char-vec images.
type tableEntry struct {
	union       *reducedUnion
	transitions map[charVec]*reducedUnion
}

// lazyTable memoizes transitions for one tolerance. Entries are only
// ever added, never removed or updated, so the table is shared safely
// across every query at the same tolerance.
type lazyTable struct {
	n  int
	mu sync.Mutex
	// buckets chains entries by union hash; equality disambiguates.
	buckets map[uint32][]*tableEntry
}

func newLazyTable(n int) *lazyTable {
	t := &lazyTable{n: n, buckets: make(map[uint32][]*tableEntry)}

	zero := newReducedUnion()
	zero.addUnchecked(relPos{0, 0})
	t.entry(zero)

	return t
}

// relStateLen is the window width for a state based at i: up to 2n+1
// code points, clipped at the query end.
func (t *lazyTable) relStateLen(i, w int) int {
	if w < i {
		panic("leven: state base beyond query end")
	}
	return min(2*t.n+1, w-i)
}

// entry finds or creates the slot for u. Caller holds t.mu (or is the
// constructor).
func (t *lazyTable) entry(u *reducedUnion) *tableEntry {
	h := u.hash()
	for _, e := range t.buckets[h] {
		if e.union.equal(u) {
			return e
		}
	}
	e := &tableEntry{union: u, transitions: make(map[charVec]*reducedUnion)}
	t.buckets[h] = append(t.buckets[h], e)
	return e
}

// delta returns the unpinned image of the pinned state under cv,
// computing and storing it on first use.
func (t *lazyTable) delta(s *State, w int, cv charVec) *reducedUnion {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.entry(s.positions)
	if image, ok := e.transitions[cv]; ok {
		return image
	}

	image := newReducedUnion()
	for _, p := range s.positions.positions {
		image.update(elemDelta(t.n, s.base, w, p, cv))
	}
	e.transitions[cv] = image
	return image
}

// Cache holds one lazy transition table per tolerance. A single Cache
// can serve every query in the process; the tables it hands out are
// monotonic and internally synchronized.
type Cache struct {
	mu     sync.Mutex
	tables map[int]*lazyTable
}

// NewCache creates an empty transition-table cache.
func NewCache() *Cache {
	return &Cache{tables: make(map[int]*lazyTable)}
}

func (c *Cache) table(n int) *lazyTable {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tables[n]
	if !ok {
		t = newLazyTable(n)
		c.tables[n] = t
	}
	return t
}
