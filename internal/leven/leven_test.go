package leven

import (
	"testing"
)

// --- RelPos ---

func TestRelPos_Order(t *testing.T) {
	cases := []struct {
		a, b relPos
		want bool
	}{
		{relPos{0, 0}, relPos{0, 1}, true},
		{relPos{5, 0}, relPos{0, 1}, true}, // edit dominates offset
		{relPos{0, 1}, relPos{1, 1}, true},
		{relPos{1, 1}, relPos{1, 1}, false},
		{relPos{2, 1}, relPos{1, 1}, false},
	}
	for _, tc := range cases {
		if got := tc.a.less(tc.b); got != tc.want {
			t.Errorf("(%v).less(%v): got %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestRelPos_Subsumes(t *testing.T) {
	cases := []struct {
		p, q relPos
		want bool
	}{
		{relPos{0, 0}, relPos{0, 1}, true},
		{relPos{0, 0}, relPos{1, 1}, true},
		{relPos{0, 0}, relPos{2, 1}, false}, // too far for one extra edit
		{relPos{0, 0}, relPos{2, 2}, true},
		{relPos{0, 1}, relPos{0, 0}, false}, // never subsumes downward
		{relPos{0, 0}, relPos{0, 0}, false}, // never itself
		{relPos{3, 1}, relPos{1, 3}, true},
		{relPos{3, 1}, relPos{0, 3}, false},
	}
	for _, tc := range cases {
		if got := tc.p.subsumes(tc.q); got != tc.want {
			t.Errorf("(%v).subsumes(%v): got %v, want %v", tc.p, tc.q, got, tc.want)
		}
	}
}

// --- CharVec ---

func TestCharVec_Subrange(t *testing.T) {
	v := charVec{bits: 0b10110, size: 5}

	cases := []struct {
		sz, sh   int
		wantBits uint32
		wantSize int
	}{
		{5, 1, 0b10110, 5},
		{3, 1, 0b110, 3},
		{3, 2, 0b011, 3},
		{2, 3, 0b01, 2},
		{1, 5, 0b1, 1},
		{0, 3, 0, 0},
		{4, 4, 0b0010, 4}, // zero-extended past the top
	}
	for _, tc := range cases {
		got := v.subrange(tc.sz, tc.sh)
		if got.bits != tc.wantBits || got.size != tc.wantSize {
			t.Errorf("subrange(%d, %d): got {%#b %d}, want {%#b %d}",
				tc.sz, tc.sh, got.bits, got.size, tc.wantBits, tc.wantSize)
		}
	}
}

func TestCharVec_IndexOfSetBit(t *testing.T) {
	cases := []struct {
		bits uint32
		want int16
	}{
		{0b1, 1}, {0b10, 2}, {0b100, 3}, {0b1010, 2}, {1 << 30, 31},
	}
	for _, tc := range cases {
		v := charVec{bits: tc.bits, size: maxLen}
		if got := v.indexOfSetBit(); got != tc.want {
			t.Errorf("indexOfSetBit(%#b): got %d, want %d", tc.bits, got, tc.want)
		}
	}
}

func TestMakeCharVec(t *testing.T) {
	window := []uint32{'a', 'b', 'a', 'c', 'a'}
	v := makeCharVec(window, 'a')
	if v.bits != 0b10101 || v.size != 5 {
		t.Errorf("makeCharVec: got {%#b %d}", v.bits, v.size)
	}
	v = makeCharVec(window, 'x')
	if v.bits != 0 || v.size != 5 {
		t.Errorf("makeCharVec miss: got {%#b %d}", v.bits, v.size)
	}
	v = makeCharVec(nil, 'a')
	if !v.isEmpty() {
		t.Error("empty window should give an empty vector")
	}
}

// --- ReducedUnion ---

func positionsOf(u *reducedUnion) []relPos {
	return u.positions
}

func TestReducedUnion_AddKeepsInvariants(t *testing.T) {
	u := newReducedUnion()
	u.add(relPos{1, 1})
	u.add(relPos{0, 0})
	u.add(relPos{1, 1}) // re-added, now subsumed by (0,0)
	u.add(relPos{2, 2}) // subsumed by (0,0)
	u.add(relPos{0, 2}) // subsumed by (0,0)

	got := positionsOf(u)
	if len(got) != 1 || got[0] != (relPos{0, 0}) {
		t.Fatalf("union: got %v, want [(0,0)]", got)
	}
}

func TestReducedUnion_AddDropsLaterSubsumed(t *testing.T) {
	u := newReducedUnion()
	u.addUnchecked(relPos{0, 1})
	u.addUnchecked(relPos{2, 1})
	u.add(relPos{1, 0}) // subsumes both

	got := positionsOf(u)
	if len(got) != 1 || got[0] != (relPos{1, 0}) {
		t.Fatalf("union: got %v, want [(1,0)]", got)
	}
}

func TestReducedUnion_SortedOrder(t *testing.T) {
	u := newReducedUnion()
	u.add(relPos{3, 2})
	u.add(relPos{0, 2})
	u.add(relPos{5, 2})

	got := positionsOf(u)
	for i := 1; i < len(got); i++ {
		if !got[i-1].less(got[i]) {
			t.Fatalf("union out of order: %v", got)
		}
	}
}

func TestReducedUnion_HashStability(t *testing.T) {
	build := func() *reducedUnion {
		u := newReducedUnion()
		u.add(relPos{0, 0})
		u.add(relPos{3, 2})
		return u
	}
	u1, u2 := build(), build()
	if !u1.equal(u2) {
		t.Fatal("identically built unions differ")
	}
	if u1.hash() != u2.hash() {
		t.Error("equal unions hash differently")
	}
	// Cached value stays stable across calls.
	if u1.hash() != u1.hash() {
		t.Error("hash not stable")
	}
}

func TestReducedUnion_HashInvalidatedByAdd(t *testing.T) {
	u := newReducedUnion()
	u.add(relPos{0, 1})
	h := u.hash()
	u.add(relPos{1, 0})
	if u.hash() == h {
		t.Error("hash unchanged after mutation")
	}
}

func TestReducedUnion_Subtract(t *testing.T) {
	u := newReducedUnion()
	u.addUnchecked(relPos{2, 0})
	u.addUnchecked(relPos{3, 1})
	if u.raiseLevel() != 2 {
		t.Fatalf("raiseLevel: got %d, want 2", u.raiseLevel())
	}

	s := u.subtract(2)
	got := positionsOf(s)
	if got[0] != (relPos{0, 0}) || got[1] != (relPos{1, 1}) {
		t.Errorf("subtract: got %v", got)
	}
	if s.raiseLevel() != 0 {
		t.Error("subtracted union should be pinned")
	}
	// The source union is untouched.
	if u.raiseLevel() != 2 {
		t.Error("subtract mutated its receiver")
	}
}

func TestReducedUnion_RaiseLevelEmpty(t *testing.T) {
	if newReducedUnion().raiseLevel() != 0 {
		t.Error("empty union raise level should be 0")
	}
}

// --- Facade ---

func TestNewFacade_ToleranceLimit(t *testing.T) {
	cache := NewCache()
	if _, err := NewFacade(cache, "word", MaxTolerance); err != nil {
		t.Errorf("n=15 should work: %v", err)
	}
	if _, err := NewFacade(cache, "word", MaxTolerance+1); err == nil {
		t.Error("n=16 should fail")
	}
}

func TestNewFacade_InvalidUTF8(t *testing.T) {
	if _, err := NewFacade(NewCache(), string([]byte{0xc3}), 1); err == nil {
		t.Error("expected error for truncated UTF-8 query")
	}
}

func TestFacade_InitialAndFinal(t *testing.T) {
	cache := NewCache()

	// Empty query: the initial state is final for any n >= 0.
	f, err := NewFacade(cache, "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !f.IsFinal(InitialState()) {
		t.Error("initial state should be final for the empty query")
	}

	// Query "ab", n=1: one code point still missing is within budget.
	f, err = NewFacade(cache, "ab", 1)
	if err != nil {
		t.Fatal(err)
	}
	s := InitialState()
	if f.IsFinal(s) {
		t.Error("start should not be final for a 2-point query at n=1")
	}
	s = f.Delta(s, 'a')
	if s == nil {
		t.Fatal("delta('a') rejected")
	}
	if !f.IsFinal(s) {
		t.Error("after 'a', one deletion finishes within n=1")
	}
}

func TestFacade_ExactWalk(t *testing.T) {
	cache := NewCache()
	f, err := NewFacade(cache, "abc", 0)
	if err != nil {
		t.Fatal(err)
	}

	s := InitialState()
	for _, cp := range []uint32{'a', 'b', 'c'} {
		s = f.Delta(s, cp)
		if s == nil {
			t.Fatalf("exact walk rejected at %q", cp)
		}
	}
	if !f.IsFinal(s) {
		t.Error("exact walk should end final")
	}
	if f.Delta(s, 'd') != nil {
		t.Error("n=0 should reject a trailing insertion")
	}
}

func TestFacade_DeltaRejects(t *testing.T) {
	cache := NewCache()
	f, err := NewFacade(cache, "aaaa", 1)
	if err != nil {
		t.Fatal(err)
	}

	s := InitialState()
	s = f.Delta(s, 'x')
	if s == nil {
		t.Fatal("one substitution should survive at n=1")
	}
	if f.Delta(s, 'x') != nil {
		t.Error("two substitutions should be rejected at n=1")
	}
}

func TestFacade_StatesStayPinned(t *testing.T) {
	cache := NewCache()
	f, err := NewFacade(cache, "banana", 2)
	if err != nil {
		t.Fatal(err)
	}

	s := InitialState()
	for _, cp := range []uint32{'b', 'x', 'n', 'a', 'n'} {
		s = f.Delta(s, cp)
		if s == nil {
			break
		}
		if s.positions.raiseLevel() != 0 {
			t.Fatalf("state not pinned after %q: %v", cp, s)
		}
	}
}

func TestFacade_SharedTable(t *testing.T) {
	cache := NewCache()
	f1, err := NewFacade(cache, "first", 2)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := NewFacade(cache, "second", 2)
	if err != nil {
		t.Fatal(err)
	}
	if f1.table != f2.table {
		t.Error("same tolerance should share one lazy table")
	}

	f3, err := NewFacade(cache, "first", 3)
	if err != nil {
		t.Fatal(err)
	}
	if f1.table == f3.table {
		t.Error("different tolerances must not share tables")
	}
}

func TestLazyTable_MemoizesTransitions(t *testing.T) {
	cache := NewCache()
	f, err := NewFacade(cache, "abab", 1)
	if err != nil {
		t.Fatal(err)
	}

	s := InitialState()
	first := f.Delta(s, 'a')
	second := f.Delta(s, 'a')
	if first == nil || second == nil {
		t.Fatal("delta rejected")
	}
	if !first.positions.equal(second.positions) || first.base != second.base {
		t.Error("repeated delta disagrees")
	}
}

func TestDeltaI_Cases(t *testing.T) {
	p := relPos{0, 0}

	// Empty local vector: insertion only.
	got := positionsOf(deltaI(p, charVec{}))
	if len(got) != 1 || got[0] != (relPos{0, 1}) {
		t.Errorf("empty: got %v", got)
	}

	// Single-bit match.
	got = positionsOf(deltaI(p, charVec{bits: 1, size: 1}))
	if len(got) != 1 || got[0] != (relPos{1, 0}) {
		t.Errorf("match(1): got %v", got)
	}

	// Single-bit mismatch: insert or substitute.
	got = positionsOf(deltaI(p, charVec{bits: 0, size: 1}))
	if len(got) != 2 || got[0] != (relPos{0, 1}) || got[1] != (relPos{1, 1}) {
		t.Errorf("mismatch(1): got %v", got)
	}

	// Wide vector, first bit set: plain match.
	got = positionsOf(deltaI(p, charVec{bits: 0b01, size: 3}))
	if len(got) != 1 || got[0] != (relPos{1, 0}) {
		t.Errorf("match(3): got %v", got)
	}

	// Wide vector, hit at position 3: the jump costs two edits.
	got = positionsOf(deltaI(p, charVec{bits: 0b100, size: 3}))
	want := []relPos{{0, 1}, {1, 1}, {3, 2}}
	if len(got) != len(want) {
		t.Fatalf("jump: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("jump[%d]: got %v, want %v", i, got[i], want[i])
		}
	}

	// Wide vector with no hit at all.
	got = positionsOf(deltaI(p, charVec{bits: 0, size: 3}))
	if len(got) != 2 {
		t.Errorf("miss(3): got %v", got)
	}
}

func TestDeltaII_Cases(t *testing.T) {
	p := relPos{0, 1}

	got := positionsOf(deltaII(p, charVec{bits: 1, size: 1}))
	if len(got) != 1 || got[0] != (relPos{1, 1}) {
		t.Errorf("match: got %v", got)
	}
	if !deltaII(p, charVec{bits: 0, size: 1}).isEmpty() {
		t.Error("exhausted budget with mismatch should reject")
	}
	if !deltaII(p, charVec{}).isEmpty() {
		t.Error("exhausted budget with empty vector should reject")
	}
}
