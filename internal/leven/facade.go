package leven

import (
	"errors"
	"fmt"

	"GoFuzzyDict/internal/codec"
)

// MaxTolerance is the largest supported edit distance. The window of a
// state spans up to 2n+1 query code points and must fit the 32-bit
// characteristic vector.
const MaxTolerance = 15

// ErrToleranceTooBig is returned when a facade is requested for a
// tolerance above MaxTolerance.
var ErrToleranceTooBig = errors.New("tolerance exceeds maximum of 15")

// State is one deterministic state of the automaton: a reduced union of
// positions relative to base, an absolute index into the query's code
// points. States handed out by the package are always pinned: the
// minimum offset across positions is zero.
type State struct {
	base      int
	positions *reducedUnion
}

func (s *State) String() string {
	return fmt.Sprintf("%d: %s", s.base, s.positions)
}

// InitialState is the automaton's start state: base 0, single position
// (0,0).
func InitialState() *State {
	zero := newReducedUnion()
	zero.addUnchecked(relPos{0, 0})
	return &State{base: 0, positions: zero}
}

// Facade drives the automaton for one query word at one tolerance. It
// is cheap to share between iterators over the same query.
type Facade struct {
	word  []uint32
	w     int
	table *lazyTable
}

// NewFacade binds a query word to the cached transition table for
// tolerance n. The word must be valid UTF-8 and n at most MaxTolerance.
func NewFacade(cache *Cache, word string, n int) (*Facade, error) {
	if n > MaxTolerance {
		return nil, ErrToleranceTooBig
	}
	cps, err := codec.DecodeString(word)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", word, err)
	}
	return &Facade{word: cps, w: len(cps), table: cache.table(n)}, nil
}

// IsFinal reports whether some position can still reach the query end
// within the remaining edit budget.
func (f *Facade) IsFinal(s *State) bool {
	n := f.table.n
	for _, p := range s.positions.positions {
		if p.edit < 0 || p.offset < 0 {
			panic("leven: negative position")
		}
		if f.w+int(p.edit) <= n+s.base+int(p.offset) {
			return true
		}
	}
	return false
}

// Delta advances the pinned state by one input code point. It returns
// nil when the image is empty, i.e. the automaton rejects.
func (f *Facade) Delta(s *State, letter uint32) *State {
	if s.positions.raiseLevel() != 0 {
		panic("leven: delta on unpinned state")
	}

	i := s.base
	rl := f.table.relStateLen(i, f.w)
	cv := makeCharVec(f.word[i:i+rl], letter)

	image := f.table.delta(s, f.w, cv)
	if image.isEmpty() {
		return nil
	}

	di := image.raiseLevel()
	cc := image
	if di != 0 {
		cc = image.subtract(di)
	}
	return &State{base: i + int(di), positions: cc}
}
