// Package dawg builds a deterministic acyclic word graph: the minimal
// DFA accepting exactly a finite set of words. Construction is the
// incremental algorithm for sorted input from Incremental Construction
// of Minimal Acyclic Finite-State Automata by Daciuk, Mihov, Watson and
// Watson.
package dawg

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"GoFuzzyDict/internal/codec"
)

// State is one node of the graph: a fixed final flag plus children
// ordered by code-point label. States are shared; a state never gains
// or loses children once the builder has canonicalized it.
type State struct {
	id     int
	final  bool
	labels []uint32
	childs []*State
}

// Final reports whether a word may end in this state.
func (s *State) Final() bool {
	return s.final
}

// Len returns the number of children.
func (s *State) Len() int {
	return len(s.labels)
}

// At returns the i-th child and its code-point label, in label order.
func (s *State) At(i int) (uint32, *State) {
	return s.labels[i], s.childs[i]
}

// Child returns the child under the given label, or nil.
func (s *State) Child(label uint32) *State {
	i := sort.Search(len(s.labels), func(j int) bool {
		return s.labels[j] >= label
	})
	if i < len(s.labels) && s.labels[i] == label {
		return s.childs[i]
	}
	return nil
}

func (s *State) hasChildren() bool {
	return len(s.labels) > 0
}

func (s *State) lastChild() *State {
	if len(s.childs) == 0 {
		return nil
	}
	return s.childs[len(s.childs)-1]
}

// setLastChild redirects the highest-label child pointer. Only the
// not-yet-canonical state being finalized is ever rewritten.
func (s *State) setLastChild(child *State) {
	if len(s.childs) == 0 {
		panic("dawg: set last child of childless state")
	}
	s.childs[len(s.childs)-1] = child
}

// addChild appends a child under a label greater than any present one.
// Sorted input guarantees new labels always arrive in increasing order
// at any given state.
func (s *State) addChild(label uint32, child *State) {
	if len(s.labels) > 0 && label <= s.labels[len(s.labels)-1] {
		panic(fmt.Sprintf("dawg: child label %#x out of order", label))
	}
	s.labels = append(s.labels, label)
	s.childs = append(s.childs, child)
}

// registerKey encodes the structural identity of a state: the final
// flag and the ordered (label, child identity) pairs. Two states with
// equal keys accept the same language given that children are already
// canonical.
func (s *State) registerKey() string {
	var sb strings.Builder
	if s.final {
		sb.WriteByte('t')
	} else {
		sb.WriteByte('f')
	}
	for i, label := range s.labels {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatUint(uint64(label), 16))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(s.childs[i].id))
	}
	return sb.String()
}

// String renders the subgraph for diagnostics.
func (s *State) String() string {
	var sb strings.Builder
	s.dump(&sb)
	return sb.String()
}

func (s *State) dump(sb *strings.Builder) {
	if s.final {
		sb.WriteByte('t')
	} else {
		sb.WriteByte('f')
	}
	sb.WriteString(" {")
	delim := " "
	var buf [5]byte
	for i, label := range s.labels {
		sb.WriteString(delim)
		sb.WriteByte('\'')
		l := codec.Encode(buf[:], label)
		sb.Write(buf[:l])
		sb.WriteString("': ")
		s.childs[i].dump(sb)
		delim = ", "
	}
	sb.WriteString(" }")
}

// Dawg is the built graph. It is immutable and freely shareable.
type Dawg struct {
	root *State
}

// Root returns the start state.
func (d *Dawg) Root() *State {
	return d.root
}

// Accepts reports whether the word is in the accepted set. The word
// must be valid UTF-8.
func (d *Dawg) Accepts(word string) (bool, error) {
	cps, err := codec.DecodeString(word)
	if err != nil {
		return false, fmt.Errorf("word %q: %w", word, err)
	}

	state := d.root
	for _, cp := range cps {
		state = state.Child(cp)
		if state == nil {
			return false, nil
		}
	}
	return state.final, nil
}

// trackPrefix walks the longest prefix of the word present in the
// graph and returns its length in code points together with the state
// it ends in.
func (d *Dawg) trackPrefix(cps []uint32) (int, *State) {
	state := d.root
	for i, cp := range cps {
		next := state.Child(cp)
		if next == nil {
			return i, state
		}
		state = next
	}
	return len(cps), state
}

type builder struct {
	dawg     *Dawg
	register map[string]*State
	nextID   int
}

func newBuilder(rootFinal bool) *builder {
	b := &builder{
		dawg:     &Dawg{},
		register: make(map[string]*State),
	}
	b.dawg.root = b.newState(rootFinal)
	return b
}

func (b *builder) newState(final bool) *State {
	s := &State{id: b.nextID, final: final}
	b.nextID++
	return s
}

func (b *builder) build(words []string) error {
	for _, word := range words {
		cps, err := codec.DecodeString(word)
		if err != nil {
			return fmt.Errorf("word %q: %w", word, err)
		}

		prefixLen, last := b.dawg.trackPrefix(cps)
		if last.hasChildren() {
			b.replaceOrRegister(last)
		}
		b.addSuffix(last, cps[prefixLen:])
	}

	b.replaceOrRegister(b.dawg.root)
	return nil
}

// replaceOrRegister canonicalizes the chain hanging off the last child
// of state, bottom-up. Only the last child can still be mutating, so
// every other subtree is already canonical.
func (b *builder) replaceOrRegister(state *State) {
	child := state.lastChild()
	if child == nil {
		return
	}
	if child.hasChildren() {
		b.replaceOrRegister(child)
	}

	key := child.registerKey()
	if canonical, ok := b.register[key]; ok {
		if canonical != child {
			state.setLastChild(canonical)
		}
		return
	}
	b.register[key] = child
}

// addSuffix appends the remaining code points as a fresh linear chain;
// the chain's last state is final.
func (b *builder) addSuffix(state *State, suffix []uint32) {
	prev := state
	for i, cp := range suffix {
		next := b.newState(i == len(suffix)-1)
		prev.addChild(cp, next)
		prev = next
	}
}

// MakeDawg builds the minimal DFA for the given words. The input is
// copied and sorted byte-lexicographically, which for valid UTF-8
// coincides with code-point order. Duplicates are tolerated: re-adding
// an existing word is a no-op.
func MakeDawg(words []string) (*Dawg, error) {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.Strings(sorted)

	rootFinal := len(sorted) == 0 || sorted[0] == ""
	b := newBuilder(rootFinal)
	if err := b.build(sorted); err != nil {
		return nil, err
	}
	return b.dawg, nil
}
