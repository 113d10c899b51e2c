// Package search enumerates dictionary words within a given edit
// distance of a query by driving the dictionary DFA and the Levenshtein
// automaton in lockstep over a FIFO frontier.
package search

import (
	"GoFuzzyDict/internal/codec"
	"GoFuzzyDict/internal/dawg"
	"GoFuzzyDict/internal/leven"
)

type queueItem struct {
	candidate  []byte
	dawgState  *dawg.State
	levenState *leven.State
}

type payload struct {
	facade  *leven.Facade
	queue   []queueItem
	current string
	valid   bool
}

// Iterator is a lazy, pull-based sequence of matching words. Copies
// share the same traversal. Because each state's children are visited
// in code-point order and the frontier is first-in first-out, the yield
// order is a stable function of (dictionary, query, tolerance): shorter
// candidates first, then by code-point sequence.
type Iterator struct {
	p *payload
}

// NewIterator starts the product traversal of the dictionary and the
// Levenshtein automaton of (query, n). The transition tables behind
// cache are shared across iterators.
func NewIterator(query string, n int, d *dawg.Dawg, cache *leven.Cache) (*Iterator, error) {
	facade, err := leven.NewFacade(cache, query, n)
	if err != nil {
		return nil, err
	}

	p := &payload{
		facade: facade,
		queue: []queueItem{{
			candidate:  nil,
			dawgState:  d.Root(),
			levenState: leven.InitialState(),
		}},
	}
	p.advance()
	return &Iterator{p: p}, nil
}

// advance pops frontier items until a match is found or the frontier
// drains. A match's children are still expanded in the same pass: a
// matching word can be a prefix of longer matches.
func (p *payload) advance() {
	var buf [5]byte

	p.valid = false
	for !p.valid && len(p.queue) > 0 {
		item := p.queue[0]
		p.queue = p.queue[1:]

		if item.dawgState.Final() && p.facade.IsFinal(item.levenState) {
			p.current = string(item.candidate)
			p.valid = true
		}

		for i := 0; i < item.dawgState.Len(); i++ {
			cp, child := item.dawgState.At(i)
			next := p.facade.Delta(item.levenState, cp)
			if next == nil {
				continue
			}

			l := codec.Encode(buf[:], cp)
			candidate := make([]byte, 0, len(item.candidate)+l)
			candidate = append(candidate, item.candidate...)
			candidate = append(candidate, buf[:l]...)

			p.queue = append(p.queue, queueItem{
				candidate:  candidate,
				dawgState:  child,
				levenState: next,
			})
		}
	}
}

// Next returns the next matching word, or ok=false once the traversal
// is exhausted. Exhausted and zero-value iterators behave alike.
func (it *Iterator) Next() (string, bool) {
	if it.p == nil || !it.p.valid {
		return "", false
	}
	current := it.p.current
	it.p.advance()
	return current, true
}
