// Package testutil holds helpers shared by tests across the module.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"GoFuzzyDict/internal/dawg"
	"GoFuzzyDict/internal/leven"
	"GoFuzzyDict/internal/search"
)

// BuildDawg builds a DAWG or fails the test.
func BuildDawg(t *testing.T, words []string) *dawg.Dawg {
	t.Helper()
	d, err := dawg.MakeDawg(words)
	if err != nil {
		t.Fatalf("MakeDawg(%v): %v", words, err)
	}
	return d
}

// Search runs a full product search and returns the matches in yield
// order.
func Search(t *testing.T, query string, n int, d *dawg.Dawg, cache *leven.Cache) []string {
	t.Helper()
	it, err := search.NewIterator(query, n, d, cache)
	if err != nil {
		t.Fatalf("NewIterator(%q, %d): %v", query, n, err)
	}
	var out []string
	for {
		word, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, word)
	}
}

// Sorted returns a sorted copy of words.
func Sorted(words []string) []string {
	out := make([]string, len(words))
	copy(out, words)
	sort.Strings(out)
	return out
}

// WriteCorpus writes lines to a temp file and returns its path.
func WriteCorpus(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	data := ""
	for _, line := range lines {
		data += line + "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	return path
}

// SampleWords is a small mixed-script dictionary used by several tests.
func SampleWords() []string {
	return []string{
		"meter", "otter", "potter", "this", "that", "other",
		"naïve", "née", "übung", "schön", "日本", "日本語",
	}
}
