// Package ingest turns a text corpus into the word set the dictionary
// is built from.
package ingest

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"unicode"
)

// ReadWords reads a text file, splits it on non-word characters and
// returns the distinct words in byte-lexicographic order.
func ReadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read words %s: %w", path, err)
	}
	defer f.Close()

	set := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		for _, word := range SplitWords(scanner.Text()) {
			set[word] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read words %s: %w", path, err)
	}

	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return words, nil
}

// SplitWords extracts the maximal runs of word runes from a line.
func SplitWords(line string) []string {
	var words []string
	start := -1
	for i, r := range line {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, line[start:i])
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, line[start:])
	}
	return words
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
