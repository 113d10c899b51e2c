// Package harness cross-validates the automaton search against the
// dynamic-programming oracle over a real corpus, and records the
// results to a golden TSV for regression runs.
//
// The TSV starts with a meta row [input_path, tolerance, single_mode];
// every following row holds a query word and its matches in iteration
// order. When the result file already exists the harness re-runs every
// query and fails on any divergence.
package harness

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"GoFuzzyDict/internal/dawg"
	"GoFuzzyDict/internal/distance"
	"GoFuzzyDict/internal/ingest"
	"GoFuzzyDict/internal/leven"
	"GoFuzzyDict/internal/search"
	"GoFuzzyDict/internal/storage"
)

// ErrMismatch is wrapped by every verification failure, whether against
// the oracle or against a recorded golden file.
var ErrMismatch = errors.New("result mismatch")

// Config selects the corpus, the golden file and the search parameters.
type Config struct {
	// Input is the corpus path; its words form both the dictionary and
	// the query list.
	Input string
	// Result is the golden TSV path. Absent: record. Present: verify.
	Result string
	// Tolerance is the maximum edit distance.
	Tolerance int
	// SingleDict keeps the full dictionary for every query instead of
	// removing the query word before each search.
	SingleDict bool
}

// Runner executes one cross-test run.
type Runner struct {
	cfg   Config
	log   *slog.Logger
	cache *leven.Cache
}

// New creates a runner. The logger must not be nil.
func New(cfg Config, log *slog.Logger) *Runner {
	return &Runner{cfg: cfg, log: log, cache: leven.NewCache()}
}

// Run records or verifies the golden file, depending on whether it
// exists. The returned error wraps ErrMismatch for any divergence.
func (r *Runner) Run() error {
	input, err := filepath.Abs(r.cfg.Input)
	if err != nil {
		return fmt.Errorf("resolve input %s: %w", r.cfg.Input, err)
	}

	words, err := ingest.ReadWords(input)
	if err != nil {
		return err
	}
	r.log.Info("corpus loaded", "path", input, "words", len(words))

	if storage.FileExists(r.cfg.Result) {
		return r.verify(input, words)
	}
	return r.record(input, words)
}

// matches runs the product search and collects its yield in order.
func (r *Runner) matches(query string, d *dawg.Dawg) ([]string, error) {
	it, err := search.NewIterator(query, r.cfg.Tolerance, d, r.cache)
	if err != nil {
		return nil, err
	}
	var out []string
	for {
		word, ok := it.Next()
		if !ok {
			return out, nil
		}
		out = append(out, word)
	}
}

// dictionaries iterates the corpus words as queries, handing fn the
// query and the dictionary DAWG to search. Without SingleDict the
// current query is removed from the dictionary first and the previous
// one restored, so a query never trivially matches itself.
func (r *Runner) dictionaries(words []string, fn func(query string, dict map[string]bool, d *dawg.Dawg) error) error {
	dict := make(map[string]bool, len(words))
	for _, w := range words {
		dict[w] = true
	}

	d, err := dawg.MakeDawg(words)
	if err != nil {
		return err
	}

	prev := ""
	for i, query := range words {
		if !r.cfg.SingleDict {
			delete(dict, query)
			if i > 0 {
				dict[prev] = true
			}
			prev = query

			rest := make([]string, 0, len(dict))
			for w := range dict {
				rest = append(rest, w)
			}
			if d, err = dawg.MakeDawg(rest); err != nil {
				return err
			}
		}

		if err := fn(query, dict, d); err != nil {
			return err
		}
	}
	return nil
}

// checkAgainstOracle validates one query's matches for soundness and
// completeness against the reference distance.
func (r *Runner) checkAgainstOracle(query string, found []string, dict map[string]bool) error {
	matched := make(map[string]bool, len(found))
	for _, w := range found {
		matched[w] = true
		if !dict[w] {
			return fmt.Errorf("%w: query %q matched %q, which is not in the dictionary", ErrMismatch, query, w)
		}
		dist, err := distance.Distance(query, w)
		if err != nil {
			return err
		}
		if dist > r.cfg.Tolerance {
			return fmt.Errorf("%w: query %q matched %q at distance %d > %d", ErrMismatch, query, w, dist, r.cfg.Tolerance)
		}
	}

	for w := range dict {
		if matched[w] {
			continue
		}
		dist, err := distance.Distance(query, w)
		if err != nil {
			return err
		}
		if dist <= r.cfg.Tolerance {
			return fmt.Errorf("%w: query %q missed %q at distance %d", ErrMismatch, query, w, dist)
		}
	}
	return nil
}

func (r *Runner) metaRow(input string) []string {
	single := "0"
	if r.cfg.SingleDict {
		single = "1"
	}
	return []string{input, strconv.Itoa(r.cfg.Tolerance), single}
}

// record runs every query against the oracle and writes the golden
// file on success.
func (r *Runner) record(input string, words []string) error {
	rows := [][]string{r.metaRow(input)}

	err := r.dictionaries(words, func(query string, dict map[string]bool, d *dawg.Dawg) error {
		r.log.Debug("testing", "query", query)
		found, err := r.matches(query, d)
		if err != nil {
			return err
		}
		if err := r.checkAgainstOracle(query, found, dict); err != nil {
			return err
		}
		rows = append(rows, append([]string{query}, found...))
		return nil
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = '\t'
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := storage.AtomicWriteFile(r.cfg.Result, buf.Bytes()); err != nil {
		return err
	}
	r.log.Info("golden file recorded", "path", r.cfg.Result, "queries", len(rows)-1)
	return nil
}

// verify re-runs every query and compares against the recorded rows.
func (r *Runner) verify(input string, words []string) error {
	f, err := os.Open(r.cfg.Result)
	if err != nil {
		return fmt.Errorf("open result %s: %w", r.cfg.Result, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read result %s: %w", r.cfg.Result, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: result file is empty", ErrMismatch)
	}

	meta := r.metaRow(input)
	if len(rows[0]) != len(meta) {
		return fmt.Errorf("%w: three-column meta row expected", ErrMismatch)
	}
	for i, want := range meta {
		if rows[0][i] != want {
			return fmt.Errorf("%w: meta column %d changed: recorded %q, running with %q", ErrMismatch, i, rows[0][i], want)
		}
	}

	next := 1
	err = r.dictionaries(words, func(query string, _ map[string]bool, d *dawg.Dawg) error {
		r.log.Debug("testing", "query", query)
		if next >= len(rows) {
			return fmt.Errorf("%w: recorded result ends before query %q", ErrMismatch, query)
		}
		row := rows[next]
		next++

		found, err := r.matches(query, d)
		if err != nil {
			return err
		}
		want := append([]string{query}, found...)
		if len(row) != len(want) {
			return fmt.Errorf("%w: query %q: recorded %d cells, got %d", ErrMismatch, query, len(row), len(want))
		}
		for i := range want {
			if row[i] != want[i] {
				return fmt.Errorf("%w: query %q: cell %d: recorded %q, got %q", ErrMismatch, query, i, row[i], want[i])
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if next != len(rows) {
		return fmt.Errorf("%w: recorded result has %d extra rows", ErrMismatch, len(rows)-next)
	}
	r.log.Info("golden file verified", "path", r.cfg.Result, "queries", next-1)
	return nil
}
