package output

import (
	"sort"

	"github.com/maxvaer/shockprobe/internal/scanner"
)

// SortedWriter buffers results and replays them sorted by a field when
// WriteFooter is called. It wraps any other Writer.
type SortedWriter struct {
	inner   Writer
	sortBy  string
	results []*scanner.Outcome
}

// NewSortedWriter wraps inner and buffers results for sorted replay.
// sortBy is "input", "verdict" or "url"; "none" and "" return inner as is.
func NewSortedWriter(inner Writer, sortBy string) Writer {
	if sortBy == "" || sortBy == "none" {
		return inner
	}
	return &SortedWriter{inner: inner, sortBy: sortBy}
}

func (w *SortedWriter) WriteHeader() error {
	return w.inner.WriteHeader()
}

func (w *SortedWriter) WriteResult(result *scanner.Outcome) error {
	cpy := *result
	w.results = append(w.results, &cpy)
	return nil
}

func (w *SortedWriter) WriteFooter(stats Stats) error {
	sort.SliceStable(w.results, func(i, j int) bool {
		a, b := w.results[i], w.results[j]
		switch w.sortBy {
		case "verdict":
			if a.Verdict != b.Verdict {
				return verdictRank(a.Verdict) < verdictRank(b.Verdict)
			}
			return a.Index < b.Index
		case "url":
			return a.URL < b.URL
		default:
			return a.Index < b.Index
		}
	})
	for _, r := range w.results {
		if err := w.inner.WriteResult(r); err != nil {
			return err
		}
	}
	return w.inner.WriteFooter(stats)
}

func (w *SortedWriter) Close() error {
	return w.inner.Close()
}

// verdictRank puts findings first, then errors, then clean targets.
func verdictRank(v scanner.Verdict) int {
	switch v {
	case scanner.Vulnerable:
		return 0
	case scanner.Error:
		return 1
	default:
		return 2
	}
}
