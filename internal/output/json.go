package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/maxvaer/shockprobe/internal/scanner"
)

// Entry is the persisted form of one outcome, keyed by URL in the file.
type Entry struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

// JSONWriter writes results as a JSON object keyed by URL.
type JSONWriter struct {
	out     *sink
	entries map[string]Entry
}

// NewJSONWriter creates a JSON output writer. An empty outputFile writes
// to stdout.
func NewJSONWriter(outputFile string) (*JSONWriter, error) {
	out, err := openSink(outputFile)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{out: out, entries: make(map[string]Entry)}, nil
}

func (j *JSONWriter) WriteHeader() error { return nil }

func (j *JSONWriter) WriteResult(result *scanner.Outcome) error {
	j.entries[result.URL] = Entry{
		Status:  result.Verdict.String(),
		Details: result.Detail,
	}
	return nil
}

func (j *JSONWriter) WriteFooter(_ Stats) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(j.entries)
}

func (j *JSONWriter) Close() error {
	return j.out.Close()
}

// LoadJSON reads a results file written by JSONWriter.
func LoadJSON(path string) (map[string]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}
	entries := make(map[string]Entry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing results file: %w", err)
	}
	for url, e := range entries {
		if _, err := scanner.ParseVerdict(e.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", url, err)
		}
	}
	return entries, nil
}
