package output

import (
	"encoding/csv"

	"github.com/maxvaer/shockprobe/internal/scanner"
)

var csvColumns = []string{"url", "status", "details"}

// CSVWriter writes one url,status,details row per outcome.
type CSVWriter struct {
	out  *sink
	rows *csv.Writer
}

// NewCSVWriter creates a CSV writer for path; an empty path writes to stdout.
func NewCSVWriter(path string) (*CSVWriter, error) {
	out, err := openSink(path)
	if err != nil {
		return nil, err
	}
	return &CSVWriter{out: out, rows: csv.NewWriter(out)}, nil
}

func (c *CSVWriter) WriteHeader() error {
	return c.rows.Write(csvColumns)
}

func (c *CSVWriter) WriteResult(o *scanner.Outcome) error {
	return c.rows.Write([]string{o.URL, o.Verdict.String(), o.Detail})
}

// WriteFooter moves buffered rows into the sink; they reach disk on Close.
func (c *CSVWriter) WriteFooter(_ Stats) error {
	c.rows.Flush()
	return c.rows.Error()
}

func (c *CSVWriter) Close() error {
	return c.out.Close()
}
