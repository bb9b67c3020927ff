package output

import (
	"fmt"
	"time"

	"github.com/maxvaer/shockprobe/internal/scanner"
)

// Stats holds aggregate run statistics.
type Stats struct {
	Total          int
	Vulnerable     int
	NotVulnerable  int
	Errors         int
	Duration       time.Duration
	RequestsPerSec float64
}

// Writer is implemented by each output format.
type Writer interface {
	WriteHeader() error
	WriteResult(result *scanner.Outcome) error
	WriteFooter(stats Stats) error
	Close() error
}

// StatsFor tallies outcomes for the summary line.
func StatsFor(outcomes []scanner.Outcome, elapsed time.Duration) Stats {
	s := Stats{Total: len(outcomes), Duration: elapsed}
	for _, o := range outcomes {
		switch o.Verdict {
		case scanner.Vulnerable:
			s.Vulnerable++
		case scanner.NotVulnerable:
			s.NotVulnerable++
		default:
			s.Errors++
		}
	}
	if elapsed.Seconds() > 0 {
		s.RequestsPerSec = float64(s.Total) / elapsed.Seconds()
	}
	return s
}

// NewFileWriter creates the writer used to persist results to path.
func NewFileWriter(format, path string) (Writer, error) {
	switch format {
	case "json", "":
		return NewJSONWriter(path)
	case "csv":
		return NewCSVWriter(path)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// WriteAll streams outcomes through w: header, every result, footer.
func WriteAll(w Writer, outcomes []scanner.Outcome, stats Stats) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for i := range outcomes {
		if err := w.WriteResult(&outcomes[i]); err != nil {
			return err
		}
	}
	return w.WriteFooter(stats)
}
