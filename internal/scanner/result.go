package scanner

import (
	"fmt"
	"time"
)

// Verdict classifies a single probe attempt. The zero Verdict is Error, so
// an Outcome nobody classified never counts as a clean target.
type Verdict int

const (
	Error Verdict = iota
	NotVulnerable
	Vulnerable
)

func (v Verdict) String() string {
	switch v {
	case Vulnerable:
		return "Vulnerable"
	case NotVulnerable:
		return "Not Vulnerable"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// ParseVerdict is the inverse of Verdict.String.
func ParseVerdict(s string) (Verdict, error) {
	switch s {
	case "Vulnerable":
		return Vulnerable, nil
	case "Not Vulnerable":
		return NotVulnerable, nil
	case "Error":
		return Error, nil
	}
	return Error, fmt.Errorf("unknown verdict %q", s)
}

func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Verdict) UnmarshalText(b []byte) error {
	parsed, err := ParseVerdict(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Outcome holds the result of probing one target.
type Outcome struct {
	Index         int // position in the input list
	URL           string
	Verdict       Verdict
	StatusCode    int
	ContentLength int64
	Detail        string
	Duration      time.Duration
	Err           error // set when Verdict == Error
}

func errorOutcome(item WorkItem, err error) Outcome {
	return Outcome{
		Index:   item.Index,
		URL:     item.URL,
		Verdict: Error,
		Detail:  err.Error(),
		Err:     err,
	}
}
