package output

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/maxvaer/shockprobe/internal/scanner"
)

const tableTitle = "Shellshock Test Results"

// TableWriter renders outcomes as a coloured table once all results are in.
type TableWriter struct {
	w       io.Writer
	summary io.Writer
	quiet   bool
	rows    []*scanner.Outcome

	header  *color.Color
	url     *color.Color
	vuln    *color.Color
	clean   *color.Color
	failed  *color.Color
	details *color.Color
}

// NewTableWriter creates a table writer on w. The summary line goes to
// summary (usually stderr) unless quiet is set.
func NewTableWriter(w, summary io.Writer, noColor, quiet bool) *TableWriter {
	t := &TableWriter{
		w:       w,
		summary: summary,
		quiet:   quiet,
		header:  color.New(color.Bold, color.FgMagenta),
		url:     color.New(color.FgCyan),
		vuln:    color.New(color.Bold, color.FgRed),
		clean:   color.New(color.FgGreen),
		failed:  color.New(color.FgYellow),
		details: color.New(color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{t.header, t.url, t.vuln, t.clean, t.failed, t.details} {
			c.DisableColor()
		}
	}
	return t
}

func (t *TableWriter) WriteHeader() error { return nil }

func (t *TableWriter) WriteResult(result *scanner.Outcome) error {
	cpy := *result
	t.rows = append(t.rows, &cpy)
	return nil
}

func (t *TableWriter) WriteFooter(stats Stats) error {
	urlW, statusW := len("URL"), len("Status")
	for _, r := range t.rows {
		urlW = max(urlW, utf8.RuneCountInString(r.URL))
		statusW = max(statusW, utf8.RuneCountInString(r.Verdict.String()))
	}

	if _, err := fmt.Fprintf(t.w, "\n  %s\n\n", t.header.Sprint(tableTitle)); err != nil {
		return err
	}
	fmt.Fprintf(t.w, "  %s  %s  %s\n",
		t.header.Sprint(pad("URL", urlW)),
		t.header.Sprint(pad("Status", statusW)),
		t.header.Sprint("Details"))
	fmt.Fprintf(t.w, "  %s  %s  %s\n",
		strings.Repeat("─", urlW), strings.Repeat("─", statusW), strings.Repeat("─", len("Details")))

	for _, r := range t.rows {
		_, err := fmt.Fprintf(t.w, "  %s  %s  %s\n",
			t.url.Sprint(pad(r.URL, urlW)),
			t.colorForVerdict(r.Verdict).Sprint(pad(r.Verdict.String(), statusW)),
			t.details.Sprint(r.Detail),
		)
		if err != nil {
			return err
		}
	}

	if t.quiet || t.summary == nil {
		return nil
	}
	_, err := fmt.Fprintf(t.summary,
		"\nCompleted: %d targets | Vulnerable: %d | Not vulnerable: %d | Errors: %d | Duration: %s | %.1f req/s\n",
		stats.Total,
		stats.Vulnerable,
		stats.NotVulnerable,
		stats.Errors,
		stats.Duration.Round(time.Millisecond),
		stats.RequestsPerSec,
	)
	return err
}

func (t *TableWriter) Close() error { return nil }

func (t *TableWriter) colorForVerdict(v scanner.Verdict) *color.Color {
	switch v {
	case scanner.Vulnerable:
		return t.vuln
	case scanner.NotVulnerable:
		return t.clean
	default:
		return t.failed
	}
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
