package output

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Progress renders a live progress bar for the probe batch. A disabled
// Progress accepts increments and draws nothing.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a progress bar on w sized to total probes.
func NewProgress(total int, w io.Writer, enabled, noColor bool) *Progress {
	if !enabled || total == 0 {
		return &Progress{}
	}
	desc := "[cyan]Testing URLs...[reset]"
	saucer, head := "[green]=[reset]", "[green]>[reset]"
	if noColor {
		desc, saucer, head = "Testing URLs...", "=", ">"
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(!noColor),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        saucer,
			SaucerHead:    head,
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return &Progress{bar: bar}
}

// Increment records one finished probe.
func (p *Progress) Increment() {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// Stop finishes and clears the bar.
func (p *Progress) Stop() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
