package logger

import (
	"io"
	"log/slog"
	"time"
)

// Options controls verbosity of the run logger.
type Options struct {
	Quiet   bool // only warnings and errors
	Verbose bool // include debug records
}

// New creates a text logger writing to w. Timestamps use the short
// wall-clock form so lines stay readable next to the progress bar.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case opts.Verbose:
		level = slog.LevelDebug
	case opts.Quiet:
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format("15:04:05"))
				}
			}
			return a
		},
	})
	return slog.New(handler)
}
