package config

import (
	"errors"
	"fmt"
	"time"
)

// Defaults applied when neither flags, the config file nor the prompt
// supply a value.
const (
	DefaultThreads = 5
	DefaultTimeout = 10 * time.Second
	DefaultFormat  = "json"
	DefaultSortBy  = "input"
)

// ErrNoTargets is returned when no URL could be resolved from any source.
var ErrNoTargets = errors.New("no URLs provided")

// Options holds all configuration for a shockprobe run.
type Options struct {
	// Target
	URLs     []string // from --urls and positional arguments
	URLsFile string   // newline-delimited URL list
	Targets  []string // resolved list handed to the scheduler

	// Performance
	Threads int
	Timeout time.Duration

	// Output
	OutputFile   string
	OutputFormat string // "json", "csv"
	SortBy       string // "input", "verdict", "url", "none"
	Quiet        bool
	Verbose      bool
	NoColor      bool

	// HTTP
	Proxy string

	// Flow
	AssumeYes   bool   // skip the confirmation prompt
	OnResultCmd string // shell hook per outcome
	ConfigFile  string // YAML overlay
}

// Defaults returns Options populated with the built-in defaults.
func Defaults() Options {
	return Options{
		Threads:      DefaultThreads,
		Timeout:      DefaultTimeout,
		OutputFormat: DefaultFormat,
		SortBy:       DefaultSortBy,
	}
}

// HasTargetInput reports whether URLs were supplied non-interactively.
func (o *Options) HasTargetInput() bool {
	return len(o.URLs) > 0 || o.URLsFile != ""
}

// Validate checks a resolved Options value before any network activity.
func (o *Options) Validate() error {
	if len(o.Targets) == 0 {
		return ErrNoTargets
	}
	if o.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", o.Threads)
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.Timeout)
	}
	switch o.OutputFormat {
	case "json", "csv":
	default:
		return fmt.Errorf("--format must be one of: json, csv")
	}
	switch o.SortBy {
	case "input", "verdict", "url", "none":
	default:
		return fmt.Errorf("--sort must be one of: input, verdict, url, none")
	}
	return nil
}
