package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/maxvaer/shockprobe/internal/config"
	"github.com/maxvaer/shockprobe/internal/hook"
	"github.com/maxvaer/shockprobe/internal/output"
	"github.com/maxvaer/shockprobe/internal/scanner"
	"github.com/maxvaer/shockprobe/pkg/version"
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Env carries the collaborators of a run. Zero values fall back to the
// process defaults.
type Env struct {
	Stdout       io.Writer
	Stderr       io.Writer
	Logger       *slog.Logger
	Confirmer    Confirmer      // required unless opts.AssumeYes
	Prober       scanner.Prober // nil = HTTP requester built from opts
	ShowProgress bool
}

// Report is what a finished (or declined) run produced.
type Report struct {
	Outcomes  []scanner.Outcome // completion order
	Stats     output.Stats
	Cancelled bool
}

// Run executes the full probe pipeline: configuration panel, confirmation,
// probing, result table and optional persistence.
func Run(ctx context.Context, opts *config.Options, env Env) (*Report, error) {
	env = withDefaults(env)

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if !opts.Quiet {
		printBanner(env.Stderr, opts)
	}

	if !opts.AssumeYes {
		if env.Confirmer == nil {
			return nil, fmt.Errorf("confirmation required: use --yes for non-interactive runs")
		}
		ok, err := env.Confirmer.Confirm("Do you want to proceed with the test?")
		if err != nil {
			return nil, fmt.Errorf("reading confirmation: %w", err)
		}
		if !ok {
			fmt.Fprintln(env.Stderr, paint(opts, color.FgYellow).Sprint("Test cancelled."))
			return &Report{Cancelled: true}, nil
		}
	}

	prober := env.Prober
	if prober == nil {
		req, err := scanner.NewRequester(opts)
		if err != nil {
			return nil, fmt.Errorf("creating requester: %w", err)
		}
		prober = req
	}

	// Open the results file before any request so a bad path fails fast.
	var fileOut output.Writer
	if opts.OutputFile != "" {
		w, err := output.NewFileWriter(opts.OutputFormat, opts.OutputFile)
		if err != nil {
			return nil, fmt.Errorf("creating output writer: %w", err)
		}
		fileOut = output.NewSortedWriter(w, opts.SortBy)
	}

	var hookRunner *hook.Runner
	if opts.OnResultCmd != "" {
		hookRunner = hook.NewRunner(opts.OnResultCmd, env.Logger)
	}

	log := env.Logger.With("run", uuid.NewString())
	log.Info("starting probe run", "targets", len(opts.Targets), "threads", opts.Threads, "timeout", opts.Timeout)

	progress := output.NewProgress(len(opts.Targets), env.Stderr, env.ShowProgress && !opts.Quiet, opts.NoColor)
	start := time.Now()

	results := scanner.RunWorkerPool(ctx, prober, scanner.Items(opts.Targets), scanner.WorkerConfig{
		Threads:  opts.Threads,
		Progress: progress,
		Logger:   log,
	})

	outcomes := make([]scanner.Outcome, 0, len(opts.Targets))
	for out := range results {
		outcomes = append(outcomes, out)
		if out.Verdict == scanner.Vulnerable {
			log.Debug("vulnerable target", "url", out.URL, "status_code", out.StatusCode)
		}
		if hookRunner != nil {
			hookRunner.Run(&out)
		}
	}
	progress.Stop()

	elapsed := time.Since(start)
	stats := output.StatsFor(outcomes, elapsed)
	log.Info("probe run finished", "vulnerable", stats.Vulnerable, "not_vulnerable", stats.NotVulnerable, "errors", stats.Errors)

	if !opts.Quiet {
		fmt.Fprintf(env.Stderr, "\n%s\n", paint(opts, color.Bold).Sprintf("Test completed in %s", elapsed.Round(time.Millisecond)))
	}

	table := output.NewSortedWriter(output.NewTableWriter(env.Stdout, env.Stderr, opts.NoColor, opts.Quiet), opts.SortBy)
	if err := output.WriteAll(table, outcomes, stats); err != nil {
		if fileOut != nil {
			fileOut.Close()
		}
		return nil, fmt.Errorf("writing results table: %w", err)
	}

	if fileOut != nil {
		err := output.WriteAll(fileOut, outcomes, stats)
		if cerr := fileOut.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("saving results: %w", err)
		}
		if !opts.Quiet {
			fmt.Fprintln(env.Stderr, paint(opts, color.FgGreen, color.Bold).Sprintf("Results saved to %s", opts.OutputFile))
		}
	}

	if !opts.Quiet {
		fmt.Fprintln(env.Stderr, paint(opts, color.FgBlue, color.Bold).Sprint("Test completed!"))
	}

	return &Report{Outcomes: outcomes, Stats: stats}, nil
}

func withDefaults(env Env) Env {
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stderr == nil {
		env.Stderr = os.Stderr
	}
	if env.Logger == nil {
		env.Logger = slog.New(slog.DiscardHandler)
	}
	return env
}

func paint(opts *config.Options, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if opts.NoColor {
		c.DisableColor()
	}
	return c
}

func printBanner(w io.Writer, opts *config.Options) {
	title := paint(opts, color.FgCyan, color.Bold)
	dim := paint(opts, color.Faint)

	fmt.Fprintf(w, "\n  %s %s\n", title.Sprint("Shellshock Vulnerability Tester"), dim.Sprintf("v%s", version.Version))
	fmt.Fprintf(w, "  %s\n\n", dim.Sprint("CVE-2014-6271 probe for CGI endpoints"))

	outFile := opts.OutputFile
	if outFile == "" {
		outFile = "None"
	}
	panel, _ := json.MarshalIndent(struct {
		URLs    int    `json:"URLs to test"`
		Threads int    `json:"Number of threads"`
		Output  string `json:"Output file"`
	}{len(opts.Targets), opts.Threads, outFile}, "  ", "  ")

	border := paint(opts, color.FgGreen)
	fmt.Fprintf(w, "%s\n", border.Sprint("  ── Configuration ─────────────────────"))
	fmt.Fprintf(w, "  %s\n", panel)
	fmt.Fprintf(w, "%s\n\n", border.Sprint("  ──────────────────────────────────────"))
}
