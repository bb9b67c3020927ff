package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/maxvaer/shockprobe/internal/config"
	"github.com/maxvaer/shockprobe/internal/logger"
	"github.com/maxvaer/shockprobe/internal/prompt"
	"github.com/maxvaer/shockprobe/internal/runner"
	"github.com/maxvaer/shockprobe/pkg/version"
)

var opts = config.Defaults()

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"TARGET", []string{"urls", "file"}},
	{"PERFORMANCE", []string{"threads", "timeout"}},
	{"HTTP", []string{"proxy"}},
	{"OUTPUT", []string{"output", "format", "sort", "quiet", "verbose", "no-color", "on-result"}},
	{"CONFIGURATION", []string{"config", "yes"}},
}

var rootCmd = &cobra.Command{
	Use:     "shockprobe [urls...] [flags]",
	Short:   "Shellshock (CVE-2014-6271) tester for CGI endpoints",
	Version: version.Version,
	Long: `shockprobe sends a Shellshock payload in the User-Agent header of one
GET request per URL and reports whether the response echoes the marker,
which happens only when the CGI handler passes headers to an unpatched bash.
Run it without targets to be prompted for URLs, threads and output file.`,
	Example: `  shockprobe -u http://lab.local/cgi-bin/status
  shockprobe -u http://a/cgi-bin/x http://b/cgi-bin/y -t 10
  shockprobe -f targets.txt -o results.json
  shockprobe -f targets.txt -o results.csv --format csv --sort verdict
  shockprobe -c shockprobe.yaml -y
  shockprobe -f targets.txt --on-result 'notify-send "{status}" {url}'
  shockprobe`,
	Args: cobra.ArbitraryArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// "--urls a b c": pflag binds a to the flag, b and c arrive as args.
		opts.URLs = append(opts.URLs, args...)

		if opts.ConfigFile != "" {
			fc, err := config.LoadFile(opts.ConfigFile)
			if err != nil {
				return err
			}
			fc.Apply(&opts, cmd.Flags().Changed)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if opts.NoColor {
			color.NoColor = true
		}
		log := logger.New(os.Stderr, logger.Options{Quiet: opts.Quiet, Verbose: opts.Verbose})
		p := prompt.Stdio()

		var src config.Source = config.FlagSource{Opts: opts}
		if !opts.HasTargetInput() {
			src = config.PromptSource{Asker: p, Base: opts}
		}
		resolved, err := src.Resolve()
		if err != nil {
			return err
		}

		_, err = runner.Run(context.Background(), resolved, runner.Env{
			Logger:       log,
			Confirmer:    p,
			ShowProgress: term.IsTerminal(int(os.Stderr.Fd())),
		})
		return err
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Target
	f.StringSliceVarP(&opts.URLs, "urls", "u", nil, "URLs to test (space or comma separated)")
	f.StringVarP(&opts.URLsFile, "file", "f", "", "File with one URL per line")

	// Performance
	f.IntVarP(&opts.Threads, "threads", "t", config.DefaultThreads, "Number of concurrent threads")
	f.DurationVar(&opts.Timeout, "timeout", config.DefaultTimeout, "HTTP request timeout")

	// HTTP
	f.StringVar(&opts.Proxy, "proxy", "", "HTTP/SOCKS proxy URL")

	// Output
	f.StringVarP(&opts.OutputFile, "output", "o", "", "Output file for results")
	f.StringVar(&opts.OutputFormat, "format", config.DefaultFormat, "Output file format: json, csv")
	f.StringVar(&opts.SortBy, "sort", config.DefaultSortBy, "Result order: input, verdict, url, none")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Minimal output")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "Debug logging")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	// Hooks
	f.StringVar(&opts.OnResultCmd, "on-result", "", "Shell command to run for each result (receives JSON on stdin)")

	// Configuration
	f.StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file (explicit flags take precedence)")
	f.BoolVarP(&opts.AssumeYes, "yes", "y", false, "Skip the confirmation prompt")

	// Custom help: categorized flags.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})

	rootCmd.PreRunE = chainPreRun(rootCmd.PreRunE, func(cmd *cobra.Command, args []string) error {
		if opts.Threads < 1 {
			return fmt.Errorf("--threads must be at least 1")
		}
		if opts.Timeout <= 0 {
			return fmt.Errorf("--timeout must be positive, got %s", opts.Timeout.Round(time.Millisecond))
		}
		return nil
	})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// chainPreRun combines two PreRunE functions.
func chainPreRun(first, second func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if first != nil {
			if err := first(cmd, args); err != nil {
				return err
			}
		}
		return second(cmd, args)
	}
}

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 30
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
     _                _                        _
 ___| |__   ___   ___| | ___ __  _ __ ___  ___| |__   ___
/ __| '_ \ / _ \ / __| |/ / '_ \| '__/ _ \| '_ \ / _ \
\__ \ | | | (_) | (__|   <| |_) | | | (_) | |_) |  __/
|___/_| |_|\___/ \___|_|\_\ .__/|_|  \___/|_.__/ \___|
                          |_|                   %s

`, ver)
}
