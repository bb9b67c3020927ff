package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maxvaer/shockprobe/internal/targets"
)

// Source produces a validated Options value with Targets resolved. Flag and
// prompt input are two implementations consumed identically by the runner.
type Source interface {
	Resolve() (*Options, error)
}

// Asker is the subset of prompt.Prompter used by PromptSource.
type Asker interface {
	Ask(question, def string) (string, error)
}

// FlagSource resolves targets from --urls, positional arguments and --file.
type FlagSource struct {
	Opts Options
}

func (s FlagSource) Resolve() (*Options, error) {
	opts := s.Opts
	opts.Targets = append([]string(nil), opts.URLs...)

	if opts.URLsFile != "" {
		fromFile, err := targets.LoadFile(opts.URLsFile)
		if err != nil {
			return nil, err
		}
		opts.Targets = append(opts.Targets, fromFile...)
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// PromptSource asks for the URL list (or a file path), the thread count and
// an optional output file. Base supplies defaults and every other option.
type PromptSource struct {
	Asker Asker
	Base  Options
}

func (s PromptSource) Resolve() (*Options, error) {
	opts := s.Base

	answer, err := s.Asker.Ask("Enter URLs to test (separated by space) or path to file", "")
	if err != nil {
		return nil, err
	}
	if targets.IsFile(answer) {
		opts.URLsFile = answer
		opts.Targets, err = targets.LoadFile(answer)
		if err != nil {
			return nil, err
		}
	} else {
		opts.URLs = targets.Split(answer)
		opts.Targets = append([]string(nil), opts.URLs...)
	}
	if len(opts.Targets) == 0 {
		return nil, ErrNoTargets
	}

	threadsDefault := opts.Threads
	if threadsDefault < 1 {
		threadsDefault = DefaultThreads
	}
	threads, err := s.Asker.Ask("Number of threads", strconv.Itoa(threadsDefault))
	if err != nil {
		return nil, err
	}
	opts.Threads, err = strconv.Atoi(strings.TrimSpace(threads))
	if err != nil {
		return nil, fmt.Errorf("invalid thread count %q: %w", threads, err)
	}

	opts.OutputFile, err = s.Asker.Ask("Output file name (optional)", opts.OutputFile)
	if err != nil {
		return nil, err
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}
