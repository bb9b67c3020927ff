package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

var errNoVerdict = errors.New("prober returned no verdict")

// Progress receives one Increment per finished probe, successful or not.
type Progress interface {
	Increment()
}

// WorkerConfig holds options for the worker pool.
type WorkerConfig struct {
	Threads  int
	Progress Progress     // nil = no progress reporting
	Logger   *slog.Logger // nil = discard
}

// RunWorkerPool fans out work items across workers and returns a channel
// of outcomes in completion order. The channel is closed once every item has
// produced exactly one Outcome and all workers have exited. Callers must
// drain the channel.
//
// Every item is dispatched even if ctx is cancelled; the cancelled requests
// come back as Error outcomes.
func RunWorkerPool(
	ctx context.Context,
	prober Prober,
	items []WorkItem,
	cfg WorkerConfig,
) <-chan Outcome {
	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	itemsCh := make(chan WorkItem, threads*2)
	resultsCh := make(chan Outcome, threads*2)

	var wg sync.WaitGroup

	// Producer: feed items into channel.
	go func() {
		defer close(itemsCh)
		for _, item := range items {
			itemsCh <- item
		}
	}()

	// Workers: consume items, produce outcomes.
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemsCh {
				out, faulted := safeProbe(ctx, prober, item, log)
				if out.Verdict == Error && !faulted {
					log.Warn("probe failed", "url", item.URL, "error", out.Detail)
				}
				log.Debug("probe finished", "url", item.URL, "verdict", out.Verdict.String(), "duration", out.Duration)
				if cfg.Progress != nil {
					cfg.Progress.Increment()
				}
				resultsCh <- out
			}
		}()
	}

	// Closer: when all workers finish, close the results channel.
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	return resultsCh
}

// safeProbe calls the prober with panic recovery. A panic is logged with a
// correlation ID and turned into a synthetic Error outcome so the target is
// still accounted for.
func safeProbe(ctx context.Context, prober Prober, item WorkItem, log *slog.Logger) (out Outcome, faulted bool) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			log.Error("internal fault while probing",
				"url", item.URL,
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			out = errorOutcome(item, fmt.Errorf("internal fault (correlation_id: %s): %v", correlationID, r))
			faulted = true
		}
	}()

	out = prober.Probe(ctx, item.URL)
	if out.Verdict == Error && out.Detail == "" && out.Err == nil {
		return errorOutcome(item, errNoVerdict), false
	}
	out.Index = item.Index
	out.URL = item.URL
	return out, false
}

// collect drains ch and returns the outcomes in the order they completed.
func collect(ch <-chan Outcome) []Outcome {
	var outcomes []Outcome
	for out := range ch {
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// scan runs the whole batch and blocks until every target has an outcome.
func scan(ctx context.Context, prober Prober, targets []string, cfg WorkerConfig) []Outcome {
	return collect(RunWorkerPool(ctx, prober, Items(targets), cfg))
}
