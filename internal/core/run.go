// Package core implements the duplicate-detection pipeline: directory
// traversal, size-based grouping, locality-ordered read scheduling,
// progressive hash-based elimination, and byte-exact tie-breaking (§1-§5 of
// the specification). Everything outside this package — CLI parsing, the
// concrete result store, verbosity plumbing — is an external collaborator.
package core

import (
	"context"
	"fmt"

	"github.com/panjf2000/ants/v2"

	"github.com/twpayne/find-duplicates/internal/logging"
	"github.com/twpayne/find-duplicates/internal/stats"
)

// Run executes one full scan: traversal (Scanner/Indexer) followed by
// processing (Processor), reporting results to sink. It is the core's
// single public entry point, gluing components A-J together per §2's data
// flow: Scanner -> Indexer -> SizeTree -> SizeList -> Processor ->
// {ReadList, HashList, ByteCompare} -> ResultSink.
func Run(ctx context.Context, cfg Config, sink ResultSink, collector *stats.Collector, logger *logging.Logger) error {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := sink.Begin(); err != nil {
		return fmt.Errorf("opening result sink: %w", err)
	}

	if err := runScanAndProcess(ctx, cfg, sink, collector, logger); err != nil {
		if abortErr := sink.Abort(); abortErr != nil {
			logger.Errorf("result sink abort failed: %v", abortErr)
		}
		return err
	}

	if err := sink.Commit(); err != nil {
		return fmt.Errorf("committing result sink: %w", err)
	}
	return nil
}

func runScanAndProcess(ctx context.Context, cfg Config, sink ResultSink, collector *stats.Collector, logger *logging.Logger) error {
	// Nonblocking: the Scanner recurses by submitting each subdirectory back
	// onto this same pool while its caller blocks in wg.Wait(). A blocking
	// pool can self-deadlock once every worker is waiting on a child
	// submission with no free worker left to run it; nonblocking mode makes
	// Submit fail fast instead, and the Scanner falls back to walking the
	// subdirectory on the calling goroutine.
	pool, err := ants.NewPool(cfg.MaxGoroutines, ants.WithNonblocking(true))
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	arena := NewPathArena()
	tree := NewSizeTree()
	indexer := NewIndexer(arena, tree)

	logger.Infof("scanning %d root(s)", len(cfg.Roots))

	if cfg.ThreadedIndex {
		tupleSink := NewChannelTupleSink(1024)
		scanner := NewScanner(cfg, tupleSink, collector, logger, pool)
		done := make(chan struct{})
		go func() {
			defer close(done)
			indexer.Drain(tupleSink.Chan())
		}()
		scanErr := scanner.Scan(ctx)
		tupleSink.Close()
		<-done
		if scanErr != nil {
			return scanErr
		}
	} else {
		inline := &InlineTupleSink{Indexer: indexer}
		scanner := NewScanner(cfg, inline, collector, logger, pool)
		if err := scanner.Scan(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := checkInvariants(tree, collector); err != nil {
		return err
	}

	if cfg.SaveUniques {
		for _, head := range tree.UniqueSizeHeads() {
			for _, e := range head.Entries {
				if !e.Valid {
					continue
				}
				if err := sink.RecordUniqueSize(head.Size, string(e.Path)); err != nil {
					return err
				}
				collector.UniqueSizes.Add(1)
			}
		}
	}

	list := NewSizeList(tree)
	logger.Infof("processing %d size bucket(s) with >=2 candidates", len(list.Heads))

	processor := NewProcessor(cfg, sink, collector, logger)
	return processor.Process(ctx, list)
}

// checkInvariants performs the one fatal, whole-scan sanity check the
// specification calls for in §7: the longest path list can never exceed the
// total number of files scanned, since every path appears in exactly one
// list (invariant 1, §3). Its failure indicates a core bug.
func checkInvariants(tree *SizeTree, collector *stats.Collector) error {
	var longest int
	for _, head := range tree.DrainMulti() {
		if len(head.Entries) > longest {
			longest = len(head.Entries)
		}
	}
	total := collector.FilesSeen.Load()
	if uint64(longest) > total {
		return &InvariantError{Reason: "longest path list exceeds total files scanned"}
	}
	return nil
}
