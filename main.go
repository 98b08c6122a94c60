// find-duplicates finds duplicate files, concurrently.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/trace"
	"time"

	"github.com/spf13/pflag"

	"github.com/twpayne/find-duplicates/internal/core"
	"github.com/twpayne/find-duplicates/internal/locality"
	"github.com/twpayne/find-duplicates/internal/logging"
	"github.com/twpayne/find-duplicates/internal/resultsink/sqlite"
	"github.com/twpayne/find-duplicates/internal/stats"
)

func run() error {
	// Parse command line arguments.
	minSize := pflag.Int64P("min-size", "m", 1, "minimum file size in bytes")
	scanHidden := pflag.Bool("scan-hidden", false, "admit dotfiles and dot-directories")
	hardlinkIsUnique := pflag.Bool("hardlink-is-unique", true, "treat hardlink aliases as a single candidate")
	threadedIndex := pflag.Bool("threaded-index", true, "run the scanner and indexer as separate goroutines")
	saveUniques := pflag.Bool("save-uniques", false, "record size-unique files in the result database")
	keepGoing := pflag.BoolP("keep-going", "k", false, "accepted; has no effect on the scan")
	hashName := pflag.String("hash-function", "xxh3", "prefix hash function: xxh3, md5, or sha256")
	useLocality := pflag.Bool("locality", true, "order reads by on-disk extent locality when available (Linux only)")
	maxGoroutines := pflag.Int("max-goroutines", 0, "worker pool size (default 2*NumCPU)")
	dbPath := pflag.StringP("output", "o", "find-duplicates.db", "result database path")
	verbosity := pflag.CountP("verbose", "v", "increase diagnostic verbosity (repeatable)")
	printStatistics := pflag.BoolP("statistics", "s", false, "print statistics after the scan")
	traceFile := pflag.String("trace", "", "trace file")
	pflag.Parse()
	var roots []string
	if pflag.NArg() == 0 {
		roots = []string{"."}
	} else {
		roots = pflag.Args()
	}
	for i, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolving root %q: %w", root, err)
		}
		roots[i] = abs
	}

	// Create a trace file, if requested.
	if *traceFile != "" {
		traceFile, err := os.Create(*traceFile)
		if err != nil {
			return err
		}
		defer traceFile.Close()
		if err := trace.Start(traceFile); err != nil {
			return err
		}
		defer trace.Stop()
	}

	hashFunction, ok := core.HashFunctionByName(*hashName)
	if !ok {
		return &core.ConfigError{Reason: fmt.Sprintf("unknown hash function %q", *hashName)}
	}
	localityProbe := core.NoProbe
	if *useLocality {
		localityProbe = locality.Probe
	}

	cfg := core.Config{
		Roots:            roots,
		MinSize:          *minSize,
		ScanHidden:       *scanHidden,
		HardlinkIsUnique: *hardlinkIsUnique,
		ThreadedIndex:    *threadedIndex,
		SaveUniques:      *saveUniques,
		LocalityProbe:    localityProbe,
		HashFunction:     hashFunction,
		MaxGoroutines:    *maxGoroutines,
		KeepGoing:        *keepGoing,
	}.WithDefaults()

	logger := logging.New(logging.FromVerbosity(*verbosity))
	collector := &stats.Collector{}
	sink := sqlite.New(*dbPath, cfg.PathSeparator, time.Now().Unix())

	// Find duplicates. A SIGINT triggers cooperative cancellation rather
	// than an abrupt exit, so the result sink can roll back cleanly.
	ctx, cancelNotify := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancelNotify()
	runErr := core.Run(ctx, cfg, sink, collector, logger)

	// Print statistics.
	if *printStatistics {
		if err := collector.Fprint(os.Stdout); err != nil {
			return err
		}
	}

	return runErr
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
