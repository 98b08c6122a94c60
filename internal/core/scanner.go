package core

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/twpayne/find-duplicates/internal/logging"
	"github.com/twpayne/find-duplicates/internal/stats"
)

// statTuple is one observed regular file: its path, size, and on-disk
// identity, plus an optional locality key (§4.G).
type statTuple struct {
	path        string
	size        int64
	device      uint64
	inode       uint64
	locality    int64
	hasLocality bool
}

// TupleSink is the capability the Scanner hands each observed tuple to. It
// replaces the original implementation's function-pointer `process_file`
// (§9): InlineTupleSink adapts it directly onto an Indexer for
// single-threaded mode, and ChannelTupleSink adapts it onto a bounded queue
// for the two-thread producer/consumer mode (§5).
type TupleSink interface {
	accept(statTuple) error
}

// InlineTupleSink calls the Indexer directly, on whichever Scanner
// goroutine observed the tuple. The Scanner walks directories on several
// pool goroutines at once, so calls are serialized under mu to keep the
// Indexer single-threaded.
type InlineTupleSink struct {
	Indexer *Indexer
	mu      sync.Mutex
}

func (s *InlineTupleSink) accept(t statTuple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Indexer.Index(t)
	return nil
}

// ChannelTupleSink pushes tuples onto a bounded FIFO for a separate Indexer
// goroutine to drain, decoupling Scanner (producer) from Indexer (consumer)
// so stat I/O overlaps with tree insertion (§4.H, §5).
type ChannelTupleSink struct {
	ch chan statTuple
}

func (s *ChannelTupleSink) accept(t statTuple) error {
	s.ch <- t
	return nil
}

// Scanner performs the recursive directory walk described in §4.G. It
// submits each subdirectory to a bounded worker pool; when the pool has no
// free worker, Submit fails and the subdirectory is walked recursively on
// the calling goroutine instead, so recursion depth on one goroutine is
// not bounded.
type Scanner struct {
	cfg    Config
	sink   TupleSink
	stats  *stats.Collector
	logger *logging.Logger
	pool   *ants.Pool
}

// NewScanner returns a Scanner that reports tuples to sink.
func NewScanner(cfg Config, sink TupleSink, collector *stats.Collector, logger *logging.Logger, pool *ants.Pool) *Scanner {
	return &Scanner{cfg: cfg, sink: sink, stats: collector, logger: logger, pool: pool}
}

// Scan walks every configured root. It returns the first fatal error
// encountered (a null/empty root is checked by Config.Validate before Scan
// is ever called), or ctx's error if the walk is cancelled midway; per-entry
// errors are only counted and logged, never returned, matching §4.G's
// failure semantics.
func (s *Scanner) Scan(ctx context.Context) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(s.cfg.Roots))
	for _, root := range s.cfg.Roots {
		root := root
		wg.Add(1)
		task := func() {
			defer wg.Done()
			s.walkDir(ctx, root)
		}
		if err := s.pool.Submit(task); err != nil {
			errCh <- err
			wg.Done()
		}
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		return err
	}
	return ctx.Err()
}

// walkDir implements the per-directory traversal policy in §4.G. It checks
// ctx between directory entries (§5) so a cancelled scan stops admitting new
// work promptly instead of draining an entire pathological tree first.
func (s *Scanner) walkDir(ctx context.Context, dir string) {
	if ctx.Err() != nil {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.stats.Errors.Add(1)
		s.logger.Warnf("SKIP (error opening dir) [%s]: %v", dir, err)
		return
	}
	s.stats.DirEntries.Add(uint64(len(entries)))
	s.logger.Debugf("DIR: [%s]", dir)

	var wg sync.WaitGroup
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}

		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		if !s.cfg.ScanHidden && strings.HasPrefix(name, ".") {
			s.stats.FilesSkippedHidden.Add(1)
			continue
		}

		path := filepath.Join(dir, name)
		if strings.IndexByte(name, s.cfg.PathSeparator) >= 0 {
			s.stats.FilesSkippedSeparator.Add(1)
			s.logger.Warnf("SKIP (contains reserved separator %q) [%s]", s.cfg.PathSeparator, path)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// Removed between readdir and stat: not an error worth counting.
				continue
			}
			s.stats.Errors.Add(1)
			s.logger.Warnf("SKIP (stat error) [%s]: %v", path, err)
			continue
		}

		switch {
		case info.IsDir():
			wg.Add(1)
			sub := path
			task := func() {
				defer wg.Done()
				s.walkDir(ctx, sub)
			}
			if err := s.pool.Submit(task); err != nil {
				wg.Done()
				s.walkDir(ctx, sub)
			}
		case info.Mode().IsRegular():
			s.handleRegularFile(path, info)
		default:
			s.stats.FilesIgnored.Add(1)
			s.logger.Debugf("SKIP (not file) [%s]", path)
		}
	}
	wg.Wait()
}

func (s *Scanner) handleRegularFile(path string, info os.FileInfo) {
	s.logger.Tracef("FILE: [%s]", path)
	size := info.Size()
	if size <= s.cfg.MinSize {
		s.stats.FilesSkippedSmall.Add(1)
		return
	}

	device, inode, err := fileIdentity(info)
	if err != nil {
		s.stats.Errors.Add(1)
		s.logger.Warnf("SKIP (identity error) [%s]: %v", path, err)
		return
	}

	tuple := statTuple{path: path, size: size, device: device, inode: inode}
	if key, ok := s.cfg.LocalityProbe(path); ok {
		tuple.locality, tuple.hasLocality = key, true
	}

	s.stats.FilesSeen.Add(1)
	s.stats.TotalBytes.Add(uint64(size))
	if err := s.sink.accept(tuple); err != nil {
		s.stats.Errors.Add(1)
		s.logger.Warnf("SKIP (index error) [%s]: %v", path, err)
	}
}
