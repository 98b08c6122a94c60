package core

import (
	"context"
	"io"
	"os"

	"github.com/sourcegraph/conc/pool"
	heap "github.com/twpayne/go-heap"

	"github.com/twpayne/find-duplicates/internal/logging"
	"github.com/twpayne/find-duplicates/internal/stats"
)

// Processor orchestrates phases 2-4 of the pipeline over a SizeList (§4.I).
// Independent heads share no mutable state beyond the ResultSink and
// StatsCollector (both safe for concurrent use), so the Processor fans them
// out onto a bounded error pool in the teacher's own worker-pool idiom.
type Processor struct {
	cfg    Config
	sink   ResultSink
	stats  *stats.Collector
	logger *logging.Logger
}

// NewProcessor returns a Processor reporting to sink.
func NewProcessor(cfg Config, sink ResultSink, collector *stats.Collector, logger *logging.Logger) *Processor {
	return &Processor{cfg: cfg, sink: sink, stats: collector, logger: logger}
}

// Process runs every head in list to completion, or until ctx is cancelled.
// On cancellation it returns context.Canceled after letting in-flight heads
// reach their next cancellation check. A head cancelled during its
// byte-exact pass may already have recorded some of its duplicate sets;
// Run then aborts the ResultSink, so none of them become visible.
//
// Heads are fed through a priority channel that favors larger sizes first,
// the same "prioritize larger files" rationale the teacher's own dupfind
// package used when scheduling its hash phase: a size bucket covering
// gigabytes of duplicated content surfaces before the pool spends its
// goroutines on a sea of small ones.
func (p *Processor) Process(ctx context.Context, list *SizeList) error {
	headCh := make(chan *PathListHead, len(list.Heads))
	for _, head := range list.Heads {
		headCh <- head
	}
	close(headCh)
	prioritized := heap.PriorityChannel(ctx, headCh, func(a, b *PathListHead) bool {
		return a.Size > b.Size
	})

	workers := pool.New().WithErrors().WithMaxGoroutines(p.cfg.MaxGoroutines)
	for head := range prioritized {
		head := head
		workers.Go(func() error {
			return p.processHead(ctx, head)
		})
	}
	return workers.Wait()
}

// processHead runs one head through the state machine in §4.I.
func (p *Processor) processHead(ctx context.Context, head *PathListHead) error {
	if head.CandidateCount < 2 {
		head.State = StateSizeUnique
		return nil
	}

	readList := NewReadList()
	for _, e := range head.candidates() {
		readList.Append(ReadListEntry{
			Head: head, Entry: e,
			Device: e.Device, Inode: e.Inode,
			Locality: e.Locality, HasLocality: e.HasLocality,
		})
	}
	readList.Sort(true, p.cfg.HardlinkIsUnique)

	if head.CandidateCount < 2 {
		head.State = StateSizeUnique
		return nil
	}

	head.State = StateHashing
	schedule := p.cfg.HashSchedule
	for phase, scheduled := range schedule {
		if err := ctx.Err(); err != nil {
			return err
		}

		head.Phase = phase
		target := scheduled
		if target == fullPrefix || target > head.Size {
			target = head.Size
		}
		isFullPhase := target == head.Size

		hashList := NewHashList()
		for _, re := range readList.Entries() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !re.Entry.Valid {
				continue
			}
			digest, eliminate := p.hashEntryPrefix(re.Entry, target, isFullPhase)
			if eliminate {
				head.eliminate(re.Entry)
				continue
			}
			hashList.Add(re.Entry, digest)
		}

		for _, group := range hashList.Groups() {
			if len(group) == 1 {
				head.eliminate(group[0])
			}
		}

		if head.CandidateCount < 2 {
			head.State = StateDoneUnique
			return nil
		}
		if isFullPhase {
			break
		}
	}

	return p.byteComparePass(ctx, head)
}

// hashEntryPrefix hashes entry's bytes in [entry.hashedThrough, target),
// seeding the streaming hash with whatever state the previous phase left so
// bytes are never re-read (§4.I). eliminate is true when the entry should be
// dropped: either an open/read error, or — only during the full-file phase —
// a persistent size mismatch (the file shrank on disk since it was stat'd).
func (p *Processor) hashEntryPrefix(entry *PathEntry, target int64, isFullPhase bool) (digest string, eliminate bool) {
	if target <= entry.hashedThrough && entry.hasher != nil {
		return entry.hasher.Sum(), false
	}

	file, err := os.Open(string(entry.Path))
	if err != nil {
		p.stats.Errors.Add(1)
		p.logger.Warnf("SKIP (open error) [%s]: %v", entry.Path, err)
		return "", true
	}
	defer file.Close()
	p.stats.FilesOpened.Add(1)

	if entry.hasher == nil {
		entry.hasher = p.cfg.HashFunction()
	}
	if entry.hashedThrough > 0 {
		if _, err := file.Seek(entry.hashedThrough, io.SeekStart); err != nil {
			p.stats.Errors.Add(1)
			return "", true
		}
	}

	want := target - entry.hashedThrough
	n, err := io.CopyN(entry.hasher, file, want)
	entry.hashedThrough += n
	p.stats.BytesHashed.Add(uint64(n))

	if err != nil && err != io.EOF {
		p.stats.Errors.Add(1)
		p.logger.Warnf("SKIP (read error) [%s]: %v", entry.Path, err)
		return "", true
	}
	if err == io.EOF && isFullPhase && entry.hashedThrough < target {
		// The file is shorter now than when it was stat'd (§4.I edge case).
		p.stats.Errors.Add(1)
		p.logger.Warnf("SKIP (file shrank) [%s]", entry.Path)
		return "", true
	}

	return entry.hasher.Sum(), false
}

// byteComparePass runs the final ground-truth comparison (§4.F) over a
// head's surviving candidates and reports any duplicate classes found.
func (p *Processor) byteComparePass(ctx context.Context, head *PathListHead) error {
	head.State = StateBytewise
	candidates := head.candidates()

	classes, err := ByteCompare(ctx, candidates)
	if err != nil {
		return err
	}

	reported := map[*PathEntry]bool{}
	for _, class := range classes {
		if err := ctx.Err(); err != nil {
			return err
		}
		paths := make([]string, 0, len(class))
		for _, e := range class {
			paths = append(paths, string(e.Path))
			reported[e] = true
		}
		if err := p.sink.RecordDuplicateSet(head.Size, paths); err != nil {
			return err
		}
		p.stats.DuplicateSets.Add(1)
		p.stats.DuplicateFiles.Add(uint64(len(class)))
	}
	p.stats.FilesCompared.Add(uint64(len(candidates)))

	for _, e := range candidates {
		if !reported[e] {
			head.eliminate(e)
		}
	}

	if len(classes) > 0 {
		head.State = StateDoneDup
	} else {
		head.State = StateDoneUnique
	}
	return nil
}
