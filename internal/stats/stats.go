// Package stats holds the scan's telemetry counters. It is a direct
// descendant of the dupfind finder's statistics: cache-line-padded atomics
// so that the Scanner's hot path never contends with itself across
// goroutines, plus a human-readable summary for end-of-run reporting.
package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/cpu"
)

// Collector accumulates counters for one scan. The Scanner goroutine tree
// writes the traversal counters; the Processor's concurrent heads and
// core.Run write the hashing, comparison, duplicate and unique-size
// counters afterward; the CLI only reads it. Every field is atomic, so no
// additional synchronization is required at those call sites.
type Collector struct {
	DirEntries atomic.Uint64
	_          cpu.CacheLinePad

	FilesSeen atomic.Uint64
	_         cpu.CacheLinePad

	FilesIgnored atomic.Uint64
	_            cpu.CacheLinePad

	FilesSkippedSmall atomic.Uint64
	_                 cpu.CacheLinePad

	FilesSkippedHidden atomic.Uint64
	_                  cpu.CacheLinePad

	FilesSkippedSeparator atomic.Uint64
	_                     cpu.CacheLinePad

	TotalBytes atomic.Uint64
	_          cpu.CacheLinePad

	FilesOpened atomic.Uint64
	_           cpu.CacheLinePad

	BytesHashed atomic.Uint64
	_           cpu.CacheLinePad

	FilesCompared atomic.Uint64
	_             cpu.CacheLinePad

	Errors atomic.Uint64
	_      cpu.CacheLinePad

	DuplicateSets atomic.Uint64
	_             cpu.CacheLinePad

	DuplicateFiles atomic.Uint64
	_              cpu.CacheLinePad

	UniqueSizes atomic.Uint64
}

// snapshot is the JSON-facing view of a Collector.
type snapshot struct {
	DirEntries            uint64  `json:"dirEntries"`
	FilesSeen             uint64  `json:"filesSeen"`
	FilesIgnored          uint64  `json:"filesIgnored"`
	FilesSkippedSmall     uint64  `json:"filesSkippedSmall"`
	FilesSkippedHidden    uint64  `json:"filesSkippedHidden"`
	FilesSkippedSeparator uint64  `json:"filesSkippedSeparator"`
	TotalBytes            uint64  `json:"totalBytes"`
	FilesOpened           uint64  `json:"filesOpened"`
	FilesOpenedPercent    float64 `json:"filesOpenedPercent"`
	BytesHashed           uint64  `json:"bytesHashed"`
	BytesHashedPercent    float64 `json:"bytesHashedPercent"`
	FilesCompared         uint64  `json:"filesCompared"`
	Errors                uint64  `json:"errors"`
	DuplicateSets         uint64  `json:"duplicateSets"`
	DuplicateFiles        uint64  `json:"duplicateFiles"`
	UniqueSizes           uint64  `json:"uniqueSizes"`
}

func (c *Collector) snapshot() snapshot {
	filesOpened := c.FilesOpened.Load()
	filesSeen := c.FilesSeen.Load()
	totalBytes := c.TotalBytes.Load()
	bytesHashed := c.BytesHashed.Load()
	return snapshot{
		DirEntries:            c.DirEntries.Load(),
		FilesSeen:             filesSeen,
		FilesIgnored:          c.FilesIgnored.Load(),
		FilesSkippedSmall:     c.FilesSkippedSmall.Load(),
		FilesSkippedHidden:    c.FilesSkippedHidden.Load(),
		FilesSkippedSeparator: c.FilesSkippedSeparator.Load(),
		TotalBytes:            totalBytes,
		FilesOpened:           filesOpened,
		FilesOpenedPercent:    100 * float64(filesOpened) / max(1, float64(filesSeen)),
		BytesHashed:           bytesHashed,
		BytesHashedPercent:    100 * float64(bytesHashed) / max(1, float64(totalBytes)),
		FilesCompared:         c.FilesCompared.Load(),
		Errors:                c.Errors.Load(),
		DuplicateSets:         c.DuplicateSets.Load(),
		DuplicateFiles:        c.DuplicateFiles.Load(),
		UniqueSizes:           c.UniqueSizes.Load(),
	}
}

// MarshalJSON implements json.Marshaler.
func (c *Collector) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.snapshot())
}

// Fprint writes a human-readable summary of c to w, using go-humanize for
// byte counts so operators don't have to do the division themselves.
func (c *Collector) Fprint(w io.Writer) error {
	s := c.snapshot()
	_, err := fmt.Fprintf(w,
		"scanned %d dir entries, %d files (%s); hashed %d files (%s, %.1f%% of bytes); "+
			"byte-compared %d files; %d duplicate sets covering %d files; %d errors\n",
		s.DirEntries, s.FilesSeen, humanize.Bytes(s.TotalBytes),
		s.FilesOpened, humanize.Bytes(s.BytesHashed), s.BytesHashedPercent,
		s.FilesCompared, s.DuplicateSets, s.DuplicateFiles, s.Errors,
	)
	return err
}
