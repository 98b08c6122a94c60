package core

import (
	"bytes"
	"context"
	"io"
	"os"
)

// byteCompareBlockSize is the fixed block size ByteCompare reads at a time
// (§4.F).
const byteCompareBlockSize = 128 * 1024

// ByteCompare partitions a candidate set into byte-exact equivalence
// classes. It opens every file once and performs a single linear pass: the
// first entry in each still-open class is its representative; every other
// entry's stream is compared block-by-block against each representative in
// turn. Representatives are never replaced: an entry that proves unequal to
// every existing representative starts a new class and becomes its
// representative.
//
// Classes of size 1 are not duplicates and are dropped from the result, as
// are entries whose file cannot be opened; callers eliminate their entries
// from the enclosing head.
//
// ctx is checked between every block read, not just between streams: a
// single representative/candidate pair sharing a multi-gigabyte size can
// otherwise hold a cancelled scan hostage for the whole comparison.
func ByteCompare(ctx context.Context, entries []*PathEntry) ([][]*PathEntry, error) {
	type stream struct {
		entry *PathEntry
		file  *os.File
	}

	streams := make([]*stream, 0, len(entries))
	defer func() {
		for _, s := range streams {
			if s.file != nil {
				s.file.Close()
			}
		}
	}()

	for _, e := range entries {
		f, err := os.Open(string(e.Path))
		if err != nil {
			continue
		}
		streams = append(streams, &stream{entry: e, file: f})
	}

	var classes [][]*PathEntry
	var reps []*stream

	bufA := make([]byte, byteCompareBlockSize)
	bufB := make([]byte, byteCompareBlockSize)

	for _, s := range streams {
		placed := false
		for ci, rep := range reps {
			equal, err := compareStreamsFromStart(ctx, rep.file, s.file, bufA, bufB)
			if err != nil {
				return nil, err
			}
			if equal {
				classes[ci] = append(classes[ci], s.entry)
				placed = true
				break
			}
		}
		if !placed {
			reps = append(reps, s)
			classes = append(classes, []*PathEntry{s.entry})
		}
	}

	out := make([][]*PathEntry, 0, len(classes))
	for _, c := range classes {
		if len(c) >= 2 {
			out = append(out, c)
		}
	}
	return out, nil
}

// compareStreamsFromStart rewinds both files to the beginning and compares
// them block by block. Rewinding is necessary because each representative
// may be compared against several later entries.
func compareStreamsFromStart(ctx context.Context, a, b *os.File, bufA, bufB []byte) (bool, error) {
	if _, err := a.Seek(0, io.SeekStart); err != nil {
		return false, err
	}
	if _, err := b.Seek(0, io.SeekStart); err != nil {
		return false, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		nA, errA := io.ReadFull(a, bufA)
		nB, errB := io.ReadFull(b, bufB)
		if nA != nB {
			return false, nil
		}
		if !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}
		doneA := errA == io.EOF || errA == io.ErrUnexpectedEOF
		doneB := errB == io.EOF || errB == io.ErrUnexpectedEOF
		if doneA != doneB {
			return false, nil
		}
		if doneA {
			return true, nil
		}
		if errA != nil {
			return false, errA
		}
		if errB != nil {
			return false, errB
		}
	}
}
