package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/find-duplicates/internal/logging"
	"github.com/twpayne/find-duplicates/internal/stats"
)

func newTestProcessor(sink ResultSink) *Processor {
	cfg := Config{}.WithDefaults()
	return NewProcessor(cfg, sink, &stats.Collector{}, logging.New(logging.LevelSilent))
}

type recordingSink struct {
	sets [][]string
}

func (s *recordingSink) Begin() error { return nil }
func (s *recordingSink) RecordDuplicateSet(size int64, paths []string) error {
	s.sets = append(s.sets, append([]string(nil), paths...))
	return nil
}
func (s *recordingSink) RecordUniqueSize(size int64, path string) error { return nil }
func (s *recordingSink) Commit() error                                 { return nil }
func (s *recordingSink) Abort() error                                  { return nil }

func TestProcessHeadEliminatesOnPrefixMismatch(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "alpha")
	bPath := filepath.Join(dir, "beta")
	assert.NoError(t, os.WriteFile(aPath, []byte("aaaaaaaa"), 0o644))
	assert.NoError(t, os.WriteFile(bPath, []byte("aaaaaaab"), 0o644))

	arena := NewPathArena()
	tree := NewSizeTree()
	a := arena.NewEntry(arena.Intern(aPath), 1, 1)
	b := arena.NewEntry(arena.Intern(bPath), 1, 2)
	head := tree.Append(8, a)
	tree.Append(8, b)

	sink := &recordingSink{}
	p := newTestProcessor(sink)
	assert.NoError(t, p.processHead(context.Background(), head))

	assert.Equal(t, StateDoneUnique, head.State)
	assert.Equal(t, 0, len(sink.sets))
}

func TestProcessHeadReportsByteExactDuplicate(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "alpha")
	bPath := filepath.Join(dir, "beta")
	assert.NoError(t, os.WriteFile(aPath, []byte("duplicate-content"), 0o644))
	assert.NoError(t, os.WriteFile(bPath, []byte("duplicate-content"), 0o644))

	arena := NewPathArena()
	tree := NewSizeTree()
	a := arena.NewEntry(arena.Intern(aPath), 1, 1)
	b := arena.NewEntry(arena.Intern(bPath), 1, 2)
	head := tree.Append(int64(len("duplicate-content")), a)
	tree.Append(int64(len("duplicate-content")), b)

	sink := &recordingSink{}
	p := newTestProcessor(sink)
	assert.NoError(t, p.processHead(context.Background(), head))

	assert.Equal(t, StateDoneDup, head.State)
	assert.Equal(t, 1, len(sink.sets))
	assert.Equal(t, 2, len(sink.sets[0]))
}

func TestProcessHeadHandlesFileShrinkage(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "alpha")
	bPath := filepath.Join(dir, "beta")
	assert.NoError(t, os.WriteFile(aPath, []byte("01234567"), 0o644))
	assert.NoError(t, os.WriteFile(bPath, []byte("01234567"), 0o644))

	arena := NewPathArena()
	tree := NewSizeTree()
	// Claim a size larger than what's actually on disk, simulating a file
	// that shrank between stat and read.
	a := arena.NewEntry(arena.Intern(aPath), 1, 1)
	b := arena.NewEntry(arena.Intern(bPath), 1, 2)
	head := tree.Append(100, a)
	tree.Append(100, b)

	sink := &recordingSink{}
	p := newTestProcessor(sink)
	assert.NoError(t, p.processHead(context.Background(), head))

	assert.Equal(t, 0, len(sink.sets))
}
