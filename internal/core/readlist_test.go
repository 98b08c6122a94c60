package core_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/find-duplicates/internal/core"
)

func TestReadListSortByLocality(t *testing.T) {
	tree := core.NewSizeTree()
	arena := core.NewPathArena()

	a := arena.NewEntry(arena.Intern("/a/alpha"), 1, 1)
	b := arena.NewEntry(arena.Intern("/a/beta"), 1, 2)
	head := tree.Append(4, a)
	tree.Append(4, b)

	rl := core.NewReadList()
	rl.Append(core.ReadListEntry{Head: head, Entry: a, Device: 1, Inode: 1, Locality: 100, HasLocality: true})
	rl.Append(core.ReadListEntry{Head: head, Entry: b, Device: 1, Inode: 2, Locality: 10, HasLocality: true})
	rl.Sort(true, false)

	entries := rl.Entries()
	assert.Equal(t, 2, len(entries))
	assert.Equal(t, b, entries[0].Entry)
	assert.Equal(t, a, entries[1].Entry)
}

func TestReadListSortFallsBackToDeviceInode(t *testing.T) {
	tree := core.NewSizeTree()
	arena := core.NewPathArena()

	a := arena.NewEntry(arena.Intern("/a/alpha"), 1, 5)
	b := arena.NewEntry(arena.Intern("/a/beta"), 1, 2)
	head := tree.Append(4, a)
	tree.Append(4, b)

	rl := core.NewReadList()
	rl.Append(core.ReadListEntry{Head: head, Entry: a, Device: 1, Inode: 5})
	rl.Append(core.ReadListEntry{Head: head, Entry: b, Device: 1, Inode: 2})
	rl.Sort(true, false)

	entries := rl.Entries()
	assert.Equal(t, b, entries[0].Entry)
	assert.Equal(t, a, entries[1].Entry)
}

func TestReadListHardlinkCompaction(t *testing.T) {
	tree := core.NewSizeTree()
	arena := core.NewPathArena()

	a := arena.NewEntry(arena.Intern("/a/alpha"), 1, 7)
	b := arena.NewEntry(arena.Intern("/a/beta"), 1, 7) // same (device, inode): hardlink alias
	head := tree.Append(4, a)
	tree.Append(4, b)

	rl := core.NewReadList()
	rl.Append(core.ReadListEntry{Head: head, Entry: a, Device: 1, Inode: 7})
	rl.Append(core.ReadListEntry{Head: head, Entry: b, Device: 1, Inode: 7})
	rl.Sort(true, true)

	entries := rl.Entries()
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, 1, head.CandidateCount)
	// sort.Slice does not guarantee which of two equal-keyed entries survives
	// compaction, only that exactly one does.
	assert.True(t, a.Valid != b.Valid)
}
