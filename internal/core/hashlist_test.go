package core_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/find-duplicates/internal/core"
)

func TestHashListGroups(t *testing.T) {
	arena := core.NewPathArena()
	a := arena.NewEntry(arena.Intern("/a/alpha"), 1, 1)
	b := arena.NewEntry(arena.Intern("/a/beta"), 1, 2)
	c := arena.NewEntry(arena.Intern("/a/gamma"), 1, 3)

	hl := core.NewHashList()
	hl.Add(a, "digest1")
	hl.Add(b, "digest1")
	hl.Add(c, "digest2")

	groups := hl.Groups()
	assert.Equal(t, 2, len(groups))
	assert.Equal(t, 2, len(groups[0]))
	assert.Equal(t, 1, len(groups[1]))
}
