package core

import "sync"

// Path is an interned, absolute filesystem path. Once returned by
// [PathArena.Intern] its string value never changes.
type Path string

// PathEntry is one occupied slot in a PathListHead: a path together with its
// on-disk identity. Valid is cleared (never reset) when the entry is
// eliminated from its enclosing head's candidate set, whether by hardlink
// collapsing, a hash-phase split, or a read error.
type PathEntry struct {
	Path     Path
	Device   uint64
	Inode    uint64
	Locality int64
	HasLocality bool
	Valid    bool

	// hasher and hashedThrough carry a PathEntry's streaming hash state
	// across Processor phases, so phase P+1 never re-reads bytes already
	// consumed by phase P.
	hasher        StreamingHash
	hashedThrough int64
}

// PathArena is append-only storage for interned paths and their entries. It
// is the sole owner of path strings: once interned, a Path's backing string
// is never mutated or freed before scan teardown. Appends are guarded by a
// mutex so NewEntry is safe to call from more than one goroutine; within
// the core only the Indexer calls it, and Run waits for the Indexer to
// finish before the Processor starts.
type PathArena struct {
	mu      sync.Mutex
	entries []*PathEntry
}

// NewPathArena returns an empty arena.
func NewPathArena() *PathArena {
	return &PathArena{}
}

// Intern records s as a Path. The arena does not deduplicate identical path
// strings: two stat observations of the same path (which can happen across
// concurrent roots only in pathological configurations) are treated as
// distinct arena slots, and deduplication of (path, size) pairs happens one
// layer up, in the Indexer.
func (a *PathArena) Intern(s string) Path {
	return Path(s)
}

// NewEntry creates a new PathEntry for path, recording it in the arena and
// returning a pointer stable for the remainder of the scan.
func (a *PathArena) NewEntry(path Path, device, inode uint64) *PathEntry {
	entry := &PathEntry{
		Path:   path,
		Device: device,
		Inode:  inode,
		Valid:  true,
	}
	a.mu.Lock()
	a.entries = append(a.entries, entry)
	a.mu.Unlock()
	return entry
}

// Len returns the number of entries ever created by this arena.
func (a *PathArena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}
