package core

import (
	"sort"
	"sync"
)

// State is a PathListHead's position in the Processor's state machine (see
// §4.I of the specification).
type State int

const (
	// StateReady marks a head not yet visited by the Processor.
	StateReady State = iota
	// StateSizeUnique marks a head whose candidate count collapsed to 1
	// during traversal or hardlink compaction. Terminal.
	StateSizeUnique
	// StateHashing marks a head currently hashing one of its prefix phases.
	StateHashing
	// StateBytewise marks a head in its final byte-exact pass.
	StateBytewise
	// StateDoneDup marks a head that emitted at least one duplicate set.
	// Terminal.
	StateDoneDup
	// StateDoneUnique marks a head whose hash phases or byte-exact pass
	// left no duplicate set. Terminal.
	StateDoneUnique
)

// PathListHead is a size-bucket: every PathEntry appended to it shares Size.
// CandidateCount is the number of still-Valid entries and is monotonically
// non-increasing once traversal ends (§3 PathListHead; invariant 8 in §8).
type PathListHead struct {
	Size           int64
	Entries        []*PathEntry
	State          State
	Phase          int
	CandidateCount int
}

// candidates returns the still-valid entries of h.
func (h *PathListHead) candidates() []*PathEntry {
	out := make([]*PathEntry, 0, h.CandidateCount)
	for _, e := range h.Entries {
		if e.Valid {
			out = append(out, e)
		}
	}
	return out
}

// eliminate clears e's valid flag and decrements h's candidate count. It is
// idempotent: eliminating an already-invalid entry is a no-op, since a few
// call sites (hardlink compaction followed by a hash-phase split on the
// same entry set) can observe the same entry twice.
func (h *PathListHead) eliminate(e *PathEntry) {
	if !e.Valid {
		return
	}
	e.Valid = false
	h.CandidateCount--
}

// SizeTree maps file size to the PathListHead gathering every path observed
// with that size. get_or_create is called only from the Indexer during
// traversal (§4.B); the Processor only reads the tree after traversal ends,
// so the mutex here guards the traversal-time writer against nothing but
// itself — it exists because threaded-mode Indexer work can, in principle,
// run on more than one goroutine if a caller chooses to fan out indexing
// (the core does not prevent it), and because tests construct trees directly
// without going through a single-threaded Indexer.
type SizeTree struct {
	mu    sync.Mutex
	byLen map[int64]*PathListHead
}

// NewSizeTree returns an empty tree.
func NewSizeTree() *SizeTree {
	return &SizeTree{byLen: make(map[int64]*PathListHead)}
}

// GetOrCreate returns the head for size, creating it on first use.
func (t *SizeTree) GetOrCreate(size int64) *PathListHead {
	t.mu.Lock()
	defer t.mu.Unlock()
	head, ok := t.byLen[size]
	if !ok {
		head = &PathListHead{Size: size}
		t.byLen[size] = head
	}
	return head
}

// Append adds entry to the head for size, and returns that head.
func (t *SizeTree) Append(size int64, entry *PathEntry) *PathListHead {
	head := t.GetOrCreate(size)
	t.mu.Lock()
	head.Entries = append(head.Entries, entry)
	head.CandidateCount++
	t.mu.Unlock()
	return head
}

// DrainMulti returns every head with candidate count >= 2, ordered by
// ascending size so the order is stable for a given input (Go map
// iteration order alone differs from call to call). Correctness does not
// depend on the order: see invariant 5 in §8, commutativity.
func (t *SizeTree) DrainMulti() []*PathListHead {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*PathListHead, 0, len(t.byLen))
	for _, head := range t.byLen {
		if head.CandidateCount >= 2 {
			out = append(out, head)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Size < out[j].Size })
	return out
}

// UniqueSizeHeads returns every head with candidate count == 1, used to
// populate ResultSink.RecordUniqueSize when save_uniques is set.
func (t *SizeTree) UniqueSizeHeads() []*PathListHead {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*PathListHead, 0)
	for _, head := range t.byLen {
		if head.CandidateCount == 1 {
			out = append(out, head)
		}
	}
	return out
}

// Len returns the number of distinct sizes observed.
func (t *SizeTree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byLen)
}

// SizeList is the Processor's worklist: the heads produced by
// SizeTree.DrainMulti, frozen at the moment traversal completes (§4.C).
type SizeList struct {
	Heads []*PathListHead
}

// NewSizeList builds a SizeList from tree's multi-candidate heads.
func NewSizeList(tree *SizeTree) *SizeList {
	return &SizeList{Heads: tree.DrainMulti()}
}
