package core

// Indexer consumes statTuple values and inserts them into a SizeTree,
// deduplicating repeated (path, size) observations before they ever reach
// the tree (§4.H). It is safe to drive from a single goroutine only: the
// two-thread mode (§5) confines all calls to Index to one Indexer goroutine
// reading off a ChannelTupleSink's channel.
type Indexer struct {
	arena *PathArena
	tree  *SizeTree
	seen  map[statTuple]struct{}
}

// NewIndexer returns an Indexer writing into tree, interning paths via
// arena.
func NewIndexer(arena *PathArena, tree *SizeTree) *Indexer {
	return &Indexer{
		arena: arena,
		tree:  tree,
		seen:  make(map[statTuple]struct{}),
	}
}

// Index records one tuple, skipping it if an identical (path, size) tuple
// was already indexed.
func (idx *Indexer) Index(t statTuple) {
	if _, dup := idx.seen[t]; dup {
		return
	}
	idx.seen[t] = struct{}{}

	path := idx.arena.Intern(t.path)
	entry := idx.arena.NewEntry(path, t.device, t.inode)
	entry.Locality = t.locality
	entry.HasLocality = t.hasLocality
	idx.tree.Append(t.size, entry)
}

// Drain reads every tuple off ch until it is closed, indexing each one. It
// is the consumer half of the two-thread producer/consumer mode (§5): the
// Scanner closes ch once every root has been fully walked, and Drain
// returns once it has processed everything already queued.
func (idx *Indexer) Drain(ch <-chan statTuple) {
	for t := range ch {
		idx.Index(t)
	}
}

// NewChannelTupleSink returns a ChannelTupleSink with the given buffer
// capacity, decoupling Scanner and Indexer goroutines (§4.H threaded mode).
func NewChannelTupleSink(capacity int) *ChannelTupleSink {
	return &ChannelTupleSink{ch: make(chan statTuple, capacity)}
}

// Close closes the underlying channel, signalling end-of-stream to the
// Indexer goroutine draining it.
func (s *ChannelTupleSink) Close() {
	close(s.ch)
}

// Chan exposes the underlying channel for an Indexer's Drain call.
func (s *ChannelTupleSink) Chan() <-chan statTuple {
	return s.ch
}
