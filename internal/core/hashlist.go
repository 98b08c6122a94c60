package core

// HashBucket groups the PathEntry values that produced an identical digest
// during one hash phase.
type HashBucket struct {
	Digest  string
	Entries []*PathEntry
}

// HashList accumulates (entry, digest) pairs for one hash phase and splits
// them into groups. A group of size 1 is a file that differs from every
// other candidate at the hashed prefix and is eliminated from its head; a
// group of size >= 2 remains a candidate set for the next phase (§4.E).
type HashList struct {
	order   []string
	buckets map[string]*HashBucket
}

// NewHashList returns an empty accumulator.
func NewHashList() *HashList {
	return &HashList{buckets: make(map[string]*HashBucket)}
}

// Add records that entry hashed to digest in the current phase.
func (h *HashList) Add(entry *PathEntry, digest string) {
	bucket, ok := h.buckets[digest]
	if !ok {
		bucket = &HashBucket{Digest: digest}
		h.buckets[digest] = bucket
		h.order = append(h.order, digest)
	}
	bucket.Entries = append(bucket.Entries, entry)
}

// Groups returns every accumulated bucket's entries, in the order their
// first member was added (stable enough for deterministic tests; not a
// correctness requirement per §5 ordering guarantees).
func (h *HashList) Groups() [][]*PathEntry {
	out := make([][]*PathEntry, 0, len(h.order))
	for _, digest := range h.order {
		out = append(out, h.buckets[digest].Entries)
	}
	return out
}
