package core

import "sort"

// ReadListEntry is one scheduled read: the head and entry it belongs to,
// plus the identity fields the sort orders by (§3).
type ReadListEntry struct {
	Head     *PathListHead
	Entry    *PathEntry
	Device   uint64
	Inode    uint64
	Locality int64
	HasLocality bool
}

// ReadList is the locality-ordered worklist the Processor builds once per
// head and walks in every hash phase of that head. It is scratch: built,
// sorted, consumed, discarded (§3 lifecycles).
type ReadList struct {
	entries []ReadListEntry
}

// NewReadList returns an empty read list ready for one head's phase.
func NewReadList() *ReadList {
	return &ReadList{}
}

// Clear empties the list for reuse across phases.
func (r *ReadList) Clear() {
	r.entries = r.entries[:0]
}

// Append adds one entry to the list.
func (r *ReadList) Append(e ReadListEntry) {
	r.entries = append(r.entries, e)
}

// Entries returns the list's current contents.
func (r *ReadList) Entries() []ReadListEntry {
	return r.entries
}

// Sort orders the list by locality (when byLocality is true and at least one
// entry carries a locality key) then by (device, inode); otherwise by
// (device, inode) alone. When hardlinkIsUnique is set, consecutive entries
// sharing (device, inode) are compacted: all but the first are eliminated
// from their head (candidate count decremented) since one read of the
// canonical entry serves every alias (§4.D).
func (r *ReadList) Sort(byLocality, hardlinkIsUnique bool) {
	haveLocality := false
	if byLocality {
		for _, e := range r.entries {
			if e.HasLocality {
				haveLocality = true
				break
			}
		}
	}

	sort.Slice(r.entries, func(i, j int) bool {
		a, b := r.entries[i], r.entries[j]
		if haveLocality && a.Locality != b.Locality {
			return a.Locality < b.Locality
		}
		if a.Device != b.Device {
			return a.Device < b.Device
		}
		return a.Inode < b.Inode
	})

	if !hardlinkIsUnique {
		return
	}

	compacted := r.entries[:0:0]
	var havePrev bool
	var prevDevice, prevInode uint64
	for _, e := range r.entries {
		if havePrev && e.Device == prevDevice && e.Inode == prevInode {
			e.Head.eliminate(e.Entry)
			continue
		}
		compacted = append(compacted, e)
		prevDevice, prevInode, havePrev = e.Device, e.Inode, true
	}
	r.entries = compacted
}
