//go:build !linux

package locality

import "github.com/twpayne/find-duplicates/internal/core"

// Probe is the non-Linux fallback: FIEMAP has no portable equivalent, so
// locality-ordered reads degrade to the core's default (device, inode)
// ordering everywhere else.
func Probe(path string) (key int64, ok bool) {
	return core.NoProbe(path)
}

var _ core.LocalityProbe = Probe
