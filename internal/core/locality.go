package core

// LocalityProbe yields an opaque locality key for a path, approximating its
// on-disk read order (e.g., a physical extent's starting block). ReadList
// sorts by this key when available, reducing head-seek on rotational media
// and improving readahead hit rates on SSDs (§4.D rationale).
//
// A probe that cannot determine a file's locality returns ok=false; ReadList
// then falls back to ordering by (device, inode) for that entry.
type LocalityProbe func(path string) (key int64, ok bool)

// NoProbe is the default LocalityProbe: it never reports a locality key,
// so ReadList always falls back to (device, inode) ordering. This is the
// probe used when no platform-specific extent lookup is wired in (§4.P).
func NoProbe(string) (int64, bool) {
	return 0, false
}
