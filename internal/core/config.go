package core

import "runtime"

// DefaultHashSchedule is the default progressive prefix schedule: an 8 KiB
// sniff, a 64 KiB follow-up, then the full file (§6).
var DefaultHashSchedule = []int64{8 * 1024, 64 * 1024, -1}

// fullPrefix is the hash_schedule sentinel meaning "the whole file".
const fullPrefix = -1

// Config collects every knob the core accepts (§6).
type Config struct {
	// Roots are the absolute directory paths to scan. Must be non-empty;
	// each entry must be non-empty.
	Roots []string

	// MinSize is the strict lower bound: files with size > MinSize are
	// admitted. Default 1 excludes zero-byte and one-byte files.
	MinSize int64

	// ScanHidden admits dotfiles and dot-directories when true.
	ScanHidden bool

	// HardlinkIsUnique collapses entries sharing (device, inode) to a
	// single candidate before reading.
	HardlinkIsUnique bool

	// ThreadedIndex enables the two-thread Scanner/Indexer producer-consumer
	// mode (§5). When false, the Scanner calls the Indexer inline.
	ThreadedIndex bool

	// SaveUniques requests that heads with candidate count == 1 be reported
	// to the ResultSink as unique-size facts.
	SaveUniques bool

	// PathSeparator is the reserved ASCII byte forbidden in admitted paths.
	PathSeparator byte

	// LocalityProbe enables locality-ordered reads when non-nil. Defaults to
	// NoProbe.
	LocalityProbe LocalityProbe

	// HashSchedule is a monotonic non-decreasing list of prefix lengths
	// ending at fullPrefix ("full"). Defaults to DefaultHashSchedule.
	HashSchedule []int64

	// HashFunction constructs the streaming digest used by HashList.
	// Defaults to XXH3.
	HashFunction HashFunction

	// MaxGoroutines bounds the Scanner/Indexer/Processor worker pools.
	// Defaults to 2*runtime.NumCPU().
	MaxGoroutines int

	// KeepGoing is carried through from the CLI but is not read by the
	// core: a scan behaves the same whichever value is set. Per-entry
	// errors during traversal and hashing are always counted and skipped.
	KeepGoing bool
}

// WithDefaults returns a copy of c with zero-valued fields replaced by their
// documented defaults.
func (c Config) WithDefaults() Config {
	if c.MinSize == 0 {
		c.MinSize = 1
	}
	if c.PathSeparator == 0 {
		// 0x1F (ASCII unit separator) is vanishingly unlikely to appear in a
		// real filename; the SQLiteResultSink records it in each scan row
		// for downstream consumers that join paths into flat text. It
		// deliberately is not '/', which every absolute path must contain.
		c.PathSeparator = 0x1F
	}
	if c.LocalityProbe == nil {
		c.LocalityProbe = NoProbe
	}
	if len(c.HashSchedule) == 0 {
		c.HashSchedule = DefaultHashSchedule
	}
	if c.HashFunction == nil {
		c.HashFunction = XXH3
	}
	if c.MaxGoroutines <= 0 {
		c.MaxGoroutines = 2 * runtime.NumCPU()
	}
	return c
}

// Validate checks c for the configuration errors enumerated in §7: a null
// or empty root set, an empty root string, or a non-monotonic hash
// schedule. It is run once, before any scan I/O happens.
func (c Config) Validate() error {
	if len(c.Roots) == 0 {
		return &ConfigError{Reason: "no roots configured"}
	}
	for _, root := range c.Roots {
		if root == "" {
			return &ConfigError{Reason: "empty root path"}
		}
	}
	schedule := c.HashSchedule
	if len(schedule) == 0 {
		schedule = DefaultHashSchedule
	}
	var prev int64 = -2 // smaller than any real prefix length and fullPrefix's sentinel only appears last
	for i, l := range schedule {
		if l != fullPrefix && l < prev {
			return &ConfigError{Reason: "hash_schedule is not monotonically non-decreasing"}
		}
		if l != fullPrefix {
			prev = l
		}
		if l == fullPrefix && i != len(schedule)-1 {
			return &ConfigError{Reason: "hash_schedule's full-file sentinel must be last"}
		}
	}
	if schedule[len(schedule)-1] != fullPrefix {
		return &ConfigError{Reason: "hash_schedule must end at the full file"}
	}
	return nil
}
