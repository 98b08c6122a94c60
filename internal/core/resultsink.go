package core

// ResultSink is the abstract contract the Processor reports duplicate sets
// and unique-size facts to (§4.J). The core treats persistence as an
// external collaborator: exactly one Begin precedes any records, and
// exactly one Commit (or, on cancellation or fatal error, Abort) follows.
type ResultSink interface {
	// Begin opens a transactional boundary around the whole scan.
	Begin() error

	// RecordDuplicateSet reports one duplicate equivalence class. paths has
	// length >= 2.
	RecordDuplicateSet(size int64, paths []string) error

	// RecordUniqueSize reports a size-unique fact (only called when
	// Config.SaveUniques is set).
	RecordUniqueSize(size int64, path string) error

	// Commit closes the transactional boundary, making every record in it
	// visible. A failed Commit is fatal: the scan's result is considered
	// lost (§7).
	Commit() error

	// Abort rolls back the transactional boundary, leaving no partial scan
	// visible. Called on cancellation or on a fatal error encountered after
	// Begin.
	Abort() error
}
