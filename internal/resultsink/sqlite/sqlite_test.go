package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	_ "modernc.org/sqlite"

	"github.com/twpayne/find-duplicates/internal/resultsink/sqlite"
)

func TestSinkCommit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scan.db")

	sink := sqlite.New(dbPath, 0x1F, 1700000000)
	assert.NoError(t, sink.Begin())
	assert.NoError(t, sink.RecordDuplicateSet(4, []string{"/a/beta", "/a/alpha"}))
	assert.NoError(t, sink.RecordUniqueSize(9, "/a/gamma"))
	assert.NoError(t, sink.Commit())

	db, err := sql.Open("sqlite", dbPath)
	assert.NoError(t, err)
	defer db.Close()

	var scanCount int
	assert.NoError(t, db.QueryRow(`SELECT count(*) FROM scan`).Scan(&scanCount))
	assert.Equal(t, 1, scanCount)

	rows, err := db.Query(`SELECT path FROM duplicates ORDER BY path`)
	assert.NoError(t, err)
	var paths []string
	for rows.Next() {
		var p string
		assert.NoError(t, rows.Scan(&p))
		paths = append(paths, p)
	}
	assert.NoError(t, rows.Err())
	assert.Equal(t, []string{"/a/alpha", "/a/beta"}, paths)

	var uniqueCount int
	assert.NoError(t, db.QueryRow(`SELECT count(*) FROM unique_sizes WHERE path = ?`, "/a/gamma").Scan(&uniqueCount))
	assert.Equal(t, 1, uniqueCount)
}

func TestSinkAbort(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scan.db")

	sink := sqlite.New(dbPath, 0x1F, 1700000000)
	assert.NoError(t, sink.Begin())
	assert.NoError(t, sink.RecordDuplicateSet(4, []string{"/a/beta", "/a/alpha"}))
	assert.NoError(t, sink.Abort())

	db, err := sql.Open("sqlite", dbPath)
	assert.NoError(t, err)
	defer db.Close()

	var scanCount int
	assert.NoError(t, db.QueryRow(`SELECT count(*) FROM scan`).Scan(&scanCount))
	assert.Equal(t, 0, scanCount)

	var dupCount int
	assert.NoError(t, db.QueryRow(`SELECT count(*) FROM duplicates`).Scan(&dupCount))
	assert.Equal(t, 0, dupCount)
}
