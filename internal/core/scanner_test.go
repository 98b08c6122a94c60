package core_test

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/twpayne/go-vfs/v4/vfst"

	"github.com/twpayne/find-duplicates/internal/core"
	"github.com/twpayne/find-duplicates/internal/logging"
	"github.com/twpayne/find-duplicates/internal/stats"
)

func TestRunSkipsHiddenByDefault(t *testing.T) {
	fs, cleanup, err := vfst.NewTestFS(map[string]any{
		"alpha":  "a",
		".beta":  "a",
		".gamma": "b",
	})
	assert.NoError(t, err)
	defer cleanup()

	cfg := core.Config{Roots: []string{fs.TempDir()}}
	sink := &fakeSink{}
	collector := &stats.Collector{}
	assert.NoError(t, core.Run(context.Background(), cfg, sink, collector, logging.New(logging.LevelSilent)))

	assert.Equal(t, 0, len(sink.duplicateSets))
	assert.Equal(t, uint64(2), collector.FilesSkippedHidden.Load())
}

func TestRunScanHiddenIncludesDotfiles(t *testing.T) {
	fs, cleanup, err := vfst.NewTestFS(map[string]any{
		"alpha": "aa",
		".beta": "aa",
	})
	assert.NoError(t, err)
	defer cleanup()

	cfg := core.Config{Roots: []string{fs.TempDir()}, ScanHidden: true}
	sink := &fakeSink{}
	collector := &stats.Collector{}
	assert.NoError(t, core.Run(context.Background(), cfg, sink, collector, logging.New(logging.LevelSilent)))

	assert.Equal(t, 1, len(sink.duplicateSets))
}

func TestRunSkipsFilesAtOrBelowMinSize(t *testing.T) {
	fs, cleanup, err := vfst.NewTestFS(map[string]any{
		"alpha": "a",
		"beta":  "a",
	})
	assert.NoError(t, err)
	defer cleanup()

	cfg := core.Config{Roots: []string{fs.TempDir()}, MinSize: 1}
	sink := &fakeSink{}
	collector := &stats.Collector{}
	assert.NoError(t, core.Run(context.Background(), cfg, sink, collector, logging.New(logging.LevelSilent)))

	assert.Equal(t, 0, len(sink.duplicateSets))
	assert.Equal(t, uint64(2), collector.FilesSkippedSmall.Load())
}

func TestRunSkipsNamesContainingSeparator(t *testing.T) {
	fs, cleanup, err := vfst.NewTestFS(map[string]any{
		"alpha":    "a",
		"be\x1fta": "a",
	})
	assert.NoError(t, err)
	defer cleanup()

	cfg := core.Config{Roots: []string{fs.TempDir()}}
	sink := &fakeSink{}
	collector := &stats.Collector{}
	assert.NoError(t, core.Run(context.Background(), cfg, sink, collector, logging.New(logging.LevelSilent)))

	assert.Equal(t, uint64(1), collector.FilesSkippedSeparator.Load())
}
