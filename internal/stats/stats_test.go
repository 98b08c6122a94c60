package stats_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/find-duplicates/internal/stats"
)

func TestCollectorMarshalJSON(t *testing.T) {
	c := &stats.Collector{}
	c.FilesSeen.Add(10)
	c.FilesOpened.Add(5)
	c.TotalBytes.Add(1000)
	c.BytesHashed.Add(250)
	c.DuplicateSets.Add(1)
	c.DuplicateFiles.Add(2)

	data, err := c.MarshalJSON()
	assert.NoError(t, err)

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(10), decoded["filesSeen"])
	assert.Equal(t, float64(5), decoded["filesOpened"])
	assert.Equal(t, float64(50), decoded["filesOpenedPercent"])
	assert.Equal(t, float64(25), decoded["bytesHashedPercent"])
	assert.Equal(t, float64(1), decoded["duplicateSets"])
	assert.Equal(t, float64(2), decoded["duplicateFiles"])
}

func TestCollectorMarshalJSONZeroValue(t *testing.T) {
	c := &stats.Collector{}
	data, err := c.MarshalJSON()
	assert.NoError(t, err)

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(data, &decoded))
	// Percent fields must not be NaN/Inf from a division by zero.
	assert.Equal(t, float64(0), decoded["filesOpenedPercent"])
	assert.Equal(t, float64(0), decoded["bytesHashedPercent"])
}

func TestCollectorFprint(t *testing.T) {
	c := &stats.Collector{}
	c.FilesSeen.Add(3)
	c.DuplicateSets.Add(1)
	c.DuplicateFiles.Add(2)

	var buf bytes.Buffer
	assert.NoError(t, c.Fprint(&buf))
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("3 files")))
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("1 duplicate sets")))
}
