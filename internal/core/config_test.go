package core_test

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/find-duplicates/internal/core"
)

func TestConfigWithDefaults(t *testing.T) {
	cfg := core.Config{Roots: []string{"/a"}}.WithDefaults()
	assert.Equal(t, int64(1), cfg.MinSize)
	assert.Equal(t, byte(0x1F), cfg.PathSeparator)
	assert.NotZero(t, cfg.MaxGoroutines)
	assert.Equal(t, core.DefaultHashSchedule, cfg.HashSchedule)
}

func TestConfigValidateRejectsEmptyRoots(t *testing.T) {
	err := (core.Config{}).Validate()
	assert.Error(t, err)
	var configErr *core.ConfigError
	assert.True(t, errors.As(err, &configErr))
}

func TestConfigValidateRejectsEmptyRootString(t *testing.T) {
	err := core.Config{Roots: []string{""}}.Validate()
	assert.Error(t, err)
}

func TestConfigValidateRejectsNonMonotonicSchedule(t *testing.T) {
	err := core.Config{
		Roots:        []string{"/a"},
		HashSchedule: []int64{64 * 1024, 8 * 1024, -1},
	}.Validate()
	assert.Error(t, err)
}

func TestConfigValidateRejectsMissingFullFileSentinel(t *testing.T) {
	err := core.Config{
		Roots:        []string{"/a"},
		HashSchedule: []int64{8 * 1024, 64 * 1024},
	}.Validate()
	assert.Error(t, err)
}

func TestConfigValidateAcceptsDefaultSchedule(t *testing.T) {
	err := core.Config{Roots: []string{"/a"}}.Validate()
	assert.NoError(t, err)
}

