package core_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/find-duplicates/internal/core"
)

func TestHashFunctionsAreDeterministicAndCollisionFree(t *testing.T) {
	for _, fn := range []core.HashFunction{core.XXH3, core.MD5, core.SHA256} {
		h1 := fn()
		h1.Write([]byte("hello world"))
		h2 := fn()
		h2.Write([]byte("hello world"))
		assert.Equal(t, h1.Sum(), h2.Sum())

		h3 := fn()
		h3.Write([]byte("goodbye world"))
		assert.NotEqual(t, h1.Sum(), h3.Sum())
	}
}

func TestHashFunctionStreamsIncrementally(t *testing.T) {
	whole := core.XXH3()
	whole.Write([]byte("hello world"))

	split := core.XXH3()
	split.Write([]byte("hello "))
	split.Write([]byte("world"))

	assert.Equal(t, whole.Sum(), split.Sum())
}

func TestHashFunctionByName(t *testing.T) {
	for _, name := range []string{"", "xxh3", "md5", "sha256"} {
		_, ok := core.HashFunctionByName(name)
		assert.True(t, ok)
	}

	_, ok := core.HashFunctionByName("crc32")
	assert.False(t, ok)
}
