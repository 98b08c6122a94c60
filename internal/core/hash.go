package core

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"hash"

	"github.com/zeebo/xxh3"
)

// StreamingHash is a digest that can be fed bytes incrementally across
// Processor phases and summarized at any point without being consumed, so
// phase P+1 can keep writing to the same hasher phase P used rather than
// re-reading bytes phase P already hashed.
type StreamingHash interface {
	Write(p []byte) (int, error)
	// Sum returns the current digest, hex-encoded, without resetting state.
	Sum() string
}

// HashFunction constructs a fresh StreamingHash. It is the pluggable
// `hash_function` knob from §6: the default favors speed (xxh3) since the
// mandatory byte-exact pass in ByteCompare makes the digest's
// collision-resistance immaterial to correctness; crypto variants are
// offered for operators who persist the digest itself downstream.
type HashFunction func() StreamingHash

// xxh3Stream adapts zeebo/xxh3's hasher to StreamingHash.
type xxh3Stream struct {
	h *xxh3.Hasher
}

func (s *xxh3Stream) Write(p []byte) (int, error) { return s.h.Write(p) }

func (s *xxh3Stream) Sum() string {
	sum := s.h.Sum128()
	b := sum.Bytes()
	return hex.EncodeToString(b[:])
}

// XXH3 is the default HashFunction, matching the teacher's existing choice
// of zeebo/xxh3 for whole-file hashing.
func XXH3() StreamingHash {
	return &xxh3Stream{h: xxh3.New()}
}

// cryptoStream adapts a standard library hash.Hash to StreamingHash.
type cryptoStream struct {
	h hash.Hash
}

func (s *cryptoStream) Write(p []byte) (int, error) { return s.h.Write(p) }

func (s *cryptoStream) Sum() string {
	return hex.EncodeToString(s.h.Sum(nil))
}

// MD5 is a crypto HashFunction selectable via hash_algorithm: "md5".
func MD5() StreamingHash {
	return &cryptoStream{h: md5.New()}
}

// SHA256 is a crypto HashFunction selectable via hash_algorithm: "sha256".
func SHA256() StreamingHash {
	return &cryptoStream{h: sha256.New()}
}

// HashFunctionByName resolves the hash_algorithm config value to a
// HashFunction. An unrecognized name returns (nil, false).
func HashFunctionByName(name string) (HashFunction, bool) {
	switch name {
	case "", "xxh3":
		return XXH3, true
	case "md5":
		return MD5, true
	case "sha256":
		return SHA256, true
	default:
		return nil, false
	}
}
