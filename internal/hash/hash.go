// Package hash provides the built-in Hasher implementations the map
// engine uses to turn keys into bucket indices. The Hasher type itself is
// declared in pkg/hash so callers can supply their own; this package
// just supplies the defaults.
//
// The default hashers are backed by cespare/xxhash/v2, the same hash
// family rpcpool-yellowstone-faithful uses for its CAR index lookups. An
// alternate implementation backed by OneOfOne/xxhash is also provided so
// that the Hasher slot is demonstrably pluggable rather than hardwired to
// one library.
package hash

import (
	"encoding/binary"

	oneofone "github.com/OneOfOne/xxhash"
	"github.com/cespare/xxhash/v2"

	pkghash "github.com/iamNilotpal/rogue/pkg/hash"
)

// Hasher maps a key of type K to a 32-bit hash. It is an alias of
// pkg/hash.Hasher so built-in and caller-supplied hashers interchange
// freely.
type Hasher[K any] = pkghash.Hasher[K]

// StringXXHash32 hashes strings with cespare/xxhash/v2, truncating the
// 64-bit digest to 32 bits.
func StringXXHash32() Hasher[string] {
	return func(key string) int32 {
		return int32(xxhash.Sum64String(key))
	}
}

// BytesXXHash32 hashes byte slices with cespare/xxhash/v2.
func BytesXXHash32() Hasher[[]byte] {
	return func(key []byte) int32 {
		return int32(xxhash.Sum64(key))
	}
}

// Int64XXHash32 hashes int64 keys by hashing their little-endian encoding.
// This keeps every key type routed through the same hash family rather
// than relying on a weaker identity-style mix for integers.
func Int64XXHash32() Hasher[int64] {
	return func(key int64) int32 {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(key))
		return int32(xxhash.Sum64(buf[:]))
	}
}

// Uint64XXHash32 hashes uint64 keys the same way Int64XXHash32 does.
func Uint64XXHash32() Hasher[uint64] {
	return func(key uint64) int32 {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], key)
		return int32(xxhash.Sum64(buf[:]))
	}
}

// StringOneOfOne hashes strings with OneOfOne/xxhash instead of
// cespare/xxhash/v2. It exists to prove the Hasher slot is a genuine
// extension point: callers unhappy with the default hash family can swap
// it for this one, or for their own, without touching the engine.
func StringOneOfOne() Hasher[string] {
	return func(key string) int32 {
		h := oneofone.New64()
		h.Write([]byte(key))
		return int32(h.Sum64())
	}
}

// BytesOneOfOne hashes byte slices with OneOfOne/xxhash.
func BytesOneOfOne() Hasher[[]byte] {
	return func(key []byte) int32 {
		h := oneofone.New64()
		h.Write(key)
		return int32(h.Sum64())
	}
}
