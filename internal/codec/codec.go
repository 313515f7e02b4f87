// Package codec implements the built-in Codec capability the map engine
// relies on for every key and value it stores: turning a typed value
// into bytes and back, without the engine ever inspecting those bytes
// itself. The Codec interface itself is declared in pkg/codec so callers
// can implement their own against it; this package just supplies the
// defaults.
package codec

import (
	"encoding/binary"
	"encoding/json"
	"math"

	pkgcodec "github.com/iamNilotpal/rogue/pkg/codec"
)

// String is the default Codec[string]: a direct UTF-8 byte copy with no
// fixed length, since strings are inherently variable-width.
type String struct{}

func (String) Encode(value string, dst []byte, dstOffset int) int {
	return copy(dst[dstOffset:], value)
}

func (String) Decode(src []byte, srcOffset int, length int) string {
	return string(src[srcOffset : srcOffset+length])
}

func (String) ByteLength(value string) int { return len(value) }

func (String) FixedLength() (int, bool) { return 0, false }

// Bytes is the default Codec[[]byte]: a direct byte copy, variable width.
type Bytes struct{}

func (Bytes) Encode(value []byte, dst []byte, dstOffset int) int {
	return copy(dst[dstOffset:], value)
}

func (Bytes) Decode(src []byte, srcOffset int, length int) []byte {
	out := make([]byte, length)
	copy(out, src[srcOffset:srcOffset+length])
	return out
}

func (Bytes) ByteLength(value []byte) int { return len(value) }

func (Bytes) FixedLength() (int, bool) { return 0, false }

// Int64 encodes int64 values as 8-byte little-endian, a fixed length so
// the engine never stores a redundant length field for integer values.
type Int64 struct{}

func (Int64) Encode(value int64, dst []byte, dstOffset int) int {
	binary.LittleEndian.PutUint64(dst[dstOffset:], uint64(value))
	return 8
}

func (Int64) Decode(src []byte, srcOffset int, length int) int64 {
	return int64(binary.LittleEndian.Uint64(src[srcOffset : srcOffset+8]))
}

func (Int64) ByteLength(value int64) int { return 8 }

func (Int64) FixedLength() (int, bool) { return 8, true }

// Uint64 encodes uint64 values as 8-byte little-endian, fixed length.
type Uint64 struct{}

func (Uint64) Encode(value uint64, dst []byte, dstOffset int) int {
	binary.LittleEndian.PutUint64(dst[dstOffset:], value)
	return 8
}

func (Uint64) Decode(src []byte, srcOffset int, length int) uint64 {
	return binary.LittleEndian.Uint64(src[srcOffset : srcOffset+8])
}

func (Uint64) ByteLength(value uint64) int { return 8 }

func (Uint64) FixedLength() (int, bool) { return 8, true }

// Float64 encodes float64 values as their 8-byte IEEE-754 bit pattern,
// little-endian, fixed length.
type Float64 struct{}

func (Float64) Encode(value float64, dst []byte, dstOffset int) int {
	binary.LittleEndian.PutUint64(dst[dstOffset:], math.Float64bits(value))
	return 8
}

func (Float64) Decode(src []byte, srcOffset int, length int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(src[srcOffset : srcOffset+8]))
}

func (Float64) ByteLength(value float64) int { return 8 }

func (Float64) FixedLength() (int, bool) { return 8, true }

// Bool encodes a boolean as a single byte, fixed length.
type Bool struct{}

func (Bool) Encode(value bool, dst []byte, dstOffset int) int {
	if value {
		dst[dstOffset] = 1
	} else {
		dst[dstOffset] = 0
	}
	return 1
}

func (Bool) Decode(src []byte, srcOffset int, length int) bool {
	return src[srcOffset] != 0
}

func (Bool) ByteLength(value bool) int { return 1 }

func (Bool) FixedLength() (int, bool) { return 1, true }

// JSON is a fallback Codec[T] for arbitrary struct values, used when no
// more specific codec applies. It round-trips through encoding/json and
// is deliberately the slow path: callers with a hot-path struct type
// should supply a purpose-built Codec instead.
type JSON[T any] struct{}

func (JSON[T]) Encode(value T, dst []byte, dstOffset int) int {
	b, err := json.Marshal(value)
	if err != nil {
		panic("codec: JSON encode failed: " + err.Error())
	}
	return copy(dst[dstOffset:], b)
}

func (JSON[T]) Decode(src []byte, srcOffset int, length int) T {
	var out T
	if err := json.Unmarshal(src[srcOffset:srcOffset+length], &out); err != nil {
		panic("codec: JSON decode failed: " + err.Error())
	}
	return out
}

func (JSON[T]) ByteLength(value T) int {
	b, err := json.Marshal(value)
	if err != nil {
		panic("codec: JSON encode failed: " + err.Error())
	}
	return len(b)
}

func (JSON[T]) FixedLength() (int, bool) { return 0, false }

var (
	_ pkgcodec.Codec[string]  = String{}
	_ pkgcodec.Codec[[]byte]  = Bytes{}
	_ pkgcodec.Codec[int64]   = Int64{}
	_ pkgcodec.Codec[uint64]  = Uint64{}
	_ pkgcodec.Codec[float64] = Float64{}
	_ pkgcodec.Codec[bool]    = Bool{}
	_ pkgcodec.Codec[any]     = Generic{}
)
