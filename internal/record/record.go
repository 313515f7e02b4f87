// Package record encodes and decodes the entry records that the map
// engine appends to its paged log. A record is a small self-describing
// header (flag, hash, expiry, and optional length fields) immediately
// followed by the key bytes and value bytes a Codec produced.
//
// The header layout is fixed at 13 bytes (flag + hash + expireAt); the
// two 4-byte length fields are present only when the corresponding
// Codec does not declare a fixed length, matching the entry record table
// in the core design.
package record

import "encoding/binary"

const (
	// FlagActive marks a record as the live value for its key.
	FlagActive byte = 1
	// FlagDeleted marks a record as superseded; its bytes remain in the
	// log until compaction reclaims them.
	FlagDeleted byte = 2
)

// headerFixedSize is flag(1) + hash(4) + expireAt(8).
const headerFixedSize = 13

// Layout captures which length fields a given key/value Codec pair
// requires in the persisted header, derived once from FixedLength().
type Layout struct {
	KeyFixedLen int
	KeyIsFixed  bool
	ValFixedLen int
	ValIsFixed  bool
}

// HeaderSize returns the number of header bytes a record under this
// layout occupies, before the key and value bytes.
func (l Layout) HeaderSize() int {
	n := headerFixedSize
	if !l.KeyIsFixed {
		n += 4
	}
	if !l.ValIsFixed {
		n += 4
	}
	return n
}

// Header is the decoded, in-memory form of a record's fixed prefix.
type Header struct {
	Flag     byte
	Hash     int32
	ExpireAt int64
	KeyLen   int32
	ValLen   int32
}

// Size returns the total record size (header + key + value) this header
// describes.
func (h Header) Size(layout Layout) int64 {
	return int64(layout.HeaderSize()) + int64(h.KeyLen) + int64(h.ValLen)
}

// EncodeHeader writes a record header into dst at offset 0 and returns
// the number of header bytes written. dst must have at least
// layout.HeaderSize() bytes. keyLen/valLen are only written to the
// buffer when the layout doesn't declare them fixed; a fixed-length
// Codec's length is implied by the layout itself and recovered from the
// Codec at decode time, not from the log.
func EncodeHeader(dst []byte, flag byte, hash int32, expireAt int64, keyLen, valLen int32, layout Layout) int {
	dst[0] = flag
	binary.LittleEndian.PutUint32(dst[1:5], uint32(hash))
	binary.LittleEndian.PutUint64(dst[5:13], uint64(expireAt))

	n := headerFixedSize
	if !layout.KeyIsFixed {
		binary.LittleEndian.PutUint32(dst[n:n+4], uint32(keyLen))
		n += 4
	}
	if !layout.ValIsFixed {
		binary.LittleEndian.PutUint32(dst[n:n+4], uint32(valLen))
		n += 4
	}
	return n
}

// DecodeHeader reads a record header from src (which must begin at the
// record's first byte) under layout, resolving key/value lengths from
// the layout's fixed sizes when the persisted header omits them. It
// returns the decoded header and the number of header bytes consumed.
func DecodeHeader(src []byte, layout Layout) (Header, int) {
	h := Header{
		Flag:     src[0],
		Hash:     int32(binary.LittleEndian.Uint32(src[1:5])),
		ExpireAt: int64(binary.LittleEndian.Uint64(src[5:13])),
	}

	n := headerFixedSize
	if layout.KeyIsFixed {
		h.KeyLen = int32(layout.KeyFixedLen)
	} else {
		h.KeyLen = int32(binary.LittleEndian.Uint32(src[n : n+4]))
		n += 4
	}
	if layout.ValIsFixed {
		h.ValLen = int32(layout.ValFixedLen)
	} else {
		h.ValLen = int32(binary.LittleEndian.Uint32(src[n : n+4]))
		n += 4
	}
	return h, n
}
