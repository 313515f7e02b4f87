// Package snapshot implements the self-describing on-disk format the map
// engine serializes its state to and restores it from: a small header,
// the index's bucket offsets, and the raw log bytes. The engine owns
// live state (the index arrays, the paged log, the counters); this
// package only knows how to flatten and reconstitute that state as
// bytes.
package snapshot

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Magic is the fixed 5-byte prefix identifying a rogue snapshot blob.
const Magic = "ROGUE"

// Version is the current snapshot format version this package writes
// and the only version it restores.
const Version = 2

// headerSize is Magic(5) + Version(1) + Capacity(4) + Size(4) +
// WriteOffset(4) + LogLength(4).
const headerSize = 5 + 1 + 4 + 4 + 4 + 4

// Source is what Serialize needs from the engine to build a snapshot: the
// bucket offsets (sign lost, per §4.5 — state is recovered from each
// record's Flag on restore) and the raw log bytes up to the write
// cursor.
type Source struct {
	BucketCount uint32
	LiveCount   uint32
	WriteOffset int64
	// BucketOffsetAbs returns |offset[i]| for bucket i.
	BucketOffsetAbs func(i uint32) int64
	// Log returns the first n bytes of the log, where n == WriteOffset.
	Log func(n int64) []byte
}

// ErrTooLarge is returned by Serialize when the log's write cursor
// exceeds the 32-bit offsets the snapshot format can represent.
type ErrTooLarge struct {
	WriteOffset int64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("snapshot: log write offset %d exceeds the 32-bit snapshot format limit", e.WriteOffset)
}

// Serialize flattens src into a ROGUE-format byte blob. It refuses,
// returning *ErrTooLarge, when the log is too large for 32-bit offsets
// to represent rather than silently truncating it.
func Serialize(src Source) ([]byte, error) {
	if src.WriteOffset < 0 || src.WriteOffset > math.MaxUint32 {
		return nil, &ErrTooLarge{WriteOffset: src.WriteOffset}
	}

	logBytes := src.Log(src.WriteOffset)
	logLength := uint32(len(logBytes))

	total := headerSize + int(src.BucketCount)*4 + len(logBytes)
	out := make([]byte, total)

	copy(out[0:5], Magic)
	out[5] = Version
	binary.LittleEndian.PutUint32(out[6:10], src.BucketCount)
	binary.LittleEndian.PutUint32(out[10:14], src.LiveCount)
	binary.LittleEndian.PutUint32(out[14:18], uint32(src.WriteOffset))
	binary.LittleEndian.PutUint32(out[18:22], logLength)

	cursor := headerSize
	for i := uint32(0); i < src.BucketCount; i++ {
		abs := src.BucketOffsetAbs(i)
		binary.LittleEndian.PutUint32(out[cursor:cursor+4], uint32(abs))
		cursor += 4
	}

	copy(out[cursor:], logBytes)
	return out, nil
}

// Header is the decoded fixed-size prefix of a snapshot blob.
type Header struct {
	Capacity    uint32
	Size        uint32
	WriteOffset uint32
	LogLength   uint32
}

// ErrInvalidMagic is returned by Deserialize when the blob does not
// begin with the ROGUE magic bytes.
var ErrInvalidMagic = fmt.Errorf("snapshot: magic mismatch, not a rogue snapshot")

// ErrUnsupportedVersion is returned by Deserialize when the blob declares
// a version this package doesn't know how to read.
type ErrUnsupportedVersion struct {
	Got byte
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("snapshot: unsupported version %d, expected %d", e.Got, Version)
}

// Deserialize validates and decodes blob's header, bucket offsets, and
// log bytes. It performs no engine-side reconstruction (hash[i] recovery
// from each record's stored hash, tombstone-count rescan): that is the
// engine's job, since it alone understands the record format the log
// bytes are encoded with.
func Deserialize(blob []byte) (Header, []int64, []byte, error) {
	if len(blob) < headerSize {
		return Header{}, nil, nil, ErrInvalidMagic
	}
	if string(blob[0:5]) != Magic {
		return Header{}, nil, nil, ErrInvalidMagic
	}
	if blob[5] != Version {
		return Header{}, nil, nil, &ErrUnsupportedVersion{Got: blob[5]}
	}

	h := Header{
		Capacity:    binary.LittleEndian.Uint32(blob[6:10]),
		Size:        binary.LittleEndian.Uint32(blob[10:14]),
		WriteOffset: binary.LittleEndian.Uint32(blob[14:18]),
		LogLength:   binary.LittleEndian.Uint32(blob[18:22]),
	}

	bucketsEnd := headerSize + int(h.Capacity)*4
	if len(blob) < bucketsEnd+int(h.LogLength) {
		return Header{}, nil, nil, fmt.Errorf("snapshot: truncated blob, want at least %d bytes, got %d", bucketsEnd+int(h.LogLength), len(blob))
	}

	bucketAbs := make([]int64, h.Capacity)
	cursor := headerSize
	for i := range bucketAbs {
		bucketAbs[i] = int64(binary.LittleEndian.Uint32(blob[cursor : cursor+4]))
		cursor += 4
	}

	log := make([]byte, h.LogLength)
	copy(log, blob[bucketsEnd:bucketsEnd+int(h.LogLength)])

	return h, bucketAbs, log, nil
}
