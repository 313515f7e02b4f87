// Package storage implements the paged, byte-addressable log that backs
// the map engine's entry records. It presents a flat address space over a
// sequence of fixed-size pages so that resident memory scales with packed
// entry bytes rather than with per-entry Go heap objects: the garbage
// collector ever sees a handful of large []byte pages, never one object
// per stored key.
//
// A single-page fast path bypasses the page-lookup arithmetic whenever the
// whole region fits in one page, which is the common case for the default
// log size.
package storage

import (
	"encoding/binary"
	"fmt"
)

// DefaultPageSize is the size of each page in a multi-page region, matching
// the reference design's 2^30-byte page. Callers needing predictable
// cross-page behavior in tests pass a smaller page size explicitly.
const DefaultPageSize = 1 << 30

// Storage is a logically contiguous byte region backed by one or more
// fixed-size pages. All primitive accessors are byte-offset addressed and
// panic on out-of-range access: per the storage contract, bounds violations
// are programming errors and must fail loudly rather than silently wrap.
type Storage struct {
	pageSize int64
	length   int64
	pages    [][]byte

	// single holds the one-and-only page when length <= pageSize, letting
	// every primitive op skip the page-index arithmetic entirely.
	single []byte
}

// New allocates a Storage of length bytes, split across pages of pageSize
// bytes. A pageSize <= 0 selects DefaultPageSize.
func New(length int64, pageSize int64) *Storage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	s := &Storage{pageSize: pageSize}
	s.allocate(length)
	return s
}

func (s *Storage) allocate(length int64) {
	if length < 0 {
		panic(fmt.Sprintf("storage: negative length %d", length))
	}

	s.length = length
	if length <= s.pageSize {
		s.single = make([]byte, length)
		s.pages = nil
		return
	}

	s.single = nil
	numPages := (length + s.pageSize - 1) / s.pageSize
	s.pages = make([][]byte, numPages)
	remaining := length
	for i := range s.pages {
		n := s.pageSize
		if remaining < n {
			n = remaining
		}
		s.pages[i] = make([]byte, n)
		remaining -= n
	}
}

// Len returns the total addressable length in bytes.
func (s *Storage) Len() int64 { return s.length }

// PageSize returns the configured page size.
func (s *Storage) PageSize() int64 { return s.pageSize }

func (s *Storage) checkRange(offset, length int64) {
	if offset < 0 || length < 0 || offset+length > s.length {
		panic(fmt.Sprintf(
			"storage: out of range access offset=%d length=%d bounds=%d", offset, length, s.length,
		))
	}
}

// pageFor returns the page slice and in-page offset backing offset, valid
// for up to the rest of that page's bytes.
func (s *Storage) pageFor(offset int64) (page []byte, pageOffset int64) {
	if s.single != nil {
		return s.single, offset
	}
	idx := offset / s.pageSize
	return s.pages[idx], offset % s.pageSize
}

// ReadU8 reads a single byte at offset.
func (s *Storage) ReadU8(offset int64) byte {
	s.checkRange(offset, 1)
	page, po := s.pageFor(offset)
	return page[po]
}

// WriteU8 writes a single byte at offset.
func (s *Storage) WriteU8(offset int64, v byte) {
	s.checkRange(offset, 1)
	page, po := s.pageFor(offset)
	page[po] = v
}

// ReadU32 reads a little-endian uint32 at offset, transparently handling a
// value that straddles a page boundary.
func (s *Storage) ReadU32(offset int64) uint32 {
	buf := s.readRange(offset, 4)
	return binary.LittleEndian.Uint32(buf)
}

// WriteU32 writes v as a little-endian uint32 at offset.
func (s *Storage) WriteU32(offset int64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	s.writeRange(offset, buf[:])
}

// ReadI32 reads a little-endian int32 at offset.
func (s *Storage) ReadI32(offset int64) int32 {
	return int32(s.ReadU32(offset))
}

// WriteI32 writes v as a little-endian int32 at offset.
func (s *Storage) WriteI32(offset int64, v int32) {
	s.WriteU32(offset, uint32(v))
}

// ReadI64 reads a little-endian int64 at offset. The entry record's
// ExpireAt field and the index's tombstone-signed offsets both need the
// full 64 bits, so this extends the primitive set beyond the u8/i32/u32
// trio the reference design calls out by name.
func (s *Storage) ReadI64(offset int64) int64 {
	buf := s.readRange(offset, 8)
	return int64(binary.LittleEndian.Uint64(buf))
}

// WriteI64 writes v as a little-endian int64 at offset.
func (s *Storage) WriteI64(offset int64, v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	s.writeRange(offset, buf[:])
}

// readRange copies length bytes starting at offset into a freshly allocated
// buffer, splitting the copy at page boundaries as needed.
func (s *Storage) readRange(offset, length int64) []byte {
	s.checkRange(offset, length)
	out := make([]byte, length)
	s.copyOut(offset, out)
	return out
}

func (s *Storage) copyOut(offset int64, dst []byte) {
	if s.single != nil {
		copy(dst, s.single[offset:offset+int64(len(dst))])
		return
	}

	remaining := dst
	cur := offset
	for len(remaining) > 0 {
		page, po := s.pageFor(cur)
		n := int64(len(page)) - po
		if n > int64(len(remaining)) {
			n = int64(len(remaining))
		}
		copy(remaining[:n], page[po:po+n])
		remaining = remaining[n:]
		cur += n
	}
}

func (s *Storage) writeRange(offset int64, src []byte) {
	s.checkRange(offset, int64(len(src)))
	if s.single != nil {
		copy(s.single[offset:offset+int64(len(src))], src)
		return
	}

	remaining := src
	cur := offset
	for len(remaining) > 0 {
		page, po := s.pageFor(cur)
		n := int64(len(page)) - po
		if n > int64(len(remaining)) {
			n = int64(len(remaining))
		}
		copy(page[po:po+n], remaining[:n])
		remaining = remaining[n:]
		cur += n
	}
}

// ReadBytes returns length bytes starting at offset. The returned slice is
// always a copy; callers that want a zero-copy view when one is available
// should call TryView first.
func (s *Storage) ReadBytes(offset int64, length int64) []byte {
	return s.readRange(offset, length)
}

// WriteBytes copies src into the region starting at offset. This is the
// bulk byte-range write the reference design calls for: callers encode a
// value into a scratch buffer once, then hand it to WriteBytes for the
// actual placement into the log.
func (s *Storage) WriteBytes(offset int64, src []byte) {
	s.writeRange(offset, src)
}

// Equal reports whether the length bytes at offset are byte-identical to
// other. len(other) must equal length.
func (s *Storage) Equal(offset int64, length int64, other []byte) bool {
	if int64(len(other)) != length {
		return false
	}
	s.checkRange(offset, length)

	if s.single != nil {
		for i := int64(0); i < length; i++ {
			if s.single[offset+i] != other[i] {
				return false
			}
		}
		return true
	}

	cur := offset
	remaining := other
	for len(remaining) > 0 {
		page, po := s.pageFor(cur)
		n := int64(len(page)) - po
		if n > int64(len(remaining)) {
			n = int64(len(remaining))
		}
		for i := int64(0); i < n; i++ {
			if page[po+i] != remaining[i] {
				return false
			}
		}
		remaining = remaining[n:]
		cur += n
	}
	return true
}

// TryView returns a zero-copy view into the region when [offset, offset+length)
// lies entirely within a single page, and ok=false otherwise. Callers must
// treat the returned slice as read-only and must not retain it past the next
// mutating call, since a resize reallocates pages.
func (s *Storage) TryView(offset, length int64) (view []byte, ok bool) {
	s.checkRange(offset, length)
	page, po := s.pageFor(offset)
	if po+length > int64(len(page)) {
		return nil, false
	}
	return page[po : po+length], true
}

// Resize grows or shrinks the region to newLength bytes. It allocates a
// fresh set of pages for the new length and copies the retained prefix
// (the first min(old, new) bytes) into them; no existing page is reused,
// including pages whose size is the same before and after.
func (s *Storage) Resize(newLength int64) {
	if newLength < 0 {
		panic(fmt.Sprintf("storage: negative resize target %d", newLength))
	}

	oldLen := s.length
	oldSingle := s.single
	oldPages := s.pages

	s.allocate(newLength)

	copyLen := oldLen
	if newLength < copyLen {
		copyLen = newLength
	}
	if copyLen == 0 {
		return
	}

	if oldSingle != nil {
		s.writeRange(0, oldSingle[:copyLen])
		return
	}

	// Copy from the old multi-page layout page by page to avoid
	// materializing the whole old region at once.
	remaining := copyLen
	cur := int64(0)
	for _, p := range oldPages {
		if remaining <= 0 {
			break
		}
		n := int64(len(p))
		if n > remaining {
			n = remaining
		}
		s.writeRange(cur, p[:n])
		cur += n
		remaining -= n
	}
}
