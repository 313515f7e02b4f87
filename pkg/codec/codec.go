// Package codec declares the Codec capability the map engine requires
// for every key and value it stores. It is deliberately a single small
// interface with no implementation: concrete codecs are external
// collaborators (see internal/codec for the built-in set, or implement
// your own against this interface).
package codec

// Codec is the encode/decode/length capability a caller supplies for a
// key or value type T. The engine works with any implementation that
// honors this contract; it never interprets the encoded bytes itself.
type Codec[T any] interface {
	// Encode writes value into dst starting at dstOffset and returns the
	// number of bytes written. dst is guaranteed to have at least
	// ByteLength(value) bytes available starting at dstOffset.
	Encode(value T, dst []byte, dstOffset int) int

	// Decode reconstructs a T from the length bytes of src starting at
	// srcOffset.
	Decode(src []byte, srcOffset int, length int) T

	// ByteLength reports how many bytes Encode will write for value.
	ByteLength(value T) int

	// FixedLength reports a constant encoded size when one exists,
	// letting the engine drop the per-entry length field from the
	// record format.
	FixedLength() (int, bool)
}
