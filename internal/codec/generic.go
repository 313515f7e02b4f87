package codec

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// Generic tag bytes identify which concrete encoding a Generic-codec value
// was stored with, so Decode can reconstruct the right Go type without
// the caller declaring it up front.
const (
	tagString byte = iota + 1
	tagBytes
	tagInt32
	tagInt64
	tagUint32
	tagUint64
	tagFloat64
	tagBool
	tagJSON
)

// Generic is the default codec the engine falls back to when callers
// don't supply a purpose-built Codec[T]: it tags every encoded value
// with a one-byte type marker and supports the scalar taxonomy described
// in the configuration guide, falling back to encoding/json for anything
// else. It operates on `any`, so engines configured with it pay a type
// switch per Encode/Decode; callers on a hot path with a known type
// should use a concrete Codec[T] instead.
type Generic struct{}

func (Generic) FixedLength() (int, bool) { return 0, false }

func (Generic) ByteLength(value any) int {
	switch v := value.(type) {
	case string:
		return 1 + len(v)
	case []byte:
		return 1 + len(v)
	case int32:
		return 1 + 4
	case int64:
		return 1 + 8
	case uint32:
		return 1 + 4
	case uint64:
		return 1 + 8
	case float64:
		return 1 + 8
	case bool:
		return 1 + 1
	default:
		b, err := json.Marshal(v)
		if err != nil {
			panic(fmt.Sprintf("codec: Generic cannot encode %T: %v", value, err))
		}
		return 1 + len(b)
	}
}

func (Generic) Encode(value any, dst []byte, dstOffset int) int {
	switch v := value.(type) {
	case string:
		dst[dstOffset] = tagString
		return 1 + copy(dst[dstOffset+1:], v)
	case []byte:
		dst[dstOffset] = tagBytes
		return 1 + copy(dst[dstOffset+1:], v)
	case int32:
		dst[dstOffset] = tagInt32
		binary.LittleEndian.PutUint32(dst[dstOffset+1:], uint32(v))
		return 1 + 4
	case int64:
		dst[dstOffset] = tagInt64
		binary.LittleEndian.PutUint64(dst[dstOffset+1:], uint64(v))
		return 1 + 8
	case uint32:
		dst[dstOffset] = tagUint32
		binary.LittleEndian.PutUint32(dst[dstOffset+1:], v)
		return 1 + 4
	case uint64:
		dst[dstOffset] = tagUint64
		binary.LittleEndian.PutUint64(dst[dstOffset+1:], v)
		return 1 + 8
	case float64:
		dst[dstOffset] = tagFloat64
		binary.LittleEndian.PutUint64(dst[dstOffset+1:], math.Float64bits(v))
		return 1 + 8
	case bool:
		dst[dstOffset] = tagBool
		if v {
			dst[dstOffset+1] = 1
		} else {
			dst[dstOffset+1] = 0
		}
		return 1 + 1
	default:
		b, err := json.Marshal(v)
		if err != nil {
			panic(fmt.Sprintf("codec: Generic cannot encode %T: %v", value, err))
		}
		dst[dstOffset] = tagJSON
		return 1 + copy(dst[dstOffset+1:], b)
	}
}

func (Generic) Decode(src []byte, srcOffset int, length int) any {
	tag := src[srcOffset]
	body := src[srcOffset+1 : srcOffset+length]

	switch tag {
	case tagString:
		return string(body)
	case tagBytes:
		out := make([]byte, len(body))
		copy(out, body)
		return out
	case tagInt32:
		return int32(binary.LittleEndian.Uint32(body))
	case tagInt64:
		return int64(binary.LittleEndian.Uint64(body))
	case tagUint32:
		return binary.LittleEndian.Uint32(body)
	case tagUint64:
		return binary.LittleEndian.Uint64(body)
	case tagFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(body))
	case tagBool:
		return body[0] != 0
	case tagJSON:
		var out any
		if err := json.Unmarshal(body, &out); err != nil {
			panic(fmt.Sprintf("codec: Generic JSON decode failed: %v", err))
		}
		return out
	default:
		panic(fmt.Sprintf("codec: Generic unknown tag byte %d", tag))
	}
}
