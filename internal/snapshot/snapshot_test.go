package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	log := []byte("some-log-bytes-here")
	buckets := []int64{0, 3, 7, 0}

	src := Source{
		BucketCount: uint32(len(buckets)),
		LiveCount:   2,
		WriteOffset: int64(len(log)),
		BucketOffsetAbs: func(i uint32) int64 {
			v := buckets[i]
			if v < 0 {
				return -v
			}
			return v
		},
		Log: func(n int64) []byte { return log[:n] },
	}

	blob, err := Serialize(src)
	require.NoError(t, err)

	h, gotBuckets, gotLog, err := Deserialize(blob)
	require.NoError(t, err)
	require.Equal(t, uint32(4), h.Capacity)
	require.Equal(t, uint32(2), h.Size)
	require.EqualValues(t, len(log), h.WriteOffset)
	require.EqualValues(t, len(log), h.LogLength)
	require.Equal(t, []int64{0, 3, 7, 0}, gotBuckets)
	require.Equal(t, log, gotLog)
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	blob := make([]byte, headerSize)
	copy(blob, "NOPE!")
	_, _, _, err := Deserialize(blob)
	require.ErrorIs(t, err, ErrInvalidMagic)
}

func TestDeserializeRejectsShortBlob(t *testing.T) {
	_, _, _, err := Deserialize([]byte("ROGUE"))
	require.ErrorIs(t, err, ErrInvalidMagic)
}

func TestDeserializeRejectsUnsupportedVersion(t *testing.T) {
	blob := make([]byte, headerSize)
	copy(blob, Magic)
	blob[5] = 99
	_, _, _, err := Deserialize(blob)
	var verErr *ErrUnsupportedVersion
	require.ErrorAs(t, err, &verErr)
	require.Equal(t, byte(99), verErr.Got)
}

func TestSerializeRefusesOversizedLog(t *testing.T) {
	src := Source{
		BucketCount:     2,
		WriteOffset:     int64(1) << 33,
		BucketOffsetAbs: func(i uint32) int64 { return 0 },
		Log:             func(n int64) []byte { return nil },
	}
	_, err := Serialize(src)
	var tooLarge *ErrTooLarge
	require.ErrorAs(t, err, &tooLarge)
}

func TestDeserializeRejectsTruncatedBlob(t *testing.T) {
	src := Source{
		BucketCount:     4,
		WriteOffset:     10,
		BucketOffsetAbs: func(i uint32) int64 { return 0 },
		Log:             func(n int64) []byte { return make([]byte, n) },
	}
	blob, err := Serialize(src)
	require.NoError(t, err)

	_, _, _, err = Deserialize(blob[:len(blob)-5])
	require.Error(t, err)
}
