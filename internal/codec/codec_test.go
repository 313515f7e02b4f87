package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringRoundTrip(t *testing.T) {
	c := String{}
	value := "hello, rogue"
	buf := make([]byte, c.ByteLength(value))
	n := c.Encode(value, buf, 0)
	require.Equal(t, len(buf), n)
	require.Equal(t, value, c.Decode(buf, 0, n))

	_, fixed := c.FixedLength()
	require.False(t, fixed)
}

func TestBytesRoundTrip(t *testing.T) {
	c := Bytes{}
	value := []byte{1, 2, 3, 4, 5}
	buf := make([]byte, c.ByteLength(value))
	n := c.Encode(value, buf, 0)
	require.Equal(t, value, c.Decode(buf, 0, n))
}

func TestFixedWidthCodecs(t *testing.T) {
	i := Int64{}
	n, fixed := i.FixedLength()
	require.True(t, fixed)
	require.Equal(t, 8, n)

	buf := make([]byte, 8)
	i.Encode(-4821, buf, 0)
	require.EqualValues(t, -4821, i.Decode(buf, 0, 8))

	u := Uint64{}
	buf = make([]byte, 8)
	u.Encode(987654321, buf, 0)
	require.EqualValues(t, 987654321, u.Decode(buf, 0, 8))

	f := Float64{}
	buf = make([]byte, 8)
	f.Encode(3.14159, buf, 0)
	require.InDelta(t, 3.14159, f.Decode(buf, 0, 8), 1e-12)

	b := Bool{}
	buf = make([]byte, 1)
	b.Encode(true, buf, 0)
	require.True(t, b.Decode(buf, 0, 1))
	b.Encode(false, buf, 0)
	require.False(t, b.Decode(buf, 0, 1))
}

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func TestJSONCodecRoundTrip(t *testing.T) {
	c := JSON[point]{}
	value := point{X: 3, Y: 4}
	buf := make([]byte, c.ByteLength(value))
	n := c.Encode(value, buf, 0)
	require.Equal(t, value, c.Decode(buf, 0, n))

	_, fixed := c.FixedLength()
	require.False(t, fixed)
}

func TestEncodeAtNonZeroOffset(t *testing.T) {
	c := String{}
	value := "offset-write"
	buf := make([]byte, 4+c.ByteLength(value))
	n := c.Encode(value, buf, 4)
	require.Equal(t, value, c.Decode(buf, 4, n))
}

func TestGenericCodecRoundTripsEachScalarTag(t *testing.T) {
	c := Generic{}
	values := []any{
		"a string",
		[]byte{9, 8, 7},
		int32(-55),
		int64(-9000000000),
		uint32(55),
		uint64(9000000000),
		3.5,
		true,
	}

	for _, value := range values {
		buf := make([]byte, c.ByteLength(value))
		n := c.Encode(value, buf, 0)
		require.Equal(t, len(buf), n)
		require.Equal(t, value, c.Decode(buf, 0, n))
	}

	_, fixed := c.FixedLength()
	require.False(t, fixed)
}

func TestGenericCodecJSONFallback(t *testing.T) {
	c := Generic{}
	value := point{X: 1, Y: 2}
	buf := make([]byte, c.ByteLength(value))
	n := c.Encode(value, buf, 0)

	decoded := c.Decode(buf, 0, n)
	asMap, ok := decoded.(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 1, asMap["x"])
	require.EqualValues(t, 2, asMap["y"])
}
