package soundtun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBitGetSet(t *testing.T) {
	var buf = make([]byte, 2)

	bit_set(buf, 0, 1)
	assert.Equal(t, byte(0x80), buf[0])
	assert.Equal(t, 1, bit_get(buf, 0))

	bit_set(buf, 7, 1)
	assert.Equal(t, byte(0x81), buf[0])

	bit_set(buf, 8, 1)
	assert.Equal(t, byte(0x80), buf[1])

	bit_set(buf, 0, 0)
	assert.Equal(t, byte(0x01), buf[0])
	assert.Equal(t, 0, bit_get(buf, 0))
}

func TestBitsAppendAndExtract(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var src = rapid.SliceOfN(rapid.Byte(), 1, 64).Draw(t, "src")
		var offset = rapid.IntRange(0, 23).Draw(t, "offset")

		// Append at an arbitrary bit offset, then read the bytes back
		// from that same unaligned position.
		var dest = make([]byte, len(src)+4)
		var count = offset
		count = bits_append(dest, count, src, len(src)*8)
		require.Equal(t, offset+len(src)*8, count)

		var out = make([]byte, len(src))
		bits_to_bytes(dest, offset, len(src), out)
		assert.Equal(t, src, out)
	})
}

func TestBitsToBytesUnaligned(t *testing.T) {
	// 0xAB shifted right by 3 bits across two bytes: 000_10101 011_00000.
	var bits = []byte{0x15, 0x60}
	var out = make([]byte, 1)
	bits_to_bytes(bits, 3, 1, out)
	assert.Equal(t, byte(0xAB), out[0])
}

func TestBitsRemovePrefix(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var src = rapid.SliceOfN(rapid.Byte(), 1, 32).Draw(t, "src")
		var count = len(src) * 8
		var k = rapid.IntRange(0, count).Draw(t, "k")

		var buf = make([]byte, len(src)+1)
		copy(buf, src)

		var new_count = bits_remove(buf, count, 0, k)
		require.Equal(t, count-k, new_count)

		// The remaining bits are the original bits shifted left by k.
		for i := 0; i < new_count; i++ {
			assert.Equal(t, bit_get(src, k+i), bit_get(buf, i), "bit %d after removing %d", i, k)
		}
	})
}

func TestBitsRemoveMidRange(t *testing.T) {
	// 16 bits, remove the middle 4: prefix stays, suffix shifts down.
	var buf = []byte{0xF0, 0x0F}
	var count = bits_remove(buf, 16, 6, 4)
	assert.Equal(t, 12, count)

	// Original bits: 1111 0000 0000 1111.  Removing bits [6, 10) leaves
	// 1111 0000 1111.
	var expect = []int{1, 1, 1, 1, 0, 0, 0, 0, 1, 1, 1, 1}
	for i, want := range expect {
		assert.Equal(t, want, bit_get(buf, i), "bit %d", i)
	}
}

func TestBitsRemoveEverything(t *testing.T) {
	var buf = []byte{0xFF, 0xFF}
	assert.Equal(t, 0, bits_remove(buf, 16, 0, 16))
	assert.Equal(t, 0, bits_remove(buf, 16, 0, 99))
	assert.Equal(t, 0, bits_remove(buf, 16, 5, 16))
}

func TestBitsRemoveTailOnly(t *testing.T) {
	// Removing a range that runs off the end truncates at from_bit.
	var buf = []byte{0xAA, 0xAA}
	assert.Equal(t, 5, bits_remove(buf, 16, 5, 11))
	assert.Equal(t, 7, bits_remove(buf, 16, 7, 9))
}

func TestFrameToBits(t *testing.T) {
	var frame = []byte{0x7E, 0x7E, 0x00, 0x01, 0xAA}
	var bits = make([]byte, len(frame))

	var nbits = frame_to_bits(frame, bits)
	assert.Equal(t, len(frame)*8, nbits)

	// MSB-first packing of a byte stream starting at bit 0 is the byte
	// stream itself.
	var back = make([]byte, len(frame))
	bits_to_bytes(bits, 0, len(frame), back)
	assert.Equal(t, frame, back)
}
