package bcodec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/doismellburning/fireface-oscbridge/internal/bcodec"
)

func TestBase128RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.SliceOf(rapid.Byte()).Draw(t, "in")

		enc := bcodec.Base128Encode(in)
		assert.Equal(t, bcodec.Base128EncodedLen(len(in)), len(enc))

		dec, err := bcodec.Base128Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, in, dec)
	})
}

func TestBase128EncodedLenKnownCase(t *testing.T) {
	// A sub-ID 0 sysex word is 4 bytes and packs to 5 base-128 bytes (spec.md S1).
	assert.Equal(t, 5, bcodec.Base128EncodedLen(4))
}

func TestBase128DecodeRejectsHighBit(t *testing.T) {
	_, err := bcodec.Base128Decode([]byte{0x01, 0x80})
	require.ErrorIs(t, err, bcodec.ErrHighBitSet)
}

func TestRegisterWordParity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := uint16(rapid.IntRange(0, 0x7fff).Draw(t, "reg"))
		val := uint16(rapid.IntRange(0, 0xffff).Draw(t, "val"))

		w := bcodec.RegisterWord(reg, val)
		assert.True(t, bcodec.RegisterWordParityOK(w))
		assert.Equal(t, reg, uint16(w>>16&0x7fff))
		assert.Equal(t, val, uint16(w))
	})
}

func TestEndianRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	bcodec.PutLE32(buf, 0xDEADBEEF)
	assert.Equal(t, uint32(0xDEADBEEF), bcodec.GetLE32(buf))

	bcodec.PutBE32(buf, 0xDEADBEEF)
	assert.Equal(t, uint32(0xDEADBEEF), bcodec.GetBE32(buf))

	bcodec.PutLE64(buf, 0x0123456789ABCDEF)
	assert.Equal(t, uint64(0x0123456789ABCDEF), bcodec.GetLE64(buf))
}

func TestSignExtend16(t *testing.T) {
	assert.Equal(t, int32(-1), bcodec.SignExtend16(0xFFFF))
	assert.Equal(t, int32(1), bcodec.SignExtend16(0x0001))
	assert.Equal(t, int32(-32768), bcodec.SignExtend16(0x8000))
}
