package sysex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/doismellburning/fireface-oscbridge/internal/sysex"
)

func TestRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := sysex.Frame{
			ManufacturerID: uint32(rapid.SampledFrom([]int{0x00200D, 0x43, 0x7f}).Draw(t, "mfr")),
			DeviceID:       byte(rapid.IntRange(0, 0x7f).Draw(t, "devid")),
			SubID:          byte(rapid.IntRange(0, 0x7f).Draw(t, "subid")),
			Data:           rapid.SliceOf(rapid.Byte()).Draw(t, "data"),
		}

		flags := sysex.MfrID | sysex.DevID | sysex.SubID
		n := sysex.EncodedLen(&f, flags)
		buf := make([]byte, n)
		written := sysex.Encode(&f, buf, flags)
		assert.Equal(t, n, written)

		got, err := sysex.Decode(buf, flags)
		require.NoError(t, err)
		assert.Equal(t, f.ManufacturerID, got.ManufacturerID)
		assert.Equal(t, f.DeviceID, got.DeviceID)
		assert.Equal(t, f.SubID, got.SubID)
		assert.Equal(t, f.Data, got.Data)
	})
}

func TestEncodeKnownFrame(t *testing.T) {
	// RME manufacturer/device header as in spec.md's S1; the five payload
	// bytes are placeholders, not an encoded register word.
	f := sysex.Frame{ManufacturerID: 0x00200D, DeviceID: 0x10, SubID: 0, Data: []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE}}
	flags := sysex.MfrID | sysex.DevID | sysex.SubID
	buf := make([]byte, sysex.EncodedLen(&f, flags))
	sysex.Encode(&f, buf, flags)

	assert.Equal(t, byte(0xF0), buf[0])
	assert.Equal(t, byte(0x00), buf[1])
	assert.Equal(t, byte(0x20), buf[2])
	assert.Equal(t, byte(0x0D), buf[3])
	assert.Equal(t, byte(0x10), buf[4])
	assert.Equal(t, byte(0x00), buf[5])
	assert.Equal(t, byte(0xF7), buf[len(buf)-1])
}

func TestDecodeRejectsUnbracketed(t *testing.T) {
	_, err := sysex.Decode([]byte{0x00, 0x01}, sysex.MfrID)
	require.ErrorIs(t, err, sysex.ErrNotBracketed)
}
