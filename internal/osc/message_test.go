package osc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/doismellburning/fireface-oscbridge/internal/osc"
)

func TestEncodeDecodeMessageRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		addr := "/" + rapid.StringMatching(`[a-z]{1,8}(/[a-z]{1,8}){0,3}`).Draw(t, "addr")
		i := rapid.Int32().Draw(t, "i")
		f := rapid.Float32().Draw(t, "f")
		s := rapid.StringN(0, 12, -1).Draw(t, "s")

		buf, err := osc.EncodeMessage(addr, "ifs", i, f, s)
		require.NoError(t, err)

		got, err := osc.DecodeMessage(buf)
		require.NoError(t, err)
		assert.Equal(t, addr, got.Address)
		assert.Equal(t, "ifs", got.Types)

		r := osc.NewReader(got)
		assert.Equal(t, i, r.Int())
		assert.Equal(t, f, r.Float())
		assert.Equal(t, s, r.String())
		require.NoError(t, r.End())
	})
}

func TestReaderTagOnlyArgs(t *testing.T) {
	buf, err := osc.EncodeMessage("/input/1/mute", "T")
	require.NoError(t, err)

	got, err := osc.DecodeMessage(buf)
	require.NoError(t, err)

	r := osc.NewReader(got)
	assert.Equal(t, int32(1), r.Int())
	require.NoError(t, r.End())
}

func TestReaderExtraArgsError(t *testing.T) {
	buf, err := osc.EncodeMessage("/x", "ii", int32(1), int32(2))
	require.NoError(t, err)

	got, err := osc.DecodeMessage(buf)
	require.NoError(t, err)

	r := osc.NewReader(got)
	_ = r.Int()
	require.Error(t, r.End())
}

func TestDecodeMessageRequiresLeadingSlash(t *testing.T) {
	buf, err := osc.EncodeMessage("/ok", "")
	require.NoError(t, err)
	_, err = osc.DecodeMessage(buf)
	require.NoError(t, err)

	_, err = osc.EncodeMessage("nope", "")
	require.ErrorIs(t, err, osc.ErrAddressFormat)
}

func TestBundleRoundTrip(t *testing.T) {
	b := osc.NewBundle()
	require.NoError(t, b.Add("/input/1/gain", "f", float32(3.5)))
	require.NoError(t, b.Add("/input/2/mute", "T"))
	assert.False(t, b.Empty())

	msgs, err := osc.DecodeBundleOrMessage(b.Bytes())
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "/input/1/gain", msgs[0].Address)
	assert.Equal(t, "/input/2/mute", msgs[1].Address)
}

func TestEmptyBundle(t *testing.T) {
	b := osc.NewBundle()
	assert.True(t, b.Empty())

	msgs, err := osc.DecodeBundleOrMessage(b.Bytes())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
