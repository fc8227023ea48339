package mixmatrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/doismellburning/fireface-oscbridge/internal/mixmatrix"
)

func TestMonoSetThenCalcLevel(t *testing.T) {
	m := mixmatrix.New(4, 4)

	writes := m.SetLevel(0, 0, false, mixmatrix.Level{Vol: 0.5})
	if assert.Len(t, writes, 1) {
		assert.Equal(t, 0x4000, writes[0].Reg)
		assert.InDelta(t, 0.5, writes[0].Level, 1e-6)
	}

	got := m.CalcLevel(0, 0, false)
	assert.InDelta(t, 0.5, got.Vol, 1e-6)
}

func TestMutedInputProducesNoWrites(t *testing.T) {
	m := mixmatrix.New(4, 4)
	m.SetInputMute(0, true)

	writes := m.SetLevel(0, 0, false, mixmatrix.Level{Vol: 0.8})
	assert.Empty(t, writes)

	got := m.CalcLevel(0, 0, false)
	assert.InDelta(t, 0.8, got.Vol, 1e-6)
}

func TestStereoOutputMonoInputPan(t *testing.T) {
	m := mixmatrix.New(4, 4)
	m.SetOutputStereo(0, true)

	m.SetLevel(0, 0, false, mixmatrix.Level{Vol: 1, Pan: 0})
	got := m.CalcLevel(0, 0, false)
	assert.InDelta(t, 1, got.Vol, 1e-3)
	assert.InDelta(t, 0, got.Pan, 1)
}

func TestStereoOutputStereoInputRoundTrip(t *testing.T) {
	m := mixmatrix.New(4, 4)
	m.SetOutputStereo(0, true)
	m.SetInputStereo(0, true)

	writes := m.SetLevel(0, 0, true, mixmatrix.Level{Vol: 1, Pan: 0, Width: 100})
	assert.Len(t, writes, 4)

	got := m.CalcLevel(0, 0, true)
	assert.InDelta(t, 1, got.Vol, 1e-2)
	assert.InDelta(t, 0, got.Pan, 2)
	assert.InDelta(t, 100, got.Width, 2)
}

func TestVolDBRoundTrip(t *testing.T) {
	v := mixmatrix.VolFromDB(-6)
	db := mixmatrix.DBFromVol(v)
	assert.InDelta(t, -6, db, 1e-3)

	assert.Equal(t, float32(0), mixmatrix.VolFromDB(-65))
	assert.True(t, math.IsInf(float64(mixmatrix.DBFromVol(0)), -1))
}

func TestClampPan(t *testing.T) {
	assert.Equal(t, int32(-100), mixmatrix.ClampPan(-500))
	assert.Equal(t, int32(100), mixmatrix.ClampPan(500))
	assert.Equal(t, int32(42), mixmatrix.ClampPan(42))
}

func TestMonoLevelToRegVal(t *testing.T) {
	assert.Equal(t, uint16(0), mixmatrix.MonoLevelToRegVal(0))
	assert.Equal(t, uint16(0x9000), mixmatrix.MonoLevelToRegVal(1))
}

func TestSummaryValEncoding(t *testing.T) {
	assert.Equal(t, int32(0x8000|42), mixmatrix.SummaryPanVal(42))
	assert.Equal(t, int32(-60)&0x7fff, mixmatrix.SummaryVolVal(-6))
	assert.Equal(t, int32(-650)&0x7fff, mixmatrix.SummaryVolVal(float32(math.Inf(-1))))
}

func TestDecodeSummaryValInvertsPan(t *testing.T) {
	isPan, pan, _ := mixmatrix.DecodeSummaryVal(mixmatrix.SummaryPanVal(-42))
	assert.True(t, isPan)
	assert.Equal(t, int32(-42), pan)
}

func TestDecodeSummaryValInvertsVol(t *testing.T) {
	isPan, _, vol := mixmatrix.DecodeSummaryVal(mixmatrix.SummaryVolVal(-6))
	assert.False(t, isPan)
	assert.InDelta(t, mixmatrix.VolFromDB(-6), vol, 1e-3)
}

// TestSummaryValRoundTripsProperty checks SummaryVolVal/SummaryPanVal and
// DecodeSummaryVal are inverses across the dB and pan ranges a real mix
// cell can carry, matching spec §8's "mix inverse" property.
func TestSummaryValRoundTripsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		if rapid.Bool().Draw(t, "isPan") {
			pan := rapid.Int32Range(-100, 100).Draw(t, "pan")
			isPan, got, _ := mixmatrix.DecodeSummaryVal(mixmatrix.SummaryPanVal(pan))
			assert.True(t, isPan)
			assert.Equal(t, pan, got)
		} else {
			db := float32(rapid.Float64Range(-65, 6).Draw(t, "db"))
			isPan, _, vol := mixmatrix.DecodeSummaryVal(mixmatrix.SummaryVolVal(db))
			assert.False(t, isPan)
			assert.InDelta(t, mixmatrix.VolFromDB(db), vol, 1e-2)
		}
	})
}

// TestMixLevelRoundTripsProperty checks SetLevel/CalcLevel recover the
// written vol for an arbitrary mono cell, matching spec §8's "mix
// inverse" property.
func TestMixLevelRoundTripsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vol := float32(rapid.Float64Range(0, 1).Draw(t, "vol"))
		m := mixmatrix.New(2, 2)
		m.SetLevel(0, 0, false, mixmatrix.Level{Vol: vol})
		got := m.CalcLevel(0, 0, false)
		assert.InDelta(t, vol, got.Vol, 1e-6)
	})
}

// TestStereoOutputSymmetryProperty checks a stereo-out/mono-in cell's
// recovered vol stays within the original scalar's range regardless of pan,
// matching spec §8's "stereo symmetry" property.
func TestStereoOutputSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vol := float32(rapid.Float64Range(0, 1).Draw(t, "vol"))
		pan := rapid.Int32Range(-100, 100).Draw(t, "pan")
		m := mixmatrix.New(2, 2)
		m.SetOutputStereo(0, true)
		m.SetLevel(0, 0, false, mixmatrix.Level{Vol: vol, Pan: pan})
		got := m.CalcLevel(0, 0, false)
		assert.InDelta(t, vol, got.Vol, 1e-3)
	})
}

// TestMutePreservesRestoreProperty checks muting an input suppresses writes
// without losing the coefficient CalcLevel reports once unmuted, matching
// spec §8's "mute-preserves-restore" property.
func TestMutePreservesRestoreProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vol := float32(rapid.Float64Range(0, 1).Draw(t, "vol"))
		m := mixmatrix.New(2, 2)
		m.SetInputMute(0, true)
		writes := m.SetLevel(0, 0, false, mixmatrix.Level{Vol: vol})
		assert.Empty(t, writes)
		m.SetInputMute(0, false)
		got := m.CalcLevel(0, 0, false)
		assert.InDelta(t, vol, got.Vol, 1e-6)
	})
}
