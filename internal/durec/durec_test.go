package durec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doismellburning/fireface-oscbridge/internal/durec"
)

func TestSampleRate(t *testing.T) {
	assert.Equal(t, 48000, durec.SampleRate(2))
	assert.Equal(t, 0, durec.SampleRate(0))
	assert.Equal(t, 0, durec.SampleRate(99))
}

func TestUpdateStatusEmitsOnlyOnChange(t *testing.T) {
	s := durec.New()

	e := s.UpdateStatus(5) // status 5 = Stopped, position 0
	require.NotNil(t, e)
	assert.Equal(t, "/durec/status", e.Addr)

	e = s.UpdateStatus(5)
	assert.Nil(t, e)
}

func TestUpdateFilesLenGrowsAndTruncates(t *testing.T) {
	s := durec.New()

	e := s.UpdateFilesLen(3)
	require.NotNil(t, e)
	assert.Len(t, s.Files, 3)

	e = s.UpdateFilesLen(3)
	assert.Nil(t, e)

	e = s.UpdateFilesLen(1)
	require.NotNil(t, e)
	assert.Len(t, s.Files, 1)
}

func TestUpdateIndexGrowsFilesOnDemand(t *testing.T) {
	s := durec.New()
	e := s.UpdateIndex(2)
	require.NotNil(t, e)
	assert.Len(t, s.Files, 3)
	assert.Equal(t, 2, s.Index)
}

func TestUpdateNameFragmentAccumulates(t *testing.T) {
	s := durec.New()
	s.UpdateIndex(0)

	e := s.UpdateNameFragment(0, 'H')
	require.NotNil(t, e)
	assert.Equal(t, "H", e.Args[1])

	e = s.UpdateNameFragment(1, 'i')
	require.NotNil(t, e)
	assert.Equal(t, "Hi", e.Args[1])

	e = s.UpdateNameFragment(1, 'i')
	assert.Nil(t, e)
}

func TestUpdateInfoAndLength(t *testing.T) {
	s := durec.New()
	s.UpdateIndex(0)

	rate, ch := s.UpdateInfo(2 | (2 << 8))
	require.NotNil(t, rate)
	require.NotNil(t, ch)
	assert.Equal(t, int32(48000), rate.Args[1])
	assert.Equal(t, int32(2), ch.Args[1])

	e := s.UpdateLength(44100)
	require.NotNil(t, e)
	assert.Equal(t, int32(44100), e.Args[1])
}

func TestUpdateNextDecodesSignedAndPlayMode(t *testing.T) {
	s := durec.New()
	next, pm := s.UpdateNext(1<<12 | 5)
	require.NotNil(t, next)
	assert.Equal(t, int32(5), next.Args[0])
	require.NotNil(t, pm)
	assert.Equal(t, int32(1), pm.Args[0])
}

func TestActionRegisterValues(t *testing.T) {
	assert.Equal(t, 0x8122, durec.RecordVal)
	assert.Equal(t, 0x8000|3, durec.DeleteVal(3))
	assert.Equal(t, 0x8000|3, durec.SelectFileVal(3))
}
