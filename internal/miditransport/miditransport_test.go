package miditransport_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doismellburning/fireface-oscbridge/internal/miditransport"
)

func TestReadFramesSingleFrame(t *testing.T) {
	r := bytes.NewReader([]byte{0x00, 0xF0, 0x01, 0x02, 0xF7, 0x00})
	s := miditransport.NewFrameScanner(r)

	frames, err := s.ReadFrames()
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, []byte{0xF0, 0x01, 0x02, 0xF7}, frames[0])
}

func TestReadFramesMultipleFrames(t *testing.T) {
	r := bytes.NewReader([]byte{0xF0, 0x01, 0xF7, 0xF0, 0x02, 0xF7})
	s := miditransport.NewFrameScanner(r)

	frames, err := s.ReadFrames()
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, []byte{0xF0, 0x01, 0xF7}, frames[0])
	assert.Equal(t, []byte{0xF0, 0x02, 0xF7}, frames[1])
}

func TestReadFramesPartialFrameCarriesOver(t *testing.T) {
	part1 := []byte{0xF0, 0x01, 0x02}
	part2 := []byte{0x03, 0xF7}
	r := &chunkReader{chunks: [][]byte{part1, part2}}
	s := miditransport.NewFrameScanner(r)

	frames, err := s.ReadFrames()
	require.NoError(t, err)
	assert.Empty(t, frames)

	frames, err = s.ReadFrames()
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, []byte{0xF0, 0x01, 0x02, 0x03, 0xF7}, frames[0])
}

type chunkReader struct {
	chunks [][]byte
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, nil
	}
	n := copy(p, c.chunks[0])
	c.chunks = c.chunks[1:]
	return n, nil
}
