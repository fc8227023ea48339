package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doismellburning/fireface-oscbridge/internal/config"
)

func TestLoadMissingFile(t *testing.T) {
	f, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, f.Device)
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("device: ffucxii\nrecv_addr: :7222\ndebug: true\n"), 0o644))

	f, err := config.Load(path)
	require.NoError(t, err)
	require.NotNil(t, f.Device)
	assert.Equal(t, "ffucxii", *f.Device)
	require.NotNil(t, f.Debug)
	assert.True(t, *f.Debug)
}

func TestMergePrecedence(t *testing.T) {
	def := config.Settings{Device: "ffucxii", RecvAddr: ":7222", SendAddr: ":8222"}
	fileDevice := "ff802"
	f := &config.File{Device: &fileDevice}
	flags := config.Settings{SendAddr: ":9999"}

	out := config.Merge(f, flags, def)
	assert.Equal(t, "ff802", out.Device)   // file overrides default
	assert.Equal(t, ":7222", out.RecvAddr) // default, untouched by file or flags
	assert.Equal(t, ":9999", out.SendAddr) // flag overrides default
}
