package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := loadConfigArgs(nil)
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Library.Store)
	assert.Equal(t, uint16(0xffff), cfg.Reader.Vid)
	assert.Equal(t, uint16(0x0035), cfg.Reader.Pid)
	assert.Equal(t, 3, cfg.Pairing.Threshold)
	assert.Equal(t, 20*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 0.1, cfg.Audio.VolumeStep)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marlind.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
debug: true
library:
  store: db
  path: /srv/music.json
reader:
  type: stdin
pairing:
  threshold: 4
  timeout: 30s
manager:
  listen: 127.0.0.1:9000
`), 0644))

	cfg, err := loadConfigArgs([]string{"--config", path, "--pairing.threshold=5", "--reader.pid=00aa"})
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "db", cfg.Library.Store)
	assert.Equal(t, "/srv/music.json", cfg.Library.Path)
	assert.Equal(t, "stdin", cfg.Reader.Type)
	assert.Equal(t, uint16(0xaa), cfg.Reader.Pid)
	assert.Equal(t, uint16(0xffff), cfg.Reader.Vid)
	assert.Equal(t, 5, cfg.Pairing.Threshold)
	assert.Equal(t, 30*time.Second, cfg.Pairing.Timeout)
	assert.Equal(t, "127.0.0.1:9000", cfg.Manager.Listen)
	assert.Equal(t, "assets", cfg.Manager.Assets)
}

func TestConfigFileRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marlind.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pairing:\n  treshold: 4\n"), 0644))

	_, err := loadConfigArgs([]string{"--config", path})
	assert.Error(t, err)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	_, err := loadConfigArgs([]string{"--pairing.threshold=0"})
	assert.Error(t, err)

	_, err = loadConfigArgs([]string{"--pairing.threshold=65"})
	assert.Error(t, err)

	_, err = loadConfigArgs([]string{"--pairing.threshold=64"})
	assert.NoError(t, err)

	_, err = loadConfigArgs([]string{"--hotspot.password="})
	assert.Error(t, err)

	_, err = loadConfigArgs([]string{"--hotspot.type=mock", "--hotspot.password="})
	assert.NoError(t, err)

	_, err = loadConfigArgs([]string{"--audio.type=alsa"})
	assert.Error(t, err)
}
