package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockQueuesExistingTracks(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.mp3"), []byte("ID3"), 0644))

	m := NewMock(&MockConfig{Root: root})

	require.NoError(t, m.Append("a.mp3"))
	assert.Equal(t, []string{"a.mp3"}, m.Queue())

	err := m.Append("missing.mp3")
	assert.True(t, errors.Is(err, ErrAudio))
	assert.Equal(t, []string{"a.mp3"}, m.Queue())

	require.NoError(t, m.Stop())
	assert.Empty(t, m.Queue())
}

func TestMockPauseResumeVolume(t *testing.T) {
	m := NewMock(&MockConfig{})

	require.NoError(t, m.Pause())
	assert.True(t, m.Paused())
	require.NoError(t, m.Resume())
	assert.False(t, m.Paused())

	volume, err := m.Volume()
	require.NoError(t, err)
	assert.Equal(t, 1.0, volume)

	require.NoError(t, m.SetVolume(0.3))
	volume, err = m.Volume()
	require.NoError(t, err)
	assert.Equal(t, 0.3, volume)
}

func TestMpdUnreachable(t *testing.T) {
	m := NewMpd(&MpdConfig{Network: "unix", Address: filepath.Join(t.TempDir(), "missing.sock")})

	err := m.Stop()
	assert.True(t, errors.Is(err, ErrAudio))

	_, err = m.Volume()
	assert.True(t, errors.Is(err, ErrAudio))
}
