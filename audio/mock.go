package audio

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/go-errors/errors"
)

type MockConfig struct {
	// Root resolves relative track paths.
	Root   string
	Logger Logger
}

// Mock is a Sink without sound output. It checks that queued tracks exist and
// keeps the resulting player state in memory.
type Mock struct {
	mu     sync.Mutex
	root   string
	log    Logger
	queue  []string
	paused bool
	volume float64
}

// Compile time check for protocol compatibility
var _ Sink = (*Mock)(nil)

func NewMock(config *MockConfig) *Mock {
	m := &Mock{
		root:   config.Root,
		log:    config.Logger,
		volume: 1.0,
	}

	if m.log == nil {
		m.log = noopLogger{}
	}

	return m
}

func (m *Mock) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queue = nil
	m.log.Infof("Stopped playback")

	return nil
}

func (m *Mock) Append(track string) error {
	path := track
	if m.root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(m.root, path)
	}

	if _, err := os.Stat(path); err != nil {
		return errors.Errorf("%w: could not open %v: %v", ErrAudio, track, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.queue = append(m.queue, track)
	m.log.Infof("Queued %v", track)

	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.paused = true
	m.log.Infof("Paused playback")

	return nil
}

func (m *Mock) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.paused = false
	m.log.Infof("Resumed playback")

	return nil
}

func (m *Mock) Volume() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.volume, nil
}

func (m *Mock) SetVolume(volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.volume = volume
	m.log.Infof("Volume set to %.2f", volume)

	return nil
}

// Queue returns the tracks queued since the last stop.
func (m *Mock) Queue() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.queue...)
}

func (m *Mock) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.paused
}
