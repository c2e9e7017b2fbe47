package jukebox

import (
	"sync"
	"time"

	"github.com/go-errors/errors"
	"github.com/marlinbox/marlind/library"
)

// recorder collects calls of several fakes in the order they happened.
type recorder struct {
	sync.Mutex
	calls []string
}

func (r *recorder) record(call string) {
	r.Lock()
	r.calls = append(r.calls, call)
	r.Unlock()
}

func (r *recorder) Calls() []string {
	r.Lock()
	defer r.Unlock()

	return append([]string(nil), r.calls...)
}

func (r *recorder) Reset() {
	r.Lock()
	r.calls = nil
	r.Unlock()
}

type fakeSink struct {
	*recorder
	mu        sync.Mutex
	volume    float64
	appendErr error
}

func (s *fakeSink) Stop() error {
	s.record("stop")
	return nil
}

func (s *fakeSink) Append(track string) error {
	s.record("append " + track)
	return s.appendErr
}

func (s *fakeSink) Pause() error {
	s.record("pause")
	return nil
}

func (s *fakeSink) Resume() error {
	s.record("resume")
	return nil
}

func (s *fakeSink) Volume() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.volume, nil
}

func (s *fakeSink) SetVolume(volume float64) error {
	s.mu.Lock()
	s.volume = volume
	s.mu.Unlock()

	return nil
}

type fakeStore struct {
	mu    sync.Mutex
	saves int
	saved *library.Library
	err   error
}

func (s *fakeStore) Load() (*library.Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved == nil {
		return library.New(), nil
	}

	return s.saved.Clone(), nil
}

func (s *fakeStore) Save(l *library.Library) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	s.saves++
	s.saved = l.Clone()

	return nil
}

func (s *fakeStore) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

type fakeHotspot struct {
	*recorder
	enableErr  error
	disableErr error
}

func (h *fakeHotspot) Enable() error {
	h.record("enable")
	return h.enableErr
}

func (h *fakeHotspot) Disable() error {
	h.record("disable")
	return h.disableErr
}

type fakeManager struct {
	*recorder
}

func (m *fakeManager) Serve(shutdown <-chan struct{}) error {
	m.record("serve")
	<-shutdown
	m.record("shutdown")

	return nil
}

// failingManager fails once release is closed, as a manager that lost its
// listener would.
type failingManager struct {
	release chan struct{}
}

func (m *failingManager) Serve(shutdown <-chan struct{}) error {
	select {
	case <-m.release:
		return errors.New("listener closed")
	case <-shutdown:
		return nil
	}
}

type fakeSettings struct {
	mu     sync.Mutex
	volume float64
	found  bool
}

func (s *fakeSettings) GetVolume() (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.volume, s.found, nil
}

func (s *fakeSettings) SetVolume(volume float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = volume
	s.found = true

	return nil
}

type fakeIndicator struct {
	mu      sync.Mutex
	pairing bool
}

func (i *fakeIndicator) Start() error { return nil }
func (i *fakeIndicator) Stop() error  { return nil }

func (i *fakeIndicator) SetPairing(on bool) {
	i.mu.Lock()
	i.pairing = on
	i.mu.Unlock()
}

func (i *fakeIndicator) Pairing() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.pairing
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var errDiskFull = errors.New("disk full")
