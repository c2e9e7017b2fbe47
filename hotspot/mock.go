package hotspot

import "sync"

// Compile time check for protocol compatibility
var _ Hotspot = (*Mock)(nil)

// Mock only tracks whether the access point would be up.
type Mock struct {
	sync.Mutex
	log     Logger
	enabled bool
}

func NewMock(config *Config) *Mock {
	m := &Mock{}

	if config != nil && config.Logger != nil {
		m.log = config.Logger
	} else {
		m.log = noopLogger{}
	}

	return m
}

func (m *Mock) Enable() error {
	m.Lock()
	defer m.Unlock()

	m.enabled = true
	m.log.Infof("Pretending to enable access point")

	return nil
}

func (m *Mock) Disable() error {
	m.Lock()
	defer m.Unlock()

	m.enabled = false
	m.log.Infof("Pretending to disable access point")

	return nil
}

func (m *Mock) Enabled() bool {
	m.Lock()
	defer m.Unlock()

	return m.enabled
}
