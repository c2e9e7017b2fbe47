package jukebox

import (
	"math/rand"
	"time"

	"github.com/marlinbox/marlind/audio"
	"github.com/marlinbox/marlind/hotspot"
	"github.com/marlinbox/marlind/indicator"
	"github.com/marlinbox/marlind/library"
)

const (
	DefaultPairingThreshold   = 3
	DefaultPollInterval       = 20 * time.Millisecond
	DefaultVolumeStep         = 0.1
	DefaultMaxVolume          = 1.0
	DefaultManagerStopTimeout = 5 * time.Second

	// MaxPairingThreshold is the highest pairing threshold that can be reached
	// with the observations a pairing session keeps.
	MaxPairingThreshold = maxObservedCards

	// maxObservedCards bounds the observations kept during a pairing session.
	maxObservedCards = 64
)

type Config struct {
	Library   *library.Library
	Store     library.Store
	Settings  Settings
	Sink      audio.Sink
	Hotspot   hotspot.Hotspot
	Manager   Manager
	Indicator indicator.Indicator

	// Cards delivers identities from the reader. Closing it stops the jukebox.
	Cards <-chan string

	Logger Logger

	// PairingThreshold is how often an unknown card must be presented during a
	// pairing session before it is paired. Values above MaxPairingThreshold
	// are lowered to it.
	PairingThreshold int

	// PairingTimeout ends a pairing session that did not pair a card in time.
	// Zero disables the timeout.
	PairingTimeout time.Duration

	PollInterval time.Duration
	VolumeStep   float64
	MaxVolume    float64

	SuccessSound string
	FailureSound string

	// ManagerStopTimeout bounds the wait for a manager that was asked to shut down.
	ManagerStopTimeout time.Duration

	// Rand drives Shuffle. Defaults to a source seeded from crypto/rand.
	Rand *rand.Rand

	// Now defaults to time.Now.
	Now func() time.Time
}

// Settings persists user adjustable settings across restarts.
type Settings interface {
	GetVolume() (float64, bool, error)
	SetVolume(volume float64) error
}

// Manager is the network management surface that runs while the hotspot is
// off. Serve blocks until it receives on shutdown or fails.
type Manager interface {
	Serve(shutdown <-chan struct{}) error
}
