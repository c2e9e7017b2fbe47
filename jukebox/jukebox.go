package jukebox

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"

	"github.com/go-errors/errors"
	"github.com/marlinbox/marlind/audio"
	"github.com/marlinbox/marlind/hotspot"
	"github.com/marlinbox/marlind/indicator"
	"github.com/marlinbox/marlind/library"
)

var (
	// ErrStopped is returned for requests made after the jukebox stopped.
	ErrStopped = errors.New("jukebox stopped")

	// ErrUnknownCard is returned when a request names a card that is not in
	// the library.
	ErrUnknownCard = errors.New("unknown card")
)

// Jukebox is the control loop. It exclusively owns the library and the player
// state; everything else reaches it through channels.
type Jukebox struct {
	library   *library.Library
	store     library.Store
	settings  Settings
	sink      audio.Sink
	hotspot   hotspot.Hotspot
	manager   Manager
	indicator indicator.Indicator
	log       Logger
	rng       *rand.Rand
	now       func() time.Time

	cards    <-chan string
	pairing  chan struct{}
	requests chan *request
	shutdown chan struct{}
	done     chan struct{}

	pairingThreshold   int
	pairingTimeout     time.Duration
	pollInterval       time.Duration
	volumeStep         float64
	maxVolume          float64
	successSound       string
	failureSound       string
	managerStopTimeout time.Duration

	session        *pairingSession
	hotspotEnabled bool
	managerDone    chan struct{}
	volume         float64
	lastCard       string
	lastAction     string

	statusMtx          sync.Mutex
	status             Status
	statusClients      map[uint32]*StatusClient
	nextStatusClientID uint32
}

func NewJukebox(config *Config) *Jukebox {
	j := &Jukebox{
		library:            config.Library,
		store:              config.Store,
		settings:           config.Settings,
		sink:               config.Sink,
		hotspot:            config.Hotspot,
		manager:            config.Manager,
		indicator:          config.Indicator,
		log:                config.Logger,
		rng:                config.Rand,
		now:                config.Now,
		cards:              config.Cards,
		pairing:            make(chan struct{}, 1),
		requests:           make(chan *request, 4),
		shutdown:           make(chan struct{}, 1),
		done:               make(chan struct{}),
		pairingThreshold:   config.PairingThreshold,
		pairingTimeout:     config.PairingTimeout,
		pollInterval:       config.PollInterval,
		volumeStep:         config.VolumeStep,
		maxVolume:          config.MaxVolume,
		successSound:       config.SuccessSound,
		failureSound:       config.FailureSound,
		managerStopTimeout: config.ManagerStopTimeout,
		statusClients:      make(map[uint32]*StatusClient),
	}

	if j.library == nil {
		j.library = library.New()
	}

	if j.indicator == nil {
		j.indicator = indicator.Noop{}
	}

	if j.log == nil {
		j.log = noopLogger{}
	}

	if j.rng == nil {
		j.rng = rand.New(rand.NewSource(cryptoSeed()))
	}

	if j.now == nil {
		j.now = time.Now
	}

	if j.pairingThreshold <= 0 {
		j.pairingThreshold = DefaultPairingThreshold
	}

	if j.pairingThreshold > MaxPairingThreshold {
		j.log.Warnf("Pairing threshold %d lowered to %d", j.pairingThreshold, MaxPairingThreshold)
		j.pairingThreshold = MaxPairingThreshold
	}

	if j.pollInterval <= 0 {
		j.pollInterval = DefaultPollInterval
	}

	if j.volumeStep <= 0 {
		j.volumeStep = DefaultVolumeStep
	}

	if j.maxVolume <= 0 {
		j.maxVolume = DefaultMaxVolume
	}

	if j.managerStopTimeout <= 0 {
		j.managerStopTimeout = DefaultManagerStopTimeout
	}

	return j
}

func cryptoSeed() int64 {
	var b [8]byte

	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}

	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Run processes events until the card channel is closed or ctx is done. The
// manager is started right away since the hotspot starts out disabled.
func (j *Jukebox) Run(ctx context.Context) error {
	defer close(j.done)

	j.log.Infof("Starting jukebox with %d cards", j.library.Len())

	j.restoreVolume()
	j.spawnManager()
	j.publish()

	defer j.disableHotspot()
	defer j.stopManager()

	for {
		if ctx.Err() != nil {
			j.log.Infof("Stopping jukebox")
			return nil
		}

		busy, closed := j.poll()
		if closed {
			j.log.Infof("Card reader is gone, stopping jukebox")
			return nil
		}

		if busy {
			j.publish()
			continue
		}

		select {
		case <-ctx.Done():
		case <-time.After(j.pollInterval):
		}
	}
}

// poll handles at most one pending event, in order of priority. It never
// blocks.
func (j *Jukebox) poll() (busy bool, closed bool) {
	select {
	case <-j.pairing:
		j.togglePairing()
		return true, false
	default:
	}

	select {
	case card, ok := <-j.cards:
		if !ok {
			return false, true
		}

		j.handleCard(card)

		return true, false
	default:
	}

	select {
	case req := <-j.requests:
		req.reply <- req.run()
		return true, false
	default:
	}

	if j.reapManager() {
		return true, false
	}

	return j.checkPairingTimeout(), false
}

// TriggerPairing asks the loop to toggle pairing mode. Triggers that arrive
// while one is still pending are coalesced.
func (j *Jukebox) TriggerPairing() {
	select {
	case j.pairing <- struct{}{}:
	default:
	}
}

func (j *Jukebox) handleCard(card string) {
	card = library.NormalizeCard(card)
	j.lastCard = card

	a, known, bound := j.library.Entry(card)

	switch {
	case bound:
		j.log.Infof("Card %v triggers %v", card, a)
		j.execute(a, true)
	case !known && j.session != nil:
		j.observe(card)
	case known:
		j.log.Infof("Card %v is known but not bound to an action", card)
	default:
		j.log.Infof("Unknown card %v", card)
	}
}
