package jukebox

import (
	"time"

	"github.com/google/uuid"
)

type pairingSession struct {
	id       string
	started  time.Time
	observed []string
}

func (j *Jukebox) togglePairing() {
	if j.session != nil {
		j.log.Infof("Pairing session %v cancelled", j.session.id)
		j.endPairing()
		return
	}

	j.session = &pairingSession{
		id:      uuid.New().String(),
		started: j.now(),
	}

	j.indicator.SetPairing(true)

	j.log.Infof("Pairing session %v started, present a new card %d times", j.session.id, j.pairingThreshold)
}

func (j *Jukebox) endPairing() {
	j.session = nil
	j.indicator.SetPairing(false)
}

// observe records an unknown card presented during pairing and pairs it once
// it was seen often enough.
func (j *Jukebox) observe(card string) {
	s := j.session

	s.observed = append(s.observed, card)
	if len(s.observed) > maxObservedCards {
		s.observed = s.observed[len(s.observed)-maxObservedCards:]
	}

	count := 0
	for _, observed := range s.observed {
		if observed == card {
			count++
		}
	}

	j.log.Debugf("Pairing session %v observed %v (%d/%d)", s.id, card, count, j.pairingThreshold)

	if count >= j.pairingThreshold {
		j.pair(card)
	}
}

func (j *Jukebox) pair(card string) {
	id := j.session.id

	j.library.Reserve(card)

	if err := j.store.Save(j.library); err != nil {
		j.log.Errorf("Pairing session %v could not save card %v: %v", id, card, err)
		j.library.Remove(card)
		j.playSound(j.failureSound)
	} else {
		j.log.Infof("Pairing session %v paired card %v", id, card)
		j.playSound(j.successSound)
	}

	j.endPairing()
}

// checkPairingTimeout reports whether it ended a session.
func (j *Jukebox) checkPairingTimeout() bool {
	if j.session == nil || j.pairingTimeout <= 0 {
		return false
	}

	if j.now().Sub(j.session.started) < j.pairingTimeout {
		return false
	}

	j.log.Infof("Pairing session %v timed out", j.session.id)
	j.endPairing()

	return true
}
