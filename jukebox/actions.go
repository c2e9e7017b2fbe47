package jukebox

import (
	"math"

	"github.com/marlinbox/marlind/action"
)

// execute runs a bound action. Shuffle may run one randomly drawn action, which
// is then executed with allowShuffle unset so shuffling never recurses.
func (j *Jukebox) execute(a action.Action, allowShuffle bool) {
	j.lastAction = a.String()

	switch a.Kind() {
	case action.Play:
		j.play(a.Track())
	case action.Pause:
		if err := j.sink.Pause(); err != nil {
			j.log.Errorf("Could not pause: %v", err)
		}
	case action.Resume:
		if err := j.sink.Resume(); err != nil {
			j.log.Errorf("Could not resume: %v", err)
		}
	case action.Next, action.Previous:
		if err := j.sink.Stop(); err != nil {
			j.log.Errorf("Could not stop: %v", err)
		}
	case action.Shuffle:
		if !allowShuffle {
			return
		}

		drawn, ok := j.library.RandomAction(j.rng)
		if !ok || drawn.Kind() == action.Shuffle {
			j.log.Infof("Shuffle drew nothing to play")
			return
		}

		j.log.Infof("Shuffle drew %v", drawn)
		j.execute(drawn, false)
	case action.ToggleHotspot:
		j.toggleHotspot()
	case action.VolumeUp:
		j.changeVolume(j.volumeStep)
	case action.VolumeDown:
		j.changeVolume(-j.volumeStep)
	default:
		j.log.Warnf("Ignoring invalid action %v", a)
	}
}

func (j *Jukebox) play(track string) {
	if err := j.sink.Stop(); err != nil {
		j.log.Errorf("Could not stop playback: %v", err)
	}

	if err := j.sink.Append(track); err != nil {
		j.log.Errorf("Could not play %v: %v", track, err)
	}
}

func (j *Jukebox) playSound(sound string) {
	if sound == "" {
		return
	}

	j.play(sound)
}

func (j *Jukebox) changeVolume(delta float64) {
	current, err := j.sink.Volume()
	if err != nil {
		j.log.Errorf("Could not read volume: %v", err)
		return
	}

	j.setVolume(current + delta)
}

func (j *Jukebox) setVolume(volume float64) {
	volume = j.clampVolume(volume)

	if err := j.sink.SetVolume(volume); err != nil {
		j.log.Errorf("Could not set volume: %v", err)
		return
	}

	j.volume = volume
	j.log.Infof("Volume is now %.2f", volume)

	if j.settings == nil {
		return
	}

	if err := j.settings.SetVolume(volume); err != nil {
		j.log.Warnf("Could not persist volume: %v", err)
	}
}

// clampVolume keeps volume within [0, max], rounded to whole percent so that
// repeated steps do not drift.
func (j *Jukebox) clampVolume(volume float64) float64 {
	volume = math.Round(volume*100) / 100

	return math.Max(0, math.Min(j.maxVolume, volume))
}

// restoreVolume applies the persisted volume, or adopts the sink's current one.
func (j *Jukebox) restoreVolume() {
	if j.settings != nil {
		volume, found, err := j.settings.GetVolume()
		if err != nil {
			j.log.Warnf("Could not read persisted volume: %v", err)
		}

		if found {
			volume = j.clampVolume(volume)

			if err := j.sink.SetVolume(volume); err != nil {
				j.log.Errorf("Could not restore volume: %v", err)
			} else {
				j.volume = volume
				return
			}
		}
	}

	volume, err := j.sink.Volume()
	if err != nil {
		j.log.Warnf("Could not read volume: %v", err)
		return
	}

	j.volume = volume
}
