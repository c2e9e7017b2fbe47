package audio

import "github.com/go-errors/errors"

// ErrAudio marks a failure of the audio engine.
var ErrAudio = errors.New("audio failure")

// Sink controls a single playback stream.
type Sink interface {
	// Stop halts playback and drops everything queued.
	Stop() error

	// Append queues the track, starting playback if nothing is playing.
	Append(track string) error

	Pause() error
	Resume() error

	// Volume is a factor where 1.0 is full volume.
	Volume() (float64, error)
	SetVolume(volume float64) error
}
