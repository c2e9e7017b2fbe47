package audio

import (
	"math"
	"strconv"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/go-errors/errors"
)

type MpdConfig struct {
	// Network is "tcp" or "unix".
	Network  string
	Address  string
	Password string
	Logger   Logger
}

// Mpd plays through a Music Player Daemon. Each command uses its own short
// lived connection, so a restarted daemon is picked up transparently.
type Mpd struct {
	network  string
	address  string
	password string
	log      Logger
}

// Compile time check for protocol compatibility
var _ Sink = (*Mpd)(nil)

func NewMpd(config *MpdConfig) *Mpd {
	m := &Mpd{
		network:  config.Network,
		address:  config.Address,
		password: config.Password,
		log:      config.Logger,
	}

	if m.network == "" {
		m.network = "tcp"
	}

	if m.log == nil {
		m.log = noopLogger{}
	}

	return m
}

func (m *Mpd) dial() (*mpd.Client, error) {
	if m.password != "" {
		return mpd.DialAuthenticated(m.network, m.address, m.password)
	}

	return mpd.Dial(m.network, m.address)
}

func (m *Mpd) do(op string, fn func(c *mpd.Client) error) error {
	c, err := m.dial()
	if err != nil {
		return errors.Errorf("%w: could not connect to mpd at %v: %v", ErrAudio, m.address, err)
	}

	defer c.Close()

	if err := fn(c); err != nil {
		return errors.Errorf("%w: %v: %v", ErrAudio, op, err)
	}

	m.log.Debugf("mpd %v", op)

	return nil
}

func (m *Mpd) Stop() error {
	return m.do("stop", func(c *mpd.Client) error {
		if err := c.Stop(); err != nil {
			return err
		}

		return c.Clear()
	})
}

func (m *Mpd) Append(track string) error {
	return m.do("append "+track, func(c *mpd.Client) error {
		if err := c.Add(track); err != nil {
			return err
		}

		status, err := c.Status()
		if err != nil {
			return err
		}

		// A paused stream stays paused; the track waits in the queue.
		if status["state"] == "stop" {
			return c.Play(-1)
		}

		return nil
	})
}

func (m *Mpd) Pause() error {
	return m.do("pause", func(c *mpd.Client) error {
		return c.Pause(true)
	})
}

func (m *Mpd) Resume() error {
	return m.do("resume", func(c *mpd.Client) error {
		return c.Pause(false)
	})
}

func (m *Mpd) Volume() (float64, error) {
	var volume float64

	err := m.do("volume", func(c *mpd.Client) error {
		status, err := c.Status()
		if err != nil {
			return err
		}

		percent, err := strconv.Atoi(status["volume"])
		if err != nil {
			return errors.Errorf("mixer reports volume %q", status["volume"])
		}

		volume = float64(percent) / 100

		return nil
	})

	return volume, err
}

func (m *Mpd) SetVolume(volume float64) error {
	percent := int(math.Round(volume * 100))

	return m.do("setvol "+strconv.Itoa(percent), func(c *mpd.Client) error {
		return c.SetVolume(percent)
	})
}
