package reader

import (
	"os"
	"time"

	"github.com/go-errors/errors"
)

// ErrTimeout is returned by a Device when no frame arrived within the timeout.
var ErrTimeout = errors.New("read timed out")

// Device is the raw hardware side of a card reader. Read blocks for at most
// timeout and returns ErrTimeout if nothing was read, or io.EOF once the device
// will never produce frames again.
type Device interface {
	Read(buf []byte, timeout time.Duration) (int, error)
	Close() error
}

type DeviceConfig struct {
	// Type is either "hidraw" or "stdin".
	Type string

	// Path of the hidraw node. If empty, the node is looked up by Vid and Pid.
	Path string

	Vid uint16
	Pid uint16
}

// OpenDevice opens the device described by config.
func OpenDevice(config *DeviceConfig) (Device, error) {
	switch config.Type {
	case "hidraw":
		path := config.Path

		if path == "" {
			var err error

			path, err = FindHidraw(config.Vid, config.Pid)
			if err != nil {
				return nil, err
			}
		}

		device, err := OpenHidraw(path)
		if err != nil {
			return nil, err
		}

		return device, nil
	case "stdin":
		return NewLineDevice(os.Stdin), nil
	default:
		return nil, errors.Errorf("unknown reader type %v", config.Type)
	}
}
