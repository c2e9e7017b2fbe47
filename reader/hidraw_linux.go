//go:build linux

package reader

import (
	"time"

	"github.com/go-errors/errors"
	"golang.org/x/sys/unix"
)

// A scan arrives as a burst of short reports. Once the first report is in, the
// rest of the frame must follow within this gap.
const reportGap = 50 * time.Millisecond

// HidrawDevice reads reports from a Linux hidraw node.
type HidrawDevice struct {
	fd   int
	path string
}

var _ Device = (*HidrawDevice)(nil)

func OpenHidraw(path string) (*HidrawDevice, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.Errorf("could not open %v: %v", path, err)
	}

	return &HidrawDevice{fd: fd, path: path}, nil
}

// Read collects reports into buf until it is full or the burst ends.
func (d *HidrawDevice) Read(buf []byte, timeout time.Duration) (int, error) {
	total := 0
	wait := timeout

	for total < len(buf) {
		ready, err := d.poll(wait)
		if err != nil {
			return total, err
		}

		if !ready {
			break
		}

		n, err := unix.Read(d.fd, buf[total:])
		if err == unix.EAGAIN || err == unix.EINTR {
			continue
		}

		if err != nil {
			return total, errors.Errorf("could not read %v: %v", d.path, err)
		}

		if n == 0 {
			break
		}

		total += n
		wait = reportGap
	}

	if total == 0 {
		return 0, ErrTimeout
	}

	return total, nil
}

func (d *HidrawDevice) poll(timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(d.fd), Events: unix.POLLIN}}

	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err == unix.EINTR {
		return false, nil
	}

	if err != nil {
		return false, errors.Errorf("poll %v: %v", d.path, err)
	}

	if n == 0 {
		return false, nil
	}

	if fds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
		return false, errors.Errorf("device error/hangup on %v", d.path)
	}

	return true, nil
}

func (d *HidrawDevice) Close() error {
	return unix.Close(d.fd)
}
