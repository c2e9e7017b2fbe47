package reader

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"time"
)

// LineDevice turns lines of hex card identities into reader frames. It stands in
// for the hardware when the daemon runs without a reader attached. Lines that do
// not hold a valid identity produce an empty frame.
type LineDevice struct {
	lines chan string
	done  chan struct{}
	once  sync.Once
}

var _ Device = (*LineDevice)(nil)

func NewLineDevice(r io.Reader) *LineDevice {
	d := &LineDevice{
		lines: make(chan string),
		done:  make(chan struct{}),
	}

	go d.scan(r)

	return d
}

func (d *LineDevice) scan(r io.Reader) {
	defer close(d.lines)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		select {
		case d.lines <- line:
		case <-d.done:
			return
		}
	}
}

func (d *LineDevice) Read(buf []byte, timeout time.Duration) (int, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case line, ok := <-d.lines:
		if !ok {
			return 0, io.EOF
		}

		EncodeFrame(line, buf)

		return len(buf), nil
	case <-d.done:
		return 0, io.EOF
	case <-timer.C:
		return 0, ErrTimeout
	}
}

func (d *LineDevice) Close() error {
	d.once.Do(func() {
		close(d.done)
	})

	return nil
}
